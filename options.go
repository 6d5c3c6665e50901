package lzmamt

// CompressorOptions configures a Compressor, Writer or one-shot Compress
// call. The zero Preset selects PresetDefault; a literal preset 0 can be
// requested through a custom filter chain. Threads 0 auto-detects from the
// CPU topology; the multi-threaded encoder is only used for FormatXZ with a
// preset (non-custom) filter chain.
type CompressorOptions struct {
	Format  Format // FormatXZ, FormatAlone or FormatRaw
	Check   Check  // FormatXZ only; FormatAlone and FormatRaw require CheckNone
	Preset  uint32 // 0-9, optionally OR-ed with PresetExtreme
	Filters []Filter
	Threads int
}

// DefaultCompressorOptions returns the reference defaults: an .xz container
// with a CRC64 check, the default preset and single-threaded operation.
func DefaultCompressorOptions() *CompressorOptions {
	return &CompressorOptions{
		Format:  FormatXZ,
		Check:   CheckCRC64,
		Preset:  PresetDefault,
		Threads: 1,
	}
}

func (o *CompressorOptions) withDefaults() *CompressorOptions {
	if o == nil {
		return DefaultCompressorOptions()
	}
	opts := *o
	if opts.Preset == 0 {
		opts.Preset = PresetDefault
	}
	return &opts
}

// DecompressorOptions configures a Decompressor, Reader or one-shot
// Decompress call. MemLimit caps the decoder's memory usage in bytes
// (0 = unlimited); exceeding it fails the operation with a MemlimitError.
// Threads 0 auto-detects; thread counts other than one are silently reduced
// to one when the runtime liblzma is affected by CVE-2025-31115 (see
// CheckConcurrentDecodeSafe for the strict policy) or when the format is not
// FormatXZ, the only container the threaded decoder supports.
type DecompressorOptions struct {
	Format   Format // FormatAuto, FormatXZ, FormatAlone or FormatRaw
	MemLimit uint64
	Filters  []Filter // FormatRaw only, required there
	Threads  int
}

// DefaultDecompressorOptions returns the reference defaults: container
// auto-detection, no memory limit and single-threaded operation.
func DefaultDecompressorOptions() *DecompressorOptions {
	return &DecompressorOptions{
		Format:  FormatAuto,
		Threads: 1,
	}
}

func (o *DecompressorOptions) withDefaults() *DecompressorOptions {
	if o == nil {
		return DefaultDecompressorOptions()
	}
	opts := *o
	return &opts
}
