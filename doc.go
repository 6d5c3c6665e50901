/*
Package lzmamt provides XZ/LZMA compression and decompression on top of
liblzma, with optional multi-threading for the .xz container format.

The package supports the .xz container (FormatXZ), the legacy .lzma
container (FormatAlone), bare filter-chain payloads (FormatRaw) and
container auto-detection for decoding (FormatAuto). Formats and options the
multi-threaded coders cannot handle are delegated transparently to liblzma's
single-threaded coders with the same error behavior.

# One-shot

	compressed, err := lzmamt.Compress(data, nil)
	original, err := lzmamt.Decompress(compressed, nil)

Thread count 0 auto-detects from the CPU topology:

	compressed, err := lzmamt.Compress(data, &lzmamt.CompressorOptions{
		Format:  lzmamt.FormatXZ,
		Check:   lzmamt.CheckCRC64,
		Preset:  lzmamt.PresetDefault,
		Threads: 0,
	})

# Streaming

Compressor and Decompressor process data in chunks and expose the codec's
end-of-stream and trailing-data state; Reader and Writer wrap them behind
io.Reader and io.WriteCloser:

	w, err := lzmamt.NewWriter(f, nil)
	_, err = w.Write(data)
	err = w.Close() // emits the container footer

# Security

The multi-threaded .xz decoder in liblzma 5.3.3alpha through 5.8.0 has a
use-after-free when decoding invalid input (CVE-2025-31115). This package
checks the liblzma version at runtime: decompression entry points silently
run single-threaded on affected versions, and CheckConcurrentDecodeSafe
exposes the same classification for callers that prefer a hard error.
*/
package lzmamt
