package lzmamt

/*
#cgo LDFLAGS: -llzma

#include <lzma.h>
*/
import "C"

// Format identifies the container format wrapping the compressed payload.
// The numeric values match the reference codec's published constants.
type Format int

const (
	// FormatAuto detects the container format from the input. Decoding only.
	FormatAuto Format = 0
	// FormatXZ is the .xz container. The only format supported by the
	// multi-threaded encoder and decoder.
	FormatXZ Format = 1
	// FormatAlone is the legacy .lzma container.
	FormatAlone Format = 2
	// FormatRaw is a bare filter-chain payload with no container framing.
	// A filter chain must always be specified explicitly.
	FormatRaw Format = 3
)

// Check identifies the integrity check recorded in the .xz container footer.
// The numeric values match liblzma's lzma_check enumeration.
type Check int

const (
	CheckNone   Check = 0
	CheckCRC32  Check = 1
	CheckCRC64  Check = 4
	CheckSHA256 Check = 10

	// CheckIDMax is the highest check ID the container format can carry.
	CheckIDMax Check = 15
	// CheckUnknown is reported by a decompressor before the input's check
	// type is known.
	CheckUnknown Check = 16
)

// Compression presets. A preset is an integer 0-9, optionally OR-ed with
// PresetExtreme.
const (
	PresetDefault uint32 = 6
	PresetExtreme uint32 = 1 << 31
)

// Match finder kinds for detailed LZMA1/LZMA2 filter options.
const (
	MFHC3 uint32 = 0x03
	MFHC4 uint32 = 0x04
	MFBT2 uint32 = 0x12
	MFBT3 uint32 = 0x13
	MFBT4 uint32 = 0x14
)

// Compression modes for detailed LZMA1/LZMA2 filter options.
const (
	ModeFast   uint32 = 1
	ModeNormal uint32 = 2
)

// memlimitUnbounded disables a liblzma memory ceiling (UINT64_MAX).
const memlimitUnbounded = ^uint64(0)

// IsCheckSupported reports whether the given integrity check is supported
// by the linked liblzma build. CheckNone and CheckCRC32 are always supported.
func IsCheckSupported(check Check) bool {
	if check < CheckNone || check > CheckIDMax {
		return false
	}
	return C.lzma_check_is_supported(C.lzma_check(check)) != 0
}
