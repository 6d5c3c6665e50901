package lzmamt

/*
#include <lzma.h>
*/
import "C"

// CVE-2025-31115: the multi-threaded .xz decoder in liblzma can crash or
// use freed memory when decoding invalid input. The bug exists in every
// release that ships the threaded decoder up to and including 5.8.0 and was
// fixed in 5.8.1. Versions predating the threaded decoder are unaffected.
//
// The bounds use liblzma's version encoding:
// major*10000000 + minor*10000 + patch*10 + stability (0=alpha 1=beta 2=stable).
const (
	vulnDecoderMin uint32 = 50030030 // 5.3.3alpha, first release with the threaded decoder
	vulnDecoderMax uint32 = 50080002 // 5.8.0, last affected release
	safeDecoderMin uint32 = 50080012 // 5.8.1, first release with the fix
)

// CodecVersion returns the runtime liblzma version as a display string,
// e.g. "5.6.2".
func CodecVersion() string {
	return C.GoString(C.lzma_version_string())
}

func codecVersionNumber() uint32 {
	return uint32(C.lzma_version_number())
}

// decoderVersionSafe classifies a liblzma version number against the
// CVE-2025-31115 vulnerable range.
func decoderVersionSafe(version uint32) bool {
	return version >= safeDecoderMin || version < vulnDecoderMin
}

// IsConcurrentDecodeSafe reports whether the linked liblzma can run the
// multi-threaded decoder without being exposed to CVE-2025-31115.
func IsConcurrentDecodeSafe() bool {
	return decoderVersionSafe(codecVersionNumber())
}

// effectiveDecodeThreads resolves a requested decode thread count: zero
// auto-detects from the CPU topology, and anything other than one is
// silently downgraded to one when the runtime liblzma is inside the
// vulnerable range. This is the policy used by every convenience entry
// point; CheckConcurrentDecodeSafe offers the eager-reject alternative.
func effectiveDecodeThreads(requested int) int {
	threads := requested
	if threads == 0 {
		threads = detectConcurrency()
	}
	if threads != 1 && !IsConcurrentDecodeSafe() {
		return 1
	}
	return threads
}

// CheckConcurrentDecodeSafe returns an *UnsafeThreadsError when the given
// thread count would run the multi-threaded decoder on a liblzma affected by
// CVE-2025-31115, and nil otherwise. Callers preferring a hard failure over
// the silent single-thread downgrade should call this before constructing a
// decompressor.
func CheckConcurrentDecodeSafe(threads int) error {
	if threads != 1 && !IsConcurrentDecodeSafe() {
		return &UnsafeThreadsError{Version: CodecVersion(), Threads: threads}
	}
	return nil
}
