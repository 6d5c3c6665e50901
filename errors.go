package lzmamt

import (
	"errors"
	"fmt"
)

// liblzma return codes (lzma_ret). The values are part of the library's
// stable ABI and are mirrored here so error mapping stays testable without
// crossing the cgo boundary.
const (
	retOK               = 0
	retStreamEnd        = 1
	retNoCheck          = 2
	retUnsupportedCheck = 3
	retGetCheck         = 4
	retMemError         = 5
	retMemlimitError    = 6
	retFormatError      = 7
	retOptionsError     = 8
	retDataError        = 9
	retBufError         = 10
	retProgError        = 11
)

// LZMAError is the base error for all failures reported by the codec.
// The concrete category wrappers below allow errors.As-based dispatch.
type LZMAError struct {
	Op      string // operation that failed
	Ret     int    // liblzma return code, 0 when not codec-originated
	Message string
}

func (e *LZMAError) Error() string {
	if e.Ret == 0 {
		return fmt.Sprintf("lzma: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("lzma: %s: %s (ret %d)", e.Op, e.Message, e.Ret)
}

// Error categories, one per failure class of the codec.
type (
	// MemoryError reports that the codec or a buffer could not be allocated.
	MemoryError struct{ *LZMAError }
	// MemlimitError reports that decoding would exceed the configured
	// memory usage ceiling.
	MemlimitError struct{ *LZMAError }
	// FormatError reports input that is not in the expected container format.
	FormatError struct{ *LZMAError }
	// OptionsError reports invalid or unsupported codec options.
	OptionsError struct{ *LZMAError }
	// DataError reports corrupt compressed input.
	DataError struct{ *LZMAError }
	// TruncatedError reports input that ended before the end-of-stream marker.
	TruncatedError struct{ *LZMAError }
	// InternalError reports misuse of the liblzma binding (LZMA_PROG_ERROR).
	// It is never expected and never retried.
	InternalError struct{ *LZMAError }
)

// UsageError reports caller misuse of a wrapper object, such as compressing
// on an already-flushed compressor. It never indicates codec malfunction.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return "lzma: " + e.Msg
}

// UnsafeThreadsError reports a rejected multi-threaded decode request on a
// liblzma version affected by CVE-2025-31115.
type UnsafeThreadsError struct {
	Version string
	Threads int
}

func (e *UnsafeThreadsError) Error() string {
	return fmt.Sprintf("lzma: multi-threaded decoding with threads=%d is unsafe on liblzma %s (CVE-2025-31115); use threads=1 or upgrade liblzma to 5.8.1+",
		e.Threads, e.Version)
}

// mapLzmaError converts a liblzma return code into a categorized error.
// Returns nil for LZMA_OK and LZMA_STREAM_END; those are not failures.
func mapLzmaError(ret int, op string) error {
	base := &LZMAError{Op: op, Ret: ret}
	switch ret {
	case retOK, retStreamEnd:
		return nil
	case retMemError:
		base.Message = "cannot allocate memory"
		return &MemoryError{base}
	case retMemlimitError:
		base.Message = "memory usage limit exceeded"
		return &MemlimitError{base}
	case retFormatError:
		base.Message = "input format not supported by decoder"
		return &FormatError{base}
	case retOptionsError:
		base.Message = "invalid or unsupported options"
		return &OptionsError{base}
	case retDataError:
		base.Message = "corrupt input data"
		return &DataError{base}
	case retBufError:
		base.Message = "compressed data ended before the end-of-stream marker was reached"
		return &TruncatedError{base}
	case retUnsupportedCheck:
		base.Message = "integrity check not supported by this liblzma build"
		return &OptionsError{base}
	case retNoCheck, retGetCheck:
		// Integrity-check notifications are consumed by the session before
		// error mapping; seeing one here means the session logic broke.
		base.Message = "unexpected integrity-check notification from decoder"
		return &InternalError{base}
	case retProgError:
		base.Message = "internal codec error"
		return &InternalError{base}
	default:
		base.Message = "unknown liblzma error"
		return &InternalError{base}
	}
}

// Convenience predicates for error category checking.

func IsMemoryError(err error) bool   { var e *MemoryError; return errors.As(err, &e) }
func IsMemlimitError(err error) bool { var e *MemlimitError; return errors.As(err, &e) }
func IsFormatError(err error) bool   { var e *FormatError; return errors.As(err, &e) }
func IsOptionsError(err error) bool  { var e *OptionsError; return errors.As(err, &e) }
func IsDataError(err error) bool     { var e *DataError; return errors.As(err, &e) }
func IsTruncatedError(err error) bool {
	var e *TruncatedError
	return errors.As(err, &e)
}
func IsInternalError(err error) bool { var e *InternalError; return errors.As(err, &e) }
func IsUsageError(err error) bool    { var e *UsageError; return errors.As(err, &e) }
func IsUnsafeThreadsError(err error) bool {
	var e *UnsafeThreadsError
	return errors.As(err, &e)
}
