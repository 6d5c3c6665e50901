package lzmamt

/*
#include <stdlib.h>
#include <string.h>
#include <stdint.h>
#include <lzma.h>

// The following *_wrapper helpers keep allocations off the cgo boundary and
// let Go pass buffer addresses as plain integers.
// See https://github.com/golang/go/issues/24450 .

static lzma_stream *go_lzma_stream_new(void) {
    return (lzma_stream *)calloc(1, sizeof(lzma_stream));
}

static void go_lzma_stream_free(lzma_stream *strm) {
    lzma_end(strm);
    free(strm);
}

static int go_lzma_code(lzma_stream *strm,
                        uintptr_t next_in, size_t avail_in,
                        uintptr_t next_out, size_t avail_out,
                        int action) {
    lzma_ret ret;
    strm->next_in = (const uint8_t *)next_in;
    strm->avail_in = avail_in;
    strm->next_out = (uint8_t *)next_out;
    strm->avail_out = avail_out;
    ret = lzma_code(strm, (lzma_action)action);
    // liblzma does not retain the windows across calls; clear the pointers so
    // the stream never holds stale references to Go memory between pushes.
    strm->next_in = NULL;
    strm->next_out = NULL;
    return (int)ret;
}

static int go_lzma_stream_encoder_mt(lzma_stream *strm, uint32_t threads,
                                     uint32_t preset, int check) {
    lzma_mt mt;
    memset(&mt, 0, sizeof(mt));
    mt.flags = 0;
    mt.threads = threads;
    mt.block_size = 0;
    mt.timeout = 0;
    mt.preset = preset;
    mt.filters = NULL;
    mt.check = (lzma_check)check;
    return (int)lzma_stream_encoder_mt(strm, &mt);
}

static int go_lzma_stream_decoder_mt(lzma_stream *strm, uint32_t threads,
                                     uint64_t memlimit_threading,
                                     uint64_t memlimit_stop, uint32_t flags) {
    lzma_mt mt;
    memset(&mt, 0, sizeof(mt));
    mt.flags = flags;
    mt.threads = threads;
    mt.timeout = 0;
    mt.memlimit_threading = memlimit_threading;
    mt.memlimit_stop = memlimit_stop;
    return (int)lzma_stream_decoder_mt(strm, &mt);
}
*/
import "C"

import (
	"runtime"
	"unsafe"
)

type direction int

const (
	dirEncode direction = iota
	dirDecode
)

// action tells the codec whether more input may follow the current window.
type action int

const (
	actionRun    action = iota // streaming, keep accepting input
	actionFinish               // no more input will come; flush trailing structures
)

// Decoder init flags (stable liblzma ABI values, lzma/container.h).
// LZMA_TELL_NO_CHECK | LZMA_TELL_ANY_CHECK: report the stream's
// integrity-check kind as soon as the header has been parsed.
const tellCheckFlags = 0x01 | 0x04

// codecSession owns one native encode or decode stream handle. All pointer
// windows handed to push are only referenced for the duration of the call;
// teardown runs exactly once, on close or as a finalizer backstop.
type codecSession struct {
	strm    *C.lzma_stream
	dir     direction
	threads int
	check   Check
	closed  bool
}

// newEncodeSession creates a native encoder for the given options. The
// multi-threaded encoder is used for FormatXZ with a preset filter chain and
// an effective thread count other than one; everything else goes through the
// single-threaded reference encoders.
func newEncodeSession(opts *CompressorOptions) (*codecSession, error) {
	const op = "init encoder"

	if opts.Threads < 0 {
		return nil, &UsageError{Msg: "threads must be non-negative"}
	}
	threads := opts.Threads
	if threads == 0 {
		threads = detectConcurrency()
	}

	strm := C.go_lzma_stream_new()
	if strm == nil {
		return nil, &MemoryError{&LZMAError{Op: op, Message: "cannot allocate stream"}}
	}
	fail := func(err error) (*codecSession, error) {
		C.go_lzma_stream_free(strm)
		return nil, err
	}

	var cret C.int
	switch opts.Format {
	case FormatXZ:
		switch {
		case opts.Filters == nil && threads != 1:
			cret = C.go_lzma_stream_encoder_mt(strm,
				C.uint32_t(threads), C.uint32_t(opts.Preset), C.int(opts.Check))
		case opts.Filters == nil:
			cret = C.int(C.lzma_easy_encoder(strm,
				C.uint32_t(opts.Preset), C.lzma_check(opts.Check)))
		default:
			// Custom filter chains are not supported by the multi-threaded
			// encoder; delegate to the single-threaded reference path.
			chain, freeChain, err := buildFilterChain(opts.Filters)
			if err != nil {
				return fail(err)
			}
			cret = C.int(C.lzma_stream_encoder(strm, chain, C.lzma_check(opts.Check)))
			freeChain()
			threads = 1
		}
	case FormatAlone:
		if opts.Check != CheckNone {
			return fail(&OptionsError{&LZMAError{Op: op,
				Message: "integrity checks are only supported by FORMAT_XZ"}})
		}
		lzopts, freeOpts, err := buildAloneOptions(opts.Filters, opts.Preset)
		if err != nil {
			return fail(err)
		}
		cret = C.int(C.lzma_alone_encoder(strm, lzopts))
		freeOpts()
		threads = 1
	case FormatRaw:
		if opts.Check != CheckNone {
			return fail(&OptionsError{&LZMAError{Op: op,
				Message: "integrity checks are only supported by FORMAT_XZ"}})
		}
		if opts.Filters == nil {
			return fail(&OptionsError{&LZMAError{Op: op,
				Message: "filter chain must be specified for FORMAT_RAW"}})
		}
		chain, freeChain, err := buildFilterChain(opts.Filters)
		if err != nil {
			return fail(err)
		}
		cret = C.int(C.lzma_raw_encoder(strm, chain))
		freeChain()
		threads = 1
	default:
		return fail(&OptionsError{&LZMAError{Op: op,
			Message: "invalid container format for compression"}})
	}

	if err := mapLzmaError(int(cret), op); err != nil {
		return fail(err)
	}

	s := &codecSession{strm: strm, dir: dirEncode, threads: threads, check: opts.Check}
	runtime.SetFinalizer(s, (*codecSession).close)
	return s, nil
}

// newDecodeSession creates a native decoder for the given options. The
// multi-threaded decoder handles only the .xz container; it is used for
// FormatXZ when the effective thread count, after the version safety gate,
// is other than one. The configured memory limit acts as liblzma's hard
// stop and, for the threaded decoder, also as the soft ceiling that sheds
// worker threads before failing outright.
func newDecodeSession(opts *DecompressorOptions) (*codecSession, error) {
	const op = "init decoder"

	if opts.Threads < 0 {
		return nil, &UsageError{Msg: "threads must be non-negative"}
	}
	memlimit := C.uint64_t(memlimitUnbounded)
	if opts.MemLimit > 0 {
		memlimit = C.uint64_t(opts.MemLimit)
	}

	strm := C.go_lzma_stream_new()
	if strm == nil {
		return nil, &MemoryError{&LZMAError{Op: op, Message: "cannot allocate stream"}}
	}
	fail := func(err error) (*codecSession, error) {
		C.go_lzma_stream_free(strm)
		return nil, err
	}
	requireNoFilters := func() error {
		if opts.Filters != nil {
			return &OptionsError{&LZMAError{Op: op,
				Message: "cannot specify filters except with FORMAT_RAW"}}
		}
		return nil
	}

	threads := 1
	var cret C.int
	switch opts.Format {
	case FormatXZ:
		if err := requireNoFilters(); err != nil {
			return fail(err)
		}
		threads = effectiveDecodeThreads(opts.Threads)
		if threads != 1 {
			cret = C.go_lzma_stream_decoder_mt(strm, C.uint32_t(threads),
				memlimit, memlimit, C.uint32_t(tellCheckFlags))
		} else {
			cret = C.int(C.lzma_stream_decoder(strm, memlimit, C.uint32_t(tellCheckFlags)))
		}
	case FormatAuto:
		if err := requireNoFilters(); err != nil {
			return fail(err)
		}
		cret = C.int(C.lzma_auto_decoder(strm, memlimit, C.uint32_t(tellCheckFlags)))
	case FormatAlone:
		if err := requireNoFilters(); err != nil {
			return fail(err)
		}
		cret = C.int(C.lzma_alone_decoder(strm, memlimit))
	case FormatRaw:
		if opts.MemLimit != 0 {
			return fail(&OptionsError{&LZMAError{Op: op,
				Message: "cannot specify memory limit with FORMAT_RAW"}})
		}
		if opts.Filters == nil {
			return fail(&OptionsError{&LZMAError{Op: op,
				Message: "filter chain must be specified for FORMAT_RAW"}})
		}
		chain, freeChain, err := buildFilterChain(opts.Filters)
		if err != nil {
			return fail(err)
		}
		cret = C.int(C.lzma_raw_decoder(strm, chain))
		freeChain()
	default:
		return fail(&OptionsError{&LZMAError{Op: op,
			Message: "invalid container format for decompression"}})
	}

	if err := mapLzmaError(int(cret), op); err != nil {
		return fail(err)
	}

	s := &codecSession{strm: strm, dir: dirDecode, threads: threads, check: CheckUnknown}
	runtime.SetFinalizer(s, (*codecSession).close)
	return s, nil
}

// push submits the current input and output windows to the native codec.
// It returns how many input bytes were consumed, how many output bytes were
// produced, and whether the codec reached the end of the stream. An error
// return means the session is no longer usable for codec calls.
func (s *codecSession) push(in, out []byte, act action) (consumed, produced int, end bool, err error) {
	if s.closed {
		return 0, 0, false, &UsageError{Msg: "operation on closed codec session"}
	}

	cAction := C.int(C.LZMA_RUN)
	if act == actionFinish {
		cAction = C.int(C.LZMA_FINISH)
	}
	var inPtr, outPtr uintptr
	if len(in) > 0 {
		inPtr = uintptr(unsafe.Pointer(&in[0]))
	}
	if len(out) > 0 {
		outPtr = uintptr(unsafe.Pointer(&out[0]))
	}

	ret := int(C.go_lzma_code(s.strm,
		C.uintptr_t(inPtr), C.size_t(len(in)),
		C.uintptr_t(outPtr), C.size_t(len(out)),
		cAction))
	// Prevent GC'ing of in and out during the CGO call above.
	runtime.KeepAlive(in)
	runtime.KeepAlive(out)

	consumed = len(in) - int(s.strm.avail_in)
	produced = len(out) - int(s.strm.avail_out)

	switch ret {
	case retOK:
		return consumed, produced, false, nil
	case retStreamEnd:
		if s.dir == dirDecode {
			s.check = Check(C.lzma_get_check(s.strm))
		}
		return consumed, produced, true, nil
	case retNoCheck, retGetCheck:
		// Emitted once per .xz stream thanks to tellCheckFlags; record the
		// check kind and report ordinary progress.
		s.check = Check(C.lzma_get_check(s.strm))
		return consumed, produced, false, nil
	default:
		op := "compress"
		if s.dir == dirDecode {
			op = "decompress"
		}
		return consumed, produced, false, mapLzmaError(ret, op)
	}
}

// close releases the native handle. Safe to call more than once; only the
// first call tears the stream down.
func (s *codecSession) close() {
	if s.closed {
		return
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	C.go_lzma_stream_free(s.strm)
	s.strm = nil
}
