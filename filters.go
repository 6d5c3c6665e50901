package lzmamt

/*
#include <stdlib.h>
#include <lzma.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// FilterID identifies a filter in a chain. The values match liblzma's
// published filter IDs.
type FilterID uint64

const (
	FilterLZMA1 FilterID = 0x4000000000000001
	FilterLZMA2 FilterID = 0x21

	FilterDelta FilterID = 0x03

	FilterX86      FilterID = 0x04
	FilterPowerPC  FilterID = 0x05
	FilterIA64     FilterID = 0x06
	FilterARM      FilterID = 0x07
	FilterARMThumb FilterID = 0x08
	FilterSPARC    FilterID = 0x09
)

// lzmaFiltersMax is the longest chain the container format permits
// (LZMA_FILTERS_MAX).
const lzmaFiltersMax = 4

// Filter is one entry of a custom filter chain. A chain holds at most four
// filters and must end with a compression filter (LZMA1 or LZMA2).
type Filter interface {
	filterID() FilterID
}

// LZMAFilter configures the LZMA1 or LZMA2 compression filter. The detailed
// options are seeded from Preset (PresetDefault when zero) and individual
// non-zero fields override the preset-derived values.
type LZMAFilter struct {
	ID       FilterID // FilterLZMA1 or FilterLZMA2
	Preset   uint32
	DictSize uint32
	LC       uint32 // literal context bits
	LP       uint32 // literal position bits
	PB       uint32 // position bits
	Mode     uint32 // ModeFast or ModeNormal
	NiceLen  uint32
	MF       uint32 // match finder, one of the MF* constants
	Depth    uint32
}

func (f LZMAFilter) filterID() FilterID { return f.ID }

// DeltaFilter configures the byte-wise delta filter. Dist is the distance
// between subtracted bytes (1-256, default 1).
type DeltaFilter struct {
	Dist uint32
}

func (f DeltaFilter) filterID() FilterID { return FilterDelta }

// BCJFilter configures a branch/call/jump machine-code filter. ID selects
// the target architecture (FilterX86 ... FilterSPARC).
type BCJFilter struct {
	ID          FilterID
	StartOffset uint32
}

func (f BCJFilter) filterID() FilterID { return f.ID }

func chainError(msg string) error {
	return &OptionsError{&LZMAError{Op: "build filter chain", Message: msg}}
}

// newLZMAOptions allocates detailed LZMA1/LZMA2 options in C memory, seeded
// from the filter's preset with non-zero fields overriding. The caller owns
// the returned pointer and must C.free it once the encoder or decoder has
// been initialized (liblzma copies the options during init).
func newLZMAOptions(f LZMAFilter) (*C.lzma_options_lzma, error) {
	lo := (*C.lzma_options_lzma)(C.calloc(1, C.sizeof_lzma_options_lzma))
	if lo == nil {
		return nil, &MemoryError{&LZMAError{Op: "build filter chain",
			Message: "cannot allocate filter options"}}
	}
	preset := f.Preset
	if preset == 0 {
		preset = PresetDefault
	}
	if C.lzma_lzma_preset(lo, C.uint32_t(preset)) != 0 {
		C.free(unsafe.Pointer(lo))
		return nil, chainError(fmt.Sprintf("invalid compression preset %d", preset&^PresetExtreme))
	}
	if f.DictSize != 0 {
		lo.dict_size = C.uint32_t(f.DictSize)
	}
	if f.LC != 0 {
		lo.lc = C.uint32_t(f.LC)
	}
	if f.LP != 0 {
		lo.lp = C.uint32_t(f.LP)
	}
	if f.PB != 0 {
		lo.pb = C.uint32_t(f.PB)
	}
	if f.Mode != 0 {
		lo.mode = C.lzma_mode(f.Mode)
	}
	if f.NiceLen != 0 {
		lo.nice_len = C.uint32_t(f.NiceLen)
	}
	if f.MF != 0 {
		lo.mf = C.lzma_match_finder(f.MF)
	}
	if f.Depth != 0 {
		lo.depth = C.uint32_t(f.Depth)
	}
	return lo, nil
}

// buildFilterChain converts a filter chain into a NULL-options-terminated
// native lzma_filter array. The returned release function frees the array
// and every per-filter options block; call it as soon as the coder has been
// initialized.
func buildFilterChain(filters []Filter) (*C.lzma_filter, func(), error) {
	if len(filters) == 0 {
		return nil, nil, chainError("filter chain must not be empty")
	}
	if len(filters) > lzmaFiltersMax {
		return nil, nil, chainError(fmt.Sprintf("filter chain has %d entries; the maximum is %d",
			len(filters), lzmaFiltersMax))
	}

	arr := (*C.lzma_filter)(C.calloc(C.size_t(len(filters)+1), C.sizeof_lzma_filter))
	if arr == nil {
		return nil, nil, &MemoryError{&LZMAError{Op: "build filter chain",
			Message: "cannot allocate filter array"}}
	}
	entries := unsafe.Slice(arr, len(filters)+1)
	release := func() {
		for i := range entries[:len(filters)] {
			if entries[i].options != nil {
				C.free(entries[i].options)
			}
		}
		C.free(unsafe.Pointer(arr))
	}

	for i, f := range filters {
		var optPtr unsafe.Pointer
		switch ft := f.(type) {
		case LZMAFilter:
			if ft.ID != FilterLZMA1 && ft.ID != FilterLZMA2 {
				release()
				return nil, nil, chainError(fmt.Sprintf("invalid LZMA filter ID %#x", uint64(ft.ID)))
			}
			lo, err := newLZMAOptions(ft)
			if err != nil {
				release()
				return nil, nil, err
			}
			optPtr = unsafe.Pointer(lo)
		case DeltaFilter:
			do := (*C.lzma_options_delta)(C.calloc(1, C.sizeof_lzma_options_delta))
			if do == nil {
				release()
				return nil, nil, &MemoryError{&LZMAError{Op: "build filter chain",
					Message: "cannot allocate filter options"}}
			}
			do._type = C.LZMA_DELTA_TYPE_BYTE
			dist := ft.Dist
			if dist == 0 {
				dist = 1
			}
			do.dist = C.uint32_t(dist)
			optPtr = unsafe.Pointer(do)
		case BCJFilter:
			switch ft.ID {
			case FilterX86, FilterPowerPC, FilterIA64, FilterARM, FilterARMThumb, FilterSPARC:
			default:
				release()
				return nil, nil, chainError(fmt.Sprintf("invalid BCJ filter ID %#x", uint64(ft.ID)))
			}
			if ft.StartOffset != 0 {
				bo := (*C.lzma_options_bcj)(C.calloc(1, C.sizeof_lzma_options_bcj))
				if bo == nil {
					release()
					return nil, nil, &MemoryError{&LZMAError{Op: "build filter chain",
						Message: "cannot allocate filter options"}}
				}
				bo.start_offset = C.uint32_t(ft.StartOffset)
				optPtr = unsafe.Pointer(bo)
			}
		default:
			release()
			return nil, nil, chainError(fmt.Sprintf("unsupported filter type %T", f))
		}
		entries[i].id = C.lzma_vli(f.filterID())
		entries[i].options = optPtr
	}
	entries[len(filters)].id = C.lzma_vli(^uint64(0)) // LZMA_VLI_UNKNOWN terminator
	return arr, release, nil
}

// buildAloneOptions produces the LZMA1 options for the legacy .lzma
// container, either from a bare preset or from a single-filter LZMA1 chain.
func buildAloneOptions(filters []Filter, preset uint32) (*C.lzma_options_lzma, func(), error) {
	var f LZMAFilter
	switch {
	case filters == nil:
		f = LZMAFilter{ID: FilterLZMA1, Preset: preset}
	case len(filters) == 1:
		lf, ok := filters[0].(LZMAFilter)
		if !ok || lf.ID != FilterLZMA1 {
			return nil, nil, chainError("FORMAT_ALONE requires a single LZMA1 filter")
		}
		f = lf
	default:
		return nil, nil, chainError("FORMAT_ALONE supports only one filter")
	}
	lo, err := newLZMAOptions(f)
	if err != nil {
		return nil, nil, err
	}
	return lo, func() { C.free(unsafe.Pointer(lo)) }, nil
}
