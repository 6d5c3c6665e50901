package lzmamt

import "math"

const (
	kiB = 1024
	miB = 1024 * kiB
)

// blockSchedule is the fixed ascending sequence of block sizes used as the
// output buffer fills. Growing through a block list instead of reallocating
// one contiguous buffer avoids quadratic copying on large outputs; the final
// entry is reused for every block past the end of the schedule.
var blockSchedule = []int{
	32 * kiB, 64 * kiB, 256 * kiB, 1 * miB, 4 * miB, 8 * miB,
	16 * miB, 16 * miB,
	32 * miB, 32 * miB, 32 * miB, 32 * miB,
	64 * miB, 64 * miB,
	128 * miB, 128 * miB,
	256 * miB,
}

// blocksBuffer accumulates codec output into a growing list of fixed-capacity
// blocks and materializes the final contiguous result without over-allocating.
//
// Usage protocol: first() once, then grow(0) each time the current block is
// exactly full, then exactly one of finish or discard. A blocksBuffer must not
// be reused afterwards.
type blocksBuffer struct {
	blocks    [][]byte
	allocated int // running total of allocated bytes
	max       int // output length cap; negative means unlimited
}

func newBlocksBuffer(maxLength int) *blocksBuffer {
	if maxLength < 0 {
		maxLength = -1
	}
	return &blocksBuffer{max: maxLength}
}

// first allocates the initial block and returns it for writing. The block is
// sized by the first schedule entry, clipped to the length cap (minimum one
// byte so the codec can always make progress).
func (b *blocksBuffer) first() []byte {
	if len(b.blocks) != 0 {
		panic("BUG: blocksBuffer.first called twice")
	}
	size := blockSchedule[0]
	if b.max >= 0 && size > b.max {
		size = b.max
		if size < 1 {
			size = 1
		}
	}
	blk := make([]byte, size)
	b.blocks = append(b.blocks, blk)
	b.allocated = size
	return blk
}

// grow appends the next block and returns it for writing. It must be called
// only when the current block is exactly full; avail is the unused capacity
// remaining in the current block and must be zero.
//
// When the length cap has already been reached, grow returns (nil, nil); the
// caller must stop producing output. A non-nil error means the running total
// would overflow (reported as an allocation failure).
func (b *blocksBuffer) grow(avail int) ([]byte, error) {
	if avail != 0 {
		panic("BUG: blocksBuffer.grow called with unused space in the current block")
	}
	if len(b.blocks) == 0 {
		panic("BUG: blocksBuffer.grow called before first")
	}

	idx := len(b.blocks)
	if idx >= len(blockSchedule) {
		idx = len(blockSchedule) - 1
	}
	size := blockSchedule[idx]

	if b.allocated > math.MaxInt-size {
		return nil, &MemoryError{&LZMAError{
			Op:      "grow output buffer",
			Message: "output buffer size overflow",
		}}
	}
	if b.max >= 0 {
		rest := b.max - b.allocated
		if rest == 0 {
			return nil, nil
		}
		if size > rest {
			size = rest
		}
	}

	blk := make([]byte, size)
	b.blocks = append(b.blocks, blk)
	b.allocated += size
	return blk, nil
}

// finish consumes the buffer and returns the accumulated bytes; avail is the
// unused capacity remaining in the last block. Two fast paths hand a block
// out without copying: a single fully-used block, and a fully-used block
// followed by an entirely unused one. Those two cases dominate real
// workloads (small outputs, and outputs that land exactly on a block
// boundary).
func (b *blocksBuffer) finish(avail int) []byte {
	if len(b.blocks) == 0 {
		panic("BUG: blocksBuffer.finish called before first")
	}
	defer b.discard()

	last := b.blocks[len(b.blocks)-1]
	if avail < 0 || avail > len(last) {
		panic("BUG: blocksBuffer.finish called with impossible remaining capacity")
	}

	if len(b.blocks) == 1 && avail == 0 {
		return last
	}
	if len(b.blocks) == 2 && avail == len(last) {
		return b.blocks[0]
	}

	out := make([]byte, 0, b.allocated-avail)
	for _, blk := range b.blocks[:len(b.blocks)-1] {
		out = append(out, blk...)
	}
	return append(out, last[:len(last)-avail]...)
}

// discard drops all held blocks without producing a result. Used on any
// codec failure mid-fill.
func (b *blocksBuffer) discard() {
	b.blocks = nil
	b.allocated = 0
}
