package lzmamt

import "sync"

// Decompressor decompresses data incrementally with bounded output.
// It tracks end-of-stream and keeps any bytes past the end-of-stream marker
// in UnusedData, which is how concatenated streams are handled one level up
// (Decompress one-shot, Reader).
//
// Once Eof or a decode error is reached the decompressor is terminal; only
// the accessors and Close remain usable.
type Decompressor struct {
	mu         sync.Mutex
	session    *codecSession
	eof        bool
	needsInput bool
	errored    bool
	unusedData []byte
	pending    []byte // unconsumed input carried over between calls
	check      Check
}

// NewDecompressor creates a streaming decompressor. Passing nil options
// selects the reference defaults (container auto-detection, no memory
// limit, single thread).
func NewDecompressor(opts *DecompressorOptions) (*Decompressor, error) {
	s, err := newDecodeSession(opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return &Decompressor{session: s, needsInput: true, check: CheckUnknown}, nil
}

// Decompress feeds a chunk to the decoder and returns up to maxLength bytes
// of decompressed output (unlimited when maxLength is negative).
//
// With maxLength == 0 the input is accepted and held without invoking the
// codec; the caller is explicitly throttling output. When the output bound
// stops decoding before the input is exhausted, the unconsumed tail is
// carried over and prepended to the next call's chunk, so no input is ever
// lost. Bytes past the end-of-stream marker are reported via UnusedData.
func (d *Decompressor) Decompress(chunk []byte, maxLength int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.errored {
		return nil, &UsageError{Msg: "decompressor has already failed"}
	}
	if d.eof {
		return nil, &UsageError{Msg: "already at end of stream"}
	}
	if d.session.closed {
		return nil, &UsageError{Msg: "decompressor is closed"}
	}

	input := chunk
	owned := false
	if len(d.pending) > 0 {
		input = append(d.pending, chunk...)
		d.pending = nil
		owned = true
	}

	if maxLength == 0 {
		if owned {
			d.pending = input
		} else {
			// Copy: the chunk still belongs to the caller.
			d.pending = append([]byte(nil), input...)
		}
		d.needsInput = false
		return nil, nil
	}
	if len(input) == 0 {
		d.needsInput = true
		return nil, nil
	}

	buf := newBlocksBuffer(maxLength)
	block := buf.first()
	pos := 0
	in := input
	for {
		consumed, produced, end, err := d.session.push(in, block[pos:], actionRun)
		if err != nil {
			buf.discard()
			d.errored = true
			return nil, err
		}
		in = in[consumed:]
		pos += produced
		d.check = d.session.check

		if end {
			d.eof = true
			d.needsInput = false
			d.unusedData = append([]byte(nil), in...)
			return buf.finish(len(block) - pos), nil
		}
		if pos == len(block) {
			next, gerr := buf.grow(0)
			if gerr != nil {
				buf.discard()
				d.errored = true
				return nil, gerr
			}
			if next == nil {
				// Output bound reached; carry over whatever the decoder
				// did not consume.
				if len(in) > 0 {
					d.pending = append([]byte(nil), in...)
					d.needsInput = false
				} else {
					d.needsInput = true
				}
				return buf.finish(0), nil
			}
			block, pos = next, 0
			continue
		}
		if len(in) == 0 {
			d.needsInput = true
			return buf.finish(len(block) - pos), nil
		}
	}
}

// Eof reports whether the end-of-stream marker has been reached.
func (d *Decompressor) Eof() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eof
}

// NeedsInput reports whether the decoder can make progress only with more
// input. It is false while held input or buffered output is pending, and
// after end of stream.
func (d *Decompressor) NeedsInput() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.needsInput
}

// UnusedData returns the bytes that followed the end-of-stream marker.
// It is empty until Eof reports true.
func (d *Decompressor) UnusedData() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unusedData
}

// Check returns the integrity-check kind of the input stream, or
// CheckUnknown while the container header has not been parsed yet.
func (d *Decompressor) Check() Check {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.check
}

// Close releases the native decoder. Safe to call more than once.
func (d *Decompressor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.close()
	return nil
}
