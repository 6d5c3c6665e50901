package lzmamt

import "sync"

// Compressor compresses data incrementally. Feed chunks with Compress and
// terminate the stream with exactly one Flush; once flushed, the compressor
// accepts no further calls.
//
// A Compressor is safe for concurrent use, but the order in which concurrent
// chunks are appended to the stream is unspecified; callers that need
// deterministic output must serialize calls or use one instance per
// goroutine.
type Compressor struct {
	mu      sync.Mutex
	session *codecSession
	flushed bool
}

// NewCompressor creates a streaming compressor. Passing nil options selects
// the reference defaults (.xz, CRC64, default preset, single thread).
func NewCompressor(opts *CompressorOptions) (*Compressor, error) {
	s, err := newEncodeSession(opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return &Compressor{session: s}, nil
}

// Compress feeds a chunk to the encoder and returns whatever compressed
// output accumulated. The result may be empty: the codec buffers internally
// until it has a full block to emit.
func (c *Compressor) Compress(chunk []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flushed {
		return nil, &UsageError{Msg: "compressor has been flushed"}
	}
	if c.session.closed {
		return nil, &UsageError{Msg: "compressor is closed"}
	}
	if len(chunk) == 0 {
		return nil, nil
	}
	return c.run(chunk, actionRun)
}

// Flush finishes the stream: the encoder emits every buffered byte plus the
// container's trailing structures. After a successful Flush the compressor
// is terminal; only Close is permitted.
func (c *Compressor) Flush() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flushed {
		return nil, &UsageError{Msg: "compressor has been flushed"}
	}
	if c.session.closed {
		return nil, &UsageError{Msg: "compressor is closed"}
	}
	out, err := c.run(nil, actionFinish)
	if err != nil {
		return nil, err
	}
	c.flushed = true
	return out, nil
}

// Close releases the native encoder. Safe to call more than once.
func (c *Compressor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.close()
	return nil
}

// run drives the encoder until the input is consumed (actionRun) or the
// stream end is reached (actionFinish), growing the output buffer on demand.
func (c *Compressor) run(in []byte, act action) ([]byte, error) {
	buf := newBlocksBuffer(-1)
	block := buf.first()
	pos := 0
	for {
		consumed, produced, end, err := c.session.push(in, block[pos:], act)
		if err != nil {
			buf.discard()
			return nil, err
		}
		in = in[consumed:]
		pos += produced

		if end {
			return buf.finish(len(block) - pos), nil
		}
		if pos == len(block) {
			next, gerr := buf.grow(0)
			if gerr != nil {
				buf.discard()
				return nil, gerr
			}
			block, pos = next, 0
			continue
		}
		if act == actionRun && len(in) == 0 {
			return buf.finish(len(block) - pos), nil
		}
	}
}
