package lzmamt

import "io"

// readBufferSize is how much compressed input is pulled from the source per
// refill.
const readBufferSize = 8192

// Reader decompresses data read from an underlying io.Reader. Inputs made of
// several back-to-back compressed streams are read through transparently;
// trailing bytes that do not form another stream end the read with io.EOF,
// matching the one-shot Decompress tolerance.
//
// Reader is not safe for concurrent use.
type Reader struct {
	src    io.Reader
	opts   *DecompressorOptions
	d      *Decompressor
	inbuf  []byte
	eof    bool
	err    error
	closed bool
}

// NewReader creates a Reader decoding from src. Passing nil options selects
// the reference defaults (container auto-detection, no memory limit, single
// thread).
func NewReader(src io.Reader, opts *DecompressorOptions) (*Reader, error) {
	opts = opts.withDefaults()
	d, err := NewDecompressor(opts)
	if err != nil {
		return nil, err
	}
	return &Reader{
		src:   src,
		opts:  opts,
		d:     d,
		inbuf: make([]byte, readBufferSize),
	}, nil
}

// Read implements io.Reader, returning decompressed bytes.
func (z *Reader) Read(p []byte) (int, error) {
	if z.closed {
		return 0, &UsageError{Msg: "reader is closed"}
	}
	if z.err != nil {
		return 0, z.err
	}
	if z.eof {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	for {
		var data []byte
		if z.d.Eof() {
			// Previous stream finished; look for another one after it.
			raw := z.d.UnusedData()
			if len(raw) == 0 {
				var rerr error
				raw, rerr = z.fill()
				if rerr != nil {
					z.err = rerr
					return 0, rerr
				}
				if len(raw) == 0 {
					z.eof = true
					return 0, io.EOF
				}
			}
			z.d.Close()
			next, err := NewDecompressor(z.opts)
			if err != nil {
				z.err = err
				return 0, err
			}
			z.d = next
			out, derr := next.Decompress(raw, len(p))
			if derr != nil {
				// Trailing bytes that do not start another stream.
				z.eof = true
				return 0, io.EOF
			}
			data = out
		} else {
			var raw []byte
			if z.d.NeedsInput() {
				var rerr error
				raw, rerr = z.fill()
				if rerr != nil {
					z.err = rerr
					return 0, rerr
				}
				if len(raw) == 0 {
					z.err = &TruncatedError{&LZMAError{Op: "read",
						Message: "compressed file ended before the end-of-stream marker was reached"}}
					return 0, z.err
				}
			}
			out, derr := z.d.Decompress(raw, len(p))
			if derr != nil {
				z.err = derr
				return 0, derr
			}
			data = out
		}
		if len(data) > 0 {
			return copy(p, data), nil
		}
	}
}

// fill reads the next chunk of compressed input. A nil result with nil error
// means the source is exhausted.
func (z *Reader) fill() ([]byte, error) {
	for {
		n, err := z.src.Read(z.inbuf)
		if n > 0 {
			return z.inbuf[:n], nil
		}
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Close releases the decoder. It does not close the underlying reader.
func (z *Reader) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	return z.d.Close()
}
