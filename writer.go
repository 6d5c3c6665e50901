package lzmamt

import "io"

// Writer compresses data written to it and forwards the compressed stream to
// an underlying io.Writer. Close must be called to emit the container's
// trailing structures; data written before Close may not have reached the
// sink yet because the codec buffers internally.
//
// Writer is not safe for concurrent use.
type Writer struct {
	dst    io.Writer
	c      *Compressor
	closed bool
}

// NewWriter creates a Writer encoding to dst. Passing nil options selects
// the reference defaults (.xz, CRC64, default preset, single thread).
func NewWriter(dst io.Writer, opts *CompressorOptions) (*Writer, error) {
	c, err := NewCompressor(opts)
	if err != nil {
		return nil, err
	}
	return &Writer{dst: dst, c: c}, nil
}

// Write implements io.Writer. The returned count is the number of
// uncompressed bytes accepted, always len(p) on success.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, &UsageError{Msg: "writer is closed"}
	}
	out, err := w.c.Compress(p)
	if err != nil {
		return 0, err
	}
	if len(out) > 0 {
		if _, err := w.dst.Write(out); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close flushes the stream's trailing structures to the sink and releases
// the encoder. It does not close the underlying writer. Safe to call more
// than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	out, err := w.c.Flush()
	if err != nil {
		w.c.Close()
		return err
	}
	var werr error
	if len(out) > 0 {
		_, werr = w.dst.Write(out)
	}
	w.c.Close()
	return werr
}
