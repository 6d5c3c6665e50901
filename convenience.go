package lzmamt

// Compress compresses data in one shot and returns the complete container.
// Passing nil options selects the reference defaults (.xz, CRC64, default
// preset, single thread).
func Compress(data []byte, opts *CompressorOptions) ([]byte, error) {
	c, err := NewCompressor(opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	tail, err := c.Flush()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return tail, nil
	}
	return append(body, tail...), nil
}

// Decompress decompresses data in one shot. Multiple compressed streams
// placed back-to-back are all decoded and their outputs concatenated. Bytes
// after the last stream that do not form another stream are ignored once at
// least one stream has decoded successfully; a decode failure on the first
// stream is fatal. Input that ends before the end-of-stream marker fails
// with a TruncatedError.
func Decompress(data []byte, opts *DecompressorOptions) ([]byte, error) {
	var results [][]byte
	var total int
	for {
		d, err := NewDecompressor(opts)
		if err != nil {
			return nil, err
		}
		out, derr := d.Decompress(data, -1)
		if derr != nil {
			d.Close()
			if len(results) > 0 {
				// Trailing garbage after a fully decoded stream.
				break
			}
			return nil, derr
		}
		if !d.Eof() {
			d.Close()
			return nil, &TruncatedError{&LZMAError{Op: "decompress",
				Message: "compressed data ended before the end-of-stream marker was reached"}}
		}
		results = append(results, out)
		total += len(out)
		data = d.UnusedData()
		d.Close()
		if len(data) == 0 {
			break
		}
	}

	if len(results) == 1 {
		return results[0], nil
	}
	joined := make([]byte, 0, total)
	for _, r := range results {
		joined = append(joined, r...)
	}
	return joined, nil
}
