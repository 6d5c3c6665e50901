package lzmamt

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	data := testPayload(300 * 1024)

	var sink bytes.Buffer
	w, err := NewWriter(&sink, nil)
	require.NoError(t, err)
	for off := 0; off < len(data); off += 4096 {
		end := off + 4096
		if end > len(data) {
			end = len(data)
		}
		n, werr := w.Write(data[off:end])
		require.NoError(t, werr)
		require.Equal(t, end-off, n)
	}
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(sink.Bytes()), nil)
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, out))
}

func TestReaderSmallReadBuffer(t *testing.T) {
	data := testPayload(10 * 1024)
	compressed := mustCompress(t, data, nil)

	r, err := NewReader(bytes.NewReader(compressed), nil)
	require.NoError(t, err)
	defer r.Close()

	var out []byte
	p := make([]byte, 17)
	for {
		n, rerr := r.Read(p)
		out = append(out, p[:n]...)
		if rerr == io.EOF {
			break
		}
		require.NoError(t, rerr)
	}
	require.True(t, bytes.Equal(data, out))
}

func TestReaderConcatenatedStreams(t *testing.T) {
	a := testPayload(20 * 1024)
	b := testNoise(8 * 1024)
	combined := append(mustCompress(t, a, nil), mustCompress(t, b, nil)...)

	r, err := NewReader(bytes.NewReader(combined), nil)
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, bytes.Equal(append(append([]byte(nil), a...), b...), out))
}

func TestReaderTrailingGarbage(t *testing.T) {
	data := testPayload(6 * 1024)
	combined := append(mustCompress(t, data, nil), []byte("not another stream")...)

	r, err := NewReader(bytes.NewReader(combined), nil)
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err, "trailing garbage must end the read, not fail it")
	require.True(t, bytes.Equal(data, out))
}

func TestReaderTruncatedInput(t *testing.T) {
	compressed := mustCompress(t, testPayload(40*1024), nil)

	r, err := NewReader(bytes.NewReader(compressed[:len(compressed)-10]), nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = io.ReadAll(r)
	require.Error(t, err)
	require.True(t, IsTruncatedError(err), "want a truncated error, got %v", err)
}

func TestReaderOneByteSource(t *testing.T) {
	// Sources that dole out one byte per Read exercise the refill path hard.
	data := testPayload(4 * 1024)
	compressed := mustCompress(t, data, nil)

	r, err := NewReader(iotest(compressed), nil)
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, out))
}

// iotest wraps a byte slice in a reader that returns one byte at a time.
func iotest(b []byte) io.Reader { return &oneByteReader{rest: b} }

type oneByteReader struct{ rest []byte }

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		return 0, io.EOF
	}
	p[0] = r.rest[0]
	r.rest = r.rest[1:]
	return 1, nil
}

func TestWriterClosed(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewWriter(&sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close must be idempotent")

	_, err = w.Write([]byte("data"))
	require.True(t, IsUsageError(err))
}

func TestWriterEmptyStream(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewWriter(&sink, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NotZero(t, sink.Len(), "even an empty stream has container framing")

	out, err := Decompress(sink.Bytes(), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestReaderClosed(t *testing.T) {
	r, err := NewReader(bytes.NewReader(mustCompress(t, []byte("x"), nil)), nil)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Read(make([]byte, 8))
	require.True(t, IsUsageError(err))
}
