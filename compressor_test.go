package lzmamt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressorChunkInvariance(t *testing.T) {
	data := testPayload(200 * 1024)
	oneShot, err := Compress(data, &CompressorOptions{Format: FormatXZ, Check: CheckCRC64, Threads: 1})
	require.NoError(t, err)

	chunkSizes := []int{1, 7, 100, 4096, 64 * 1024}
	for _, size := range chunkSizes {
		c, err := NewCompressor(&CompressorOptions{Format: FormatXZ, Check: CheckCRC64, Threads: 1})
		require.NoError(t, err)

		var streamed []byte
		for off := 0; off < len(data); off += size {
			end := off + size
			if end > len(data) {
				end = len(data)
			}
			out, err := c.Compress(data[off:end])
			require.NoError(t, err)
			streamed = append(streamed, out...)
		}
		tail, err := c.Flush()
		require.NoError(t, err)
		streamed = append(streamed, tail...)
		require.NoError(t, c.Close())

		require.True(t, bytes.Equal(oneShot, streamed),
			"chunked output differs from one-shot for chunk size %d", size)
	}
}

func TestCompressorFlushTerminality(t *testing.T) {
	c, err := NewCompressor(nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Compress([]byte("payload"))
	require.NoError(t, err)
	_, err = c.Flush()
	require.NoError(t, err)

	_, err = c.Flush()
	require.True(t, IsUsageError(err), "second flush must fail with a usage error, got %v", err)

	_, err = c.Compress([]byte("more"))
	require.True(t, IsUsageError(err), "compress after flush must fail with a usage error, got %v", err)
}

func TestCompressorEmptyChunk(t *testing.T) {
	c, err := NewCompressor(nil)
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Compress(nil)
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = c.Compress([]byte{})
	require.NoError(t, err)
	require.Empty(t, out)

	// The stream must still be valid afterwards.
	_, err = c.Compress([]byte("data"))
	require.NoError(t, err)
	_, err = c.Flush()
	require.NoError(t, err)
}

func TestCompressorClosed(t *testing.T) {
	c, err := NewCompressor(nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close must be idempotent")

	_, err = c.Compress([]byte("data"))
	require.True(t, IsUsageError(err))
	_, err = c.Flush()
	require.True(t, IsUsageError(err))
}

func TestCompressorInvalidOptions(t *testing.T) {
	cases := []struct {
		name string
		opts *CompressorOptions
	}{
		{"auto-format", &CompressorOptions{Format: FormatAuto}},
		{"alone-with-check", &CompressorOptions{Format: FormatAlone, Check: CheckCRC64}},
		{"raw-without-filters", &CompressorOptions{Format: FormatRaw}},
		{"raw-with-check", &CompressorOptions{Format: FormatRaw, Check: CheckCRC32,
			Filters: []Filter{LZMAFilter{ID: FilterLZMA2}}}},
		{"bad-preset", &CompressorOptions{Format: FormatXZ, Preset: 99}},
		{"alone-with-lzma2", &CompressorOptions{Format: FormatAlone,
			Filters: []Filter{LZMAFilter{ID: FilterLZMA2}}}},
		{"too-many-filters", &CompressorOptions{Format: FormatRaw, Filters: []Filter{
			DeltaFilter{Dist: 1}, DeltaFilter{Dist: 2}, DeltaFilter{Dist: 3},
			DeltaFilter{Dist: 4}, LZMAFilter{ID: FilterLZMA2}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCompressor(tc.opts)
			require.Error(t, err)
			require.True(t, IsOptionsError(err), "want an options error, got %v", err)
		})
	}

	_, err := NewCompressor(&CompressorOptions{Format: FormatXZ, Threads: -1})
	require.True(t, IsUsageError(err))
}

func TestCompressorPresetExtreme(t *testing.T) {
	data := testPayload(64 * 1024)
	compressed, err := Compress(data, &CompressorOptions{
		Format: FormatXZ,
		Preset: 1 | PresetExtreme,
	})
	require.NoError(t, err)

	out, err := Decompress(compressed, nil)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, out))
}
