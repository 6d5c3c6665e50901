package lzmamt

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// testPayload builds deterministic, mildly compressible data.
func testPayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, n)
	for i := range data {
		// Long runs with occasional noise compress well without being trivial.
		if rng.Intn(16) == 0 {
			data[i] = byte(rng.Intn(256))
		} else {
			data[i] = byte('a' + i%17)
		}
	}
	return data
}

// testNoise builds deterministic, incompressible data.
func testNoise(n int) []byte {
	rng := rand.New(rand.NewSource(1337))
	data := make([]byte, n)
	rng.Read(data)
	return data
}

func TestRoundTripThreadMatrix(t *testing.T) {
	data := testPayload(256 * 1024)
	threadCounts := []int{1, 0, 4}

	for _, ct := range threadCounts {
		for _, dt := range threadCounts {
			compressed, err := Compress(data, &CompressorOptions{
				Format:  FormatXZ,
				Check:   CheckCRC64,
				Preset:  PresetDefault,
				Threads: ct,
			})
			require.NoError(t, err, "compress with threads=%d", ct)

			out, err := Decompress(compressed, &DecompressorOptions{
				Format:  FormatXZ,
				Threads: dt,
			})
			require.NoError(t, err, "decompress with threads=%d", dt)
			require.True(t, bytes.Equal(data, out),
				"round trip mismatch for threads %d/%d", ct, dt)
		}
	}
}

func TestRoundTripBlockBoundaries(t *testing.T) {
	// Decompressed sizes landing exactly at the output buffer's cumulative
	// block boundaries: 32KB, 32KB+64KB, 32KB+64KB+256KB.
	boundaries := []int{32 * 1024, 96 * 1024, 352 * 1024}
	sizes := []int{0, 1, 2}
	for _, b := range boundaries {
		sizes = append(sizes, b-1, b, b+1)
	}

	for _, n := range sizes {
		data := testNoise(n)
		compressed, err := Compress(data, nil)
		if err != nil {
			t.Fatalf("unexpected error compressing %d bytes: %s", n, err)
		}
		out, err := Decompress(compressed, nil)
		if err != nil {
			t.Fatalf("unexpected error decompressing %d bytes: %s", n, err)
		}
		if len(out) != n {
			t.Fatalf("size mismatch for input size %d: got %d", n, len(out))
		}
		if !bytes.Equal(data, out) {
			t.Fatalf("content mismatch for input size %d", n)
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	compressed, err := Compress(nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, compressed, "even an empty stream has container framing")

	out, err := Decompress(compressed, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestIsCheckSupported(t *testing.T) {
	if !IsCheckSupported(CheckNone) {
		t.Fatal("CheckNone must always be supported")
	}
	if !IsCheckSupported(CheckCRC32) {
		t.Fatal("CheckCRC32 must always be supported")
	}
	if IsCheckSupported(Check(-1)) || IsCheckSupported(CheckUnknown) {
		t.Fatal("out-of-range check IDs must not be supported")
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("hello"))
	f.Add(testPayload(4096))
	f.Fuzz(func(t *testing.T, data []byte) {
		compressed, err := Compress(data, nil)
		if err != nil {
			t.Fatalf("compress failed: %s", err)
		}
		out, err := Decompress(compressed, nil)
		if err != nil {
			t.Fatalf("decompress failed: %s", err)
		}
		if !bytes.Equal(data, out) {
			t.Fatalf("round trip mismatch: %d bytes in, %d bytes out", len(data), len(out))
		}
	})
}
