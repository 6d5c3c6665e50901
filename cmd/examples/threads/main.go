package main

import (
	"bytes"
	"fmt"
	"log"
	"time"

	lzmamt "github.com/isarandi/lzma-mt"
)

func main() {
	// Multi-threaded compression shines on large inputs: the encoder splits
	// the data into blocks and compresses them in parallel.
	data := bytes.Repeat([]byte("Multi-threaded xz compression demo payload. "), 200000)
	fmt.Printf("Original size: %d bytes\n", len(data))
	fmt.Printf("liblzma version: %s\n", lzmamt.CodecVersion())
	fmt.Printf("Multi-threaded decoding safe: %v (CVE-2025-31115)\n\n", lzmamt.IsConcurrentDecodeSafe())

	for _, threads := range []int{1, 0} {
		label := fmt.Sprintf("%d", threads)
		if threads == 0 {
			label = "auto"
		}

		start := time.Now()
		compressed, err := lzmamt.Compress(data, &lzmamt.CompressorOptions{
			Format:  lzmamt.FormatXZ,
			Threads: threads,
		})
		if err != nil {
			log.Fatalf("Compression with threads=%s failed: %v", label, err)
		}
		elapsed := time.Since(start)

		fmt.Printf("threads=%-4s %10d bytes in %v\n", label, len(compressed), elapsed)

		// Decode requests for multiple threads silently fall back to one
		// thread on liblzma versions affected by CVE-2025-31115.
		out, err := lzmamt.Decompress(compressed, &lzmamt.DecompressorOptions{
			Format:  lzmamt.FormatXZ,
			Threads: 0,
		})
		if err != nil {
			log.Fatalf("Decompression failed: %v", err)
		}
		if !bytes.Equal(out, data) {
			log.Fatal("Round trip mismatch")
		}
	}

	fmt.Println("\n✓ Success: all round trips match")
}
