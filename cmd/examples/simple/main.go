package main

import (
	"bytes"
	"fmt"
	"log"

	lzmamt "github.com/isarandi/lzma-mt"
)

func main() {
	// Sample data to compress
	data := []byte("Hello, World! This is a simple compression example using lzma-mt.")
	fmt.Printf("Original data: %s\n", data)
	fmt.Printf("Original size: %d bytes\n\n", len(data))

	// Compress with the reference defaults (.xz, CRC64, preset 6)
	compressed, err := lzmamt.Compress(data, nil)
	if err != nil {
		log.Fatalf("Compression failed: %v", err)
	}
	fmt.Printf("Compressed size: %d bytes\n", len(compressed))
	fmt.Printf("liblzma version: %s\n\n", lzmamt.CodecVersion())

	// Decompress, letting the container format be auto-detected
	decompressed, err := lzmamt.Decompress(compressed, nil)
	if err != nil {
		log.Fatalf("Decompression failed: %v", err)
	}

	fmt.Printf("Decompressed data: %s\n", decompressed)
	fmt.Printf("Decompressed size: %d bytes\n", len(decompressed))

	// Verify the data matches
	if bytes.Equal(decompressed, data) {
		fmt.Println("\n✓ Success: Data matches after compression/decompression")
	} else {
		fmt.Println("\n✗ Error: Data mismatch after compression/decompression")
	}
}
