package main

import (
	"fmt"
	"os"

	"github.com/dargueta/bitpress/utilities/compression"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(
			os.Stderr,
			"Restore a file from a .hfp or .lzp container.\nUsage: %s input-file [output-dir]\n",
			os.Args[0])
		os.Exit(1)
	}

	sourceFilePath := os.Args[1]
	outputDir := ""
	if len(os.Args) == 3 {
		outputDir = os.Args[2]
	}

	codec, err := compression.CodecForFile(sourceFilePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't unpack `%v`: %s\n", sourceFilePath, err)
		os.Exit(1)
	}

	outputPath, nWritten, err := compression.DecompressFile(codec, sourceFilePath, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding file: %s\n", err)
		os.Exit(2)
	}

	fmt.Printf("Expanded %s into %s (%d bytes).\n", sourceFilePath, outputPath, nWritten)
}
