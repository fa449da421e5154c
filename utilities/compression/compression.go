package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dargueta/bitpress"
	"github.com/dargueta/bitpress/report"
	"github.com/dargueta/bitpress/utilities/compression/huffman"
	"github.com/dargueta/bitpress/utilities/compression/lz78"
	"github.com/dargueta/bitpress/utilities/container"
)

// Codecs returns one instance of every codec, all reporting to `observer`. The
// observer may be nil.
func Codecs(observer bitpress.ProgressObserver) []bitpress.Codec {
	return []bitpress.Codec{
		huffman.Codec{Observer: observer},
		lz78.Codec{Observer: observer},
	}
}

// CodecByName returns the codec whose Name() is `name`.
func CodecByName(name string, observer bitpress.ProgressObserver) (bitpress.Codec, error) {
	for _, codec := range Codecs(observer) {
		if codec.Name() == name {
			return codec, nil
		}
	}
	return nil, bitpress.ErrUnknownOperation.WithMessage(fmt.Sprintf("no codec named %q", name))
}

// CodecForFile picks a codec by the extension of `path`.
func CodecForFile(path string, observer bitpress.ProgressObserver) (bitpress.Codec, error) {
	extension := filepath.Ext(path)
	for _, codec := range Codecs(observer) {
		if codec.Extension() == extension {
			return codec, nil
		}
	}
	return nil, bitpress.ErrUnsupportedContainerFormat.WithMessage(
		fmt.Sprintf("no codec handles %q files", extension))
}

// ReadInput reads the whole file at `path`. A missing file fails with
// [bitpress.ErrInputNotFound].
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, bitpress.ErrInputNotFound.Wrap(err)
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}

// CompressFile compresses the file at `path` and writes the container next to it,
// named after the original file plus the codec's extension. It returns the path of
// the container and its size.
func CompressFile(codec bitpress.Codec, path string) (string, int64, error) {
	data, err := ReadInput(path)
	if err != nil {
		return "", 0, err
	}

	packed := bytes.Buffer{}
	_, err = codec.Compress(filepath.Base(path), data, &packed)
	if err != nil {
		return "", 0, err
	}

	outputPath := path + codec.Extension()
	err = os.WriteFile(outputPath, packed.Bytes(), 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write %q: %w", outputPath, err)
	}
	return outputPath, int64(packed.Len()), nil
}

// DecompressFile restores the file stored in the container at `path`. The output
// goes to `outputDir` under the filename recorded in the container; an empty
// `outputDir` means the directory holding the container. An existing file with
// that name is overwritten.
func DecompressFile(codec bitpress.Codec, path, outputDir string) (string, int64, error) {
	err := container.CheckExtension(path, codec.Extension())
	if err != nil {
		return "", 0, err
	}

	packed, err := ReadInput(path)
	if err != nil {
		return "", 0, err
	}

	filename, data, err := codec.Decompress(bytes.NewReader(packed))
	if err != nil {
		return "", 0, err
	}

	// The stored name must not be able to escape the output directory.
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", 0, bitpress.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("stored filename %q is not a plain file name", filename))
	}

	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	outputPath := filepath.Join(outputDir, filename)
	err = os.WriteFile(outputPath, data, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write %q: %w", outputPath, err)
	}
	return outputPath, int64(len(data)), nil
}

// Evaluate compresses `path` with `codec`, writes the container next to it, and
// checks that the container decodes to the original bytes. The original file is
// left untouched.
func Evaluate(codec bitpress.Codec, path string) (report.Evaluation, error) {
	data, err := ReadInput(path)
	if err != nil {
		return report.Evaluation{}, err
	}

	evaluation, packed, err := evaluate(codec, filepath.Base(path), data)
	if err != nil {
		return report.Evaluation{}, err
	}
	evaluation.Path = path

	containerPath := path + codec.Extension()
	err = os.WriteFile(containerPath, packed, 0o644)
	if err != nil {
		return report.Evaluation{}, fmt.Errorf("failed to write %q: %w", containerPath, err)
	}
	return evaluation, nil
}

// EvaluateBytes is like [Evaluate] but works entirely in memory.
func EvaluateBytes(codec bitpress.Codec, name string, data []byte) (report.Evaluation, error) {
	evaluation, _, err := evaluate(codec, name, data)
	return evaluation, err
}

func evaluate(codec bitpress.Codec, name string, data []byte) (report.Evaluation, []byte, error) {
	packed := bytes.Buffer{}
	encodeStart := time.Now()
	packedSize, err := codec.Compress(name, data, &packed)
	encodeTime := time.Since(encodeStart)
	if err != nil {
		return report.Evaluation{}, nil, err
	}

	decodeStart := time.Now()
	_, decoded, err := codec.Decompress(bytes.NewReader(packed.Bytes()))
	decodeTime := time.Since(decodeStart)
	if err != nil {
		return report.Evaluation{}, nil, err
	}
	if !bytes.Equal(data, decoded) {
		return report.Evaluation{}, nil, fmt.Errorf(
			"%s round trip of %q produced different bytes", codec.Name(), name)
	}

	evaluation := report.NewEvaluation(
		codec.Name(), name, int64(len(data)), packedSize, encodeTime, decodeTime,
	)
	return evaluation, packed.Bytes(), nil
}
