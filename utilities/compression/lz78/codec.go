// Package lz78 implements an LZ78 dictionary coder with its own container format.
//
// A container (`.lzp`) is laid out as follows:
//
//	filename 0x00
//	original size   (length-prefixed big-endian integer)
//	index width W   (length-prefixed big-endian integer)
//	payload         (packed tokens, zero-padded to a byte boundary)
//
// Each token is W bits of prefix index followed by 8 bits of literal. The
// dictionary itself is never stored: the decoder rebuilds it in lock step with
// the encoder.
package lz78

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/dargueta/bitpress"
	bs "github.com/dargueta/bitpress/utilities/bitstream"
	"github.com/dargueta/bitpress/utilities/compression/stats"
	"github.com/dargueta/bitpress/utilities/container"
)

// Codec implements [bitpress.Codec] for LZ78 containers. The zero value is ready
// to use.
type Codec struct {
	// Observer is optional. If set, it's notified while segmenting and decoding.
	Observer bitpress.ProgressObserver
}

func (c Codec) Name() string {
	return "lz78"
}

func (c Codec) Extension() string {
	return bitpress.LZ78Extension
}

// Compress implements [bitpress.Codec].
func (c Codec) Compress(filename string, data []byte, output io.Writer) (int64, error) {
	segmentation, err := Segment(data, c.Observer)
	if err != nil {
		return 0, err
	}

	payload, err := EncodeTokens(segmentation.Tokens, segmentation.IndexWidth)
	if err != nil {
		return 0, err
	}

	writer := container.NewWriter(output)
	err = writer.WriteString(filename)
	if err != nil {
		return writer.BytesWritten(), err
	}
	err = writer.WriteUint(uint64(len(data)))
	if err != nil {
		return writer.BytesWritten(), err
	}
	err = writer.WriteUint(uint64(segmentation.IndexWidth))
	if err != nil {
		return writer.BytesWritten(), err
	}
	err = writer.WriteRaw(payload)
	return writer.BytesWritten(), err
}

// EncodeTokens packs every token as `width` bits of prefix and 8 bits of literal.
func EncodeTokens(tokens []Token, width uint8) ([]byte, error) {
	packer := bs.NewPacker(len(tokens) * (int(width) + 8) / 8)
	for i, token := range tokens {
		if width < 64 && token.Prefix >= uint64(1)<<width {
			return nil, bitpress.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"token %d has prefix %d, which doesn't fit in %d bits",
					i,
					token.Prefix,
					width,
				),
			)
		}

		err := packer.WriteBits(token.Prefix, width)
		if err != nil {
			return nil, err
		}
		err = packer.WriteBits(uint64(token.Literal), 8)
		if err != nil {
			return nil, err
		}
	}
	return packer.Bytes()
}

// Decompress implements [bitpress.Codec].
func (c Codec) Decompress(input io.Reader) (string, []byte, error) {
	reader := container.NewReader(input)

	filename, err := reader.ReadString("filename")
	if err != nil {
		return "", nil, err
	}
	size, err := reader.ReadUint("original size")
	if err != nil {
		return "", nil, err
	}
	width, err := reader.ReadUint("index width")
	if err != nil {
		return "", nil, err
	}
	if width > 64 {
		return "", nil, bitpress.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("index width %d is larger than 64 bits", width))
	}
	payload, err := reader.ReadRemaining()
	if err != nil {
		return "", nil, err
	}

	data, err := c.DecodeTokens(payload, uint8(width), size)
	if err != nil {
		return "", nil, err
	}
	return filename, data, nil
}

type span struct {
	start  int
	length int
}

// DecodeTokens rebuilds `size` bytes from a packed token stream.
//
// Every decoded segment is registered as a new dictionary entry, except the one
// that completes the output: the encoder never registered that one either.
func (c Codec) DecodeTokens(payload []byte, width uint8, size uint64) ([]byte, error) {
	// Token k can produce at most k bytes, so n tokens can't describe more than
	// n(n+1)/2 bytes of output. When n(n+1)/2 doesn't fit in 64 bits, every size
	// passes.
	maxTokens := uint64(len(payload)) * 8 / (uint64(width) + 8)
	hi, lo := bits.Mul64(maxTokens, maxTokens+1)
	if hi < 2 && size > hi<<63|lo>>1 {
		return nil, bitpress.ErrCorruptHeader.WithMessage(
			fmt.Sprintf(
				"declared size %d is larger than a %d-byte payload can hold",
				size,
				len(payload),
			),
		)
	}

	ticker := bitpress.NewProgressTicker(c.Observer, bitpress.StageDecoding, int64(size))
	reader := bs.NewReader(payload)
	// The bound above is loose, so the declared size only caps the initial
	// capacity. The buffer grows as segments are actually decoded.
	capacity := uint64(len(payload)) * 8
	if size < capacity {
		capacity = size
	}
	output := make([]byte, 0, capacity)
	// Entries are stored as slices of the output buffer they were decoded into.
	entries := make([]span, 0, maxTokens)

	for uint64(len(output)) < size {
		prefix, err := reader.ReadBits(width)
		if err != nil {
			return nil, fmt.Errorf("decoded %d of %d bytes: %w", len(output), size, err)
		}
		literal, err := reader.ReadBits(8)
		if err != nil {
			return nil, fmt.Errorf("decoded %d of %d bytes: %w", len(output), size, err)
		}

		start := len(output)
		if prefix != 0 {
			if prefix > uint64(len(entries)) {
				return nil, bitpress.ErrCorruptHeader.WithMessage(
					fmt.Sprintf(
						"token refers to entry %d but the dictionary has only %d",
						prefix,
						len(entries),
					),
				)
			}
			entry := entries[prefix-1]
			output = append(output, output[entry.start:entry.start+entry.length]...)
		}
		output = append(output, byte(literal))

		if uint64(len(output)) > size {
			return nil, bitpress.ErrCorruptHeader.WithMessage(
				fmt.Sprintf("last segment overruns the declared size %d", size))
		}
		if uint64(len(output)) < size {
			entries = append(entries, span{start: start, length: len(output) - start})
		}
		ticker.Tick(int64(len(output)))
	}
	return output, nil
}

// Analyze implements [bitpress.Codec]. AverageLength is the payload size in bits
// divided by the input length.
func (c Codec) Analyze(data []byte) (bitpress.Analysis, error) {
	frequencies, err := stats.Compute(data)
	if err != nil {
		return bitpress.Analysis{}, err
	}
	segmentation, err := Segment(data, nil)
	if err != nil {
		return bitpress.Analysis{}, err
	}

	payloadBits := float64(len(segmentation.Tokens)) * float64(int(segmentation.IndexWidth)+8)
	return bitpress.Analysis{
		InputSize:     int64(len(data)),
		AverageLength: payloadBits / float64(len(data)),
		Entropy:       frequencies.Entropy(),
		Histogram:     frequencies.Histogram(),
	}, nil
}
