// Package huffman implements a static Huffman coder with its own container format.
//
// A container (`.hfp`) is laid out as follows:
//
//	filename 0x00
//	original size            (length-prefixed big-endian integer)
//	256 code table entries   (one per byte value, in ascending order)
//	payload                  (packed codes, zero-padded to a byte boundary)
//
// Each code table entry is a length byte L followed by ceil(L/8) bytes holding the
// code left-justified. All 256 entries are always present, even for byte values
// that don't occur in the input. The payload carries no terminator; decoding stops
// after exactly `original size` symbols.
package huffman

import (
	"fmt"
	"io"

	"github.com/dargueta/bitpress"
	bs "github.com/dargueta/bitpress/utilities/bitstream"
	"github.com/dargueta/bitpress/utilities/compression/stats"
	"github.com/dargueta/bitpress/utilities/container"
)

// Codec implements [bitpress.Codec] for Huffman containers. The zero value is ready
// to use.
type Codec struct {
	// Observer is optional. If set, it's notified as symbols are encoded or decoded.
	Observer bitpress.ProgressObserver
}

func (c Codec) Name() string {
	return "huffman"
}

func (c Codec) Extension() string {
	return bitpress.HuffmanExtension
}

// BuildCodeTable computes the frequency table, tree and code table for `data`.
func BuildCodeTable(data []byte) (stats.FrequencyTable, CodeTable, error) {
	frequencies, err := stats.Compute(data)
	if err != nil {
		return frequencies, CodeTable{}, err
	}
	tree := BuildTree(&frequencies)
	return frequencies, GenerateCodeTable(tree), nil
}

// Compress implements [bitpress.Codec].
func (c Codec) Compress(filename string, data []byte, output io.Writer) (int64, error) {
	_, table, err := BuildCodeTable(data)
	if err != nil {
		return 0, err
	}

	payload, err := c.EncodePayload(data, &table)
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
	err = writer.WriteRaw(EncodeCodeTable(&table))
	if err != nil {
		return writer.BytesWritten(), err
	}
	err = writer.WriteRaw(payload)
	return writer.BytesWritten(), err
}

// EncodePayload packs the code for every byte of `data`.
func (c Codec) EncodePayload(data []byte, table *CodeTable) ([]byte, error) {
	ticker := bitpress.NewProgressTicker(c.Observer, bitpress.StageEncoding, int64(len(data)))
	packer := bs.NewPacker(len(data))

	for i, symbol := range data {
		err := packer.WriteCode(table.Code(symbol))
		if err != nil {
			return nil, err
		}
		ticker.Tick(int64(i + 1))
	}
	return packer.Bytes()
}

// EncodeCodeTable serializes all 256 codes in ascending byte-value order.
func EncodeCodeTable(table *CodeTable) []byte {
	output := make([]byte, 0, 256*2)
	for i := 0; i < 256; i++ {
		code := table.Code(byte(i))
		output = append(output, byte(code.Len()))
		// A zero-length code has no body.
		if code.Len() > 0 {
			output = append(output, code.Bytes()...)
		}
	}
	return output
}

// ReadCodeTable parses exactly 256 code table entries. Running out of data before
// all entries are read fails with [bitpress.ErrCorruptHeader].
func ReadCodeTable(reader *container.Reader) (CodeTable, error) {
	var codes [256]bs.Code

	for i := 0; i < 256; i++ {
		field := fmt.Sprintf("code table entry %d", i)
		length, err := reader.ReadUint8(field)
		if err != nil {
			return CodeTable{}, err
		}
		if length == 0 {
			codes[i] = bs.Code{}
			continue
		}

		body, err := reader.ReadRaw(field, (int(length)+7)/8)
		if err != nil {
			return CodeTable{}, err
		}
		codes[i], err = bs.CodeFromBytes(body, int(length))
		if err != nil {
			return CodeTable{}, bitpress.ErrCorruptHeader.Wrap(err)
		}
	}
	return NewCodeTable(codes), nil
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
	table, err := ReadCodeTable(reader)
	if err != nil {
		return "", nil, err
	}
	payload, err := reader.ReadRemaining()
	if err != nil {
		return "", nil, err
	}

	data, err := c.DecodePayload(payload, &table, size)
	if err != nil {
		return "", nil, err
	}
	return filename, data, nil
}

// DecodePayload decodes exactly `size` symbols from `payload`. Padding bits after
// the last symbol are ignored.
func (c Codec) DecodePayload(payload []byte, table *CodeTable, size uint64) ([]byte, error) {
	decoder, err := NewDecoder(table)
	if err != nil {
		return nil, err
	}

	// Every code is at least one bit long, so a payload can't hold more symbols
	// than it has bits. Checking this up front keeps a corrupt size field from
	// triggering a huge allocation.
	if size > uint64(len(payload))*8 {
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
	output := make([]byte, 0, size)

	for uint64(len(output)) < size {
		symbol, err := decoder.DecodeSymbol(reader)
		if err != nil {
			return nil, fmt.Errorf("decoded %d of %d symbols: %w", len(output), size, err)
		}
		output = append(output, symbol)
		ticker.Tick(int64(len(output)))
	}
	return output, nil
}

// Analyze implements [bitpress.Codec]. AverageLength is the expected code length
// under the input's own symbol distribution.
func (c Codec) Analyze(data []byte) (bitpress.Analysis, error) {
	frequencies, table, err := BuildCodeTable(data)
	if err != nil {
		return bitpress.Analysis{}, err
	}

	histogram := frequencies.Histogram()
	return bitpress.Analysis{
		InputSize:     int64(len(data)),
		AverageLength: table.AverageLength(histogram),
		Entropy:       frequencies.Entropy(),
		Histogram:     histogram,
	}, nil
}
