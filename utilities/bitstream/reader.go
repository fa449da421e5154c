package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/bitpress"
	"github.com/icza/bitio"
)

// Reader reads MSB-first bit fields from a byte slice.
type Reader struct {
	reader   *bitio.Reader
	size     int
	bitsRead uint64
}

func NewReader(data []byte) *Reader {
	return &Reader{
		reader: bitio.NewReader(bytes.NewReader(data)),
		size:   len(data),
	}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	bit, err := r.reader.ReadBool()
	if err != nil {
		return false, r.exhausted(1, err)
	}
	r.bitsRead++
	return bit, nil
}

// ReadBits reads a `width`-bit unsigned integer. A width of 0 reads nothing and
// returns 0.
func (r *Reader) ReadBits(width uint8) (uint64, error) {
	if width > 64 {
		return 0, fmt.Errorf("bit field width %d is larger than 64", width)
	}
	if width == 0 {
		return 0, nil
	}

	value, err := r.reader.ReadBits(width)
	if err != nil {
		return 0, r.exhausted(width, err)
	}
	r.bitsRead += uint64(width)
	return value, nil
}

// Position returns the index of the byte holding the next unread bit, and the
// offset of that bit within the byte counting from the most significant bit.
func (r *Reader) Position() (byteIndex int, bitIndex int) {
	return int(r.bitsRead / 8), int(r.bitsRead % 8)
}

// RemainingBits returns the number of unread bits, including padding.
func (r *Reader) RemainingBits() uint64 {
	return uint64(r.size)*8 - r.bitsRead
}

func (r *Reader) exhausted(width uint8, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		byteIndex, bitIndex := r.Position()
		return bitpress.ErrCorruptHeader.Wrap(io.ErrUnexpectedEOF).WithMessage(
			fmt.Sprintf(
				"need %d more bit(s) at byte %d bit %d of a %d-byte payload",
				width,
				byteIndex,
				bitIndex,
				r.size,
			),
		)
	}
	return err
}
