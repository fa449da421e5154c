// Package bitstream packs variable-width bit fields into byte-aligned buffers and
// reads them back.
//
// All bit fields are MSB-first: the first bit written lands in the most significant
// bit of the first output byte. The final partial byte is padded with zero bits,
// so readers must know from elsewhere how many fields to consume.
package bitstream

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Packer accumulates bit fields in memory and emits them as bytes.
type Packer struct {
	buffer      *bytes.Buffer
	writer      *bitio.Writer
	bitsWritten uint64
	closed      bool
}

// NewPacker creates an empty packer. `sizeHint` is the expected output size in
// bytes and may be 0.
func NewPacker(sizeHint int) *Packer {
	buffer := bytes.NewBuffer(make([]byte, 0, sizeHint))
	return &Packer{
		buffer: buffer,
		writer: bitio.NewWriter(buffer),
	}
}

// WriteBits writes the lowest `width` bits of `value`, most significant first.
func (p *Packer) WriteBits(value uint64, width uint8) error {
	if p.closed {
		return fmt.Errorf("write to packer after Bytes() was called")
	}
	if width > 64 {
		return fmt.Errorf("bit field width %d is larger than 64", width)
	}
	if width == 0 {
		return nil
	}
	if width < 64 {
		value &= (uint64(1) << width) - 1
	}

	err := p.writer.WriteBits(value, width)
	if err != nil {
		return err
	}
	p.bitsWritten += uint64(width)
	return nil
}

// WriteCode writes every bit of `code` in order.
func (p *Packer) WriteCode(code Code) error {
	body := code.Bytes()
	remaining := code.Len()

	for _, b := range body {
		if remaining >= 8 {
			if err := p.WriteBits(uint64(b), 8); err != nil {
				return err
			}
			remaining -= 8
			continue
		}
		// Last partial byte: the code is left-justified, so shift the padding out.
		if err := p.WriteBits(uint64(b>>(8-remaining)), uint8(remaining)); err != nil {
			return err
		}
	}
	return nil
}

// BitsWritten returns the number of bits written so far, not counting padding.
func (p *Packer) BitsWritten() uint64 {
	return p.bitsWritten
}

// Bytes flushes any partial byte, padding it with zero bits, and returns the packed
// output. The packer cannot be written to afterwards; calling Bytes again returns
// the same data.
func (p *Packer) Bytes() ([]byte, error) {
	if !p.closed {
		if err := p.writer.Close(); err != nil {
			return nil, err
		}
		p.closed = true
	}
	return p.buffer.Bytes(), nil
}
