package bitstream

import (
	"fmt"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/bitpress"
)

// MaxCodeBits is the longest bit string a Code can hold. The limit comes from the
// single length byte used to store codes in container headers.
const MaxCodeBits = 255

const codeStorageBytes = (MaxCodeBits + 8) / 8

// Code is an immutable bit string of at most MaxCodeBits bits.
//
// Bits are kept MSB-first: bit 0 of the code is the most significant bit of the
// first storage byte. This makes the storage bytes identical to the left-justified,
// zero-padded representation written to container headers.
type Code struct {
	bits   bitmap.Bitmap
	length int
}

// physicalIndex maps a logical MSB-first bit position to go-bitmap's LSB-first
// layout.
func physicalIndex(i int) int {
	return (i &^ 7) | (7 - (i & 7))
}

// Len returns the number of bits in the code.
func (c Code) Len() int {
	return c.length
}

// Bit returns bit `i` of the code, counting from the first bit written.
func (c Code) Bit(i int) bool {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("bit index %d not in range [0, %d)", i, c.length))
	}
	return c.bits.Get(physicalIndex(i))
}

// Append returns a new code with `bit` added to the end. The receiver is not
// modified.
func (c Code) Append(bit bool) Code {
	if c.length >= MaxCodeBits {
		panic(fmt.Sprintf("code cannot be longer than %d bits", MaxCodeBits))
	}

	newBits := bitmap.New(codeStorageBytes * 8)
	if c.bits != nil {
		copy(newBits, c.bits)
	}
	newBits.Set(physicalIndex(c.length), bit)
	return Code{bits: newBits, length: c.length + 1}
}

// Bytes returns the code left-justified in ceil(Len/8) bytes, with the unused low
// bits of the last byte cleared. A zero-length code returns an empty slice.
func (c Code) Bytes() []byte {
	size := (c.length + 7) / 8
	output := make([]byte, size)
	if size > 0 {
		copy(output, c.bits.Data(false)[:size])
	}
	return output
}

// HasPrefix returns true if `prefix` is a prefix of this code. Every code is a
// prefix of itself.
func (c Code) HasPrefix(prefix Code) bool {
	if prefix.length > c.length {
		return false
	}
	for i := 0; i < prefix.length; i++ {
		if c.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// Equal returns true if both codes have the same length and bits.
func (c Code) Equal(other Code) bool {
	return c.length == other.length && c.HasPrefix(other)
}

// String renders the code as a string of '0' and '1' characters.
func (c Code) String() string {
	var builder strings.Builder
	builder.Grow(c.length)
	for i := 0; i < c.length; i++ {
		if c.Bit(i) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// CodeFromBytes is the inverse of [Code.Bytes]. It reads `length` bits from the
// start of `data`, which must hold at least ceil(length/8) bytes. Padding bits
// past the end of the code are ignored.
func CodeFromBytes(data []byte, length int) (Code, error) {
	if length < 0 || length > MaxCodeBits {
		return Code{}, bitpress.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("code length %d not in range [0, %d]", length, MaxCodeBits))
	}

	size := (length + 7) / 8
	if len(data) < size {
		return Code{}, bitpress.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("need %d bytes for a %d-bit code, got %d", size, length, len(data)))
	}

	bits := bitmap.New(codeStorageBytes * 8)
	copy(bits, data[:size])
	// Clear the padding so that Bytes() and Equal() behave.
	for i := length; i < size*8; i++ {
		bits.Set(physicalIndex(i), false)
	}
	return Code{bits: bits, length: length}, nil
}

// ParseCode converts a string of '0' and '1' characters into a Code.
func ParseCode(text string) (Code, error) {
	if len(text) > MaxCodeBits {
		return Code{}, bitpress.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("code %q is longer than %d bits", text, MaxCodeBits))
	}

	code := Code{}
	for i, char := range text {
		switch char {
		case '0':
			code = code.Append(false)
		case '1':
			code = code.Append(true)
		default:
			return Code{}, bitpress.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("invalid character %q at position %d in code %q", char, i, text))
		}
	}
	return code, nil
}
