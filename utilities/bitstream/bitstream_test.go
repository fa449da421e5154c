package bitstream_test

import (
	"testing"

	"github.com/dargueta/bitpress"
	bs "github.com/dargueta/bitpress/utilities/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseCode(t *testing.T, text string) bs.Code {
	code, err := bs.ParseCode(text)
	require.NoError(t, err, "failed to parse code %q", text)
	return code
}

func TestCode__Bytes(t *testing.T) {
	tests := []struct {
		Text     string
		Expected []byte
	}{
		{"", []byte{}},
		{"1", []byte{0x80}},
		{"01", []byte{0x40}},
		{"10110", []byte{0xb0}},
		{"11111111", []byte{0xff}},
		{"000000001", []byte{0x00, 0x80}},
		{"1010101011", []byte{0xaa, 0xc0}},
	}

	for _, test := range tests {
		t.Run(
			test.Text,
			func(t *testing.T) {
				code := mustParseCode(t, test.Text)
				assert.Equal(t, len(test.Text), code.Len())
				assert.Equal(t, test.Expected, code.Bytes())
				assert.Equal(t, test.Text, code.String())
			},
		)
	}
}

func TestCode__FromBytesIgnoresPadding(t *testing.T) {
	code, err := bs.CodeFromBytes([]byte{0xaf, 0xff}, 10)
	require.NoError(t, err)
	assert.Equal(t, "1010111111", code.String())
	assert.Equal(t, []byte{0xaf, 0xc0}, code.Bytes(), "padding bits not cleared")
}

func TestCode__FromBytesTooShort(t *testing.T) {
	_, err := bs.CodeFromBytes([]byte{0xaf}, 9)
	assert.ErrorIs(t, err, bitpress.ErrInvalidArgument)
}

func TestCode__AppendDoesNotMutate(t *testing.T) {
	base := mustParseCode(t, "10")
	left := base.Append(false)
	right := base.Append(true)

	assert.Equal(t, "10", base.String())
	assert.Equal(t, "100", left.String())
	assert.Equal(t, "101", right.String())
}

func TestCode__MaximumLength(t *testing.T) {
	code := bs.Code{}
	for i := 0; i < bs.MaxCodeBits; i++ {
		code = code.Append(i%3 == 0)
	}
	assert.Equal(t, bs.MaxCodeBits, code.Len())
	assert.Len(t, code.Bytes(), 32)
	assert.Panics(t, func() { code.Append(true) })

	decoded, err := bs.CodeFromBytes(code.Bytes(), code.Len())
	require.NoError(t, err)
	assert.True(t, code.Equal(decoded))
}

func TestCode__HasPrefix(t *testing.T) {
	code := mustParseCode(t, "110100")
	assert.True(t, code.HasPrefix(bs.Code{}))
	assert.True(t, code.HasPrefix(mustParseCode(t, "1101")))
	assert.True(t, code.HasPrefix(code))
	assert.False(t, code.HasPrefix(mustParseCode(t, "111")))
	assert.False(t, code.HasPrefix(mustParseCode(t, "1101000")))
}

func TestParseCode__Invalid(t *testing.T) {
	_, err := bs.ParseCode("01x")
	assert.ErrorIs(t, err, bitpress.ErrInvalidArgument)
}

func TestPacker__PadsFinalByte(t *testing.T) {
	packer := bs.NewPacker(0)
	require.NoError(t, packer.WriteCode(mustParseCode(t, "101")))
	require.NoError(t, packer.WriteCode(mustParseCode(t, "11")))
	assert.EqualValues(t, 5, packer.BitsWritten())

	output, err := packer.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xb0}, output)
}

func TestPacker__CrossesByteBoundaries(t *testing.T) {
	packer := bs.NewPacker(4)
	require.NoError(t, packer.WriteBits(0x3, 2))
	require.NoError(t, packer.WriteBits(0x41, 8))
	require.NoError(t, packer.WriteCode(mustParseCode(t, "0000000011")))

	output, err := packer.Bytes()
	require.NoError(t, err)
	// 11 01000001 0000000011 -> 11010000 01000000 0011(0000)
	assert.Equal(t, []byte{0xd0, 0x40, 0x30}, output)
}

func TestPacker__MasksHighBits(t *testing.T) {
	packer := bs.NewPacker(0)
	require.NoError(t, packer.WriteBits(0xff, 4))
	require.NoError(t, packer.WriteBits(0x0, 4))

	output, err := packer.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xf0}, output)
}

func TestPacker__ZeroWidthAndEmpty(t *testing.T) {
	packer := bs.NewPacker(0)
	require.NoError(t, packer.WriteBits(12345, 0))
	require.NoError(t, packer.WriteCode(bs.Code{}))

	output, err := packer.Bytes()
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestPacker__WriteAfterBytes(t *testing.T) {
	packer := bs.NewPacker(0)
	_, err := packer.Bytes()
	require.NoError(t, err)
	assert.Error(t, packer.WriteBits(1, 1))
}

func TestReader__RoundTrip(t *testing.T) {
	packer := bs.NewPacker(0)
	widths := []uint8{1, 3, 7, 8, 13, 0, 33, 64, 2}
	values := []uint64{1, 5, 100, 0xa5, 4321, 0, 0x1_2345_6789, 0xfedc_ba98_7654_3210, 2}
	for i := range widths {
		require.NoError(t, packer.WriteBits(values[i], widths[i]))
	}
	output, err := packer.Bytes()
	require.NoError(t, err)

	reader := bs.NewReader(output)
	for i := range widths {
		value, err := reader.ReadBits(widths[i])
		require.NoError(t, err, "failed to read field %d", i)
		assert.Equal(t, values[i], value, "field %d is wrong", i)
	}
}

func TestReader__PositionAndBits(t *testing.T) {
	reader := bs.NewReader([]byte{0xa0, 0xff})

	expected := []bool{true, false, true, false}
	for i, want := range expected {
		bit, err := reader.ReadBit()
		require.NoError(t, err)
		assert.Equal(t, want, bit, "bit %d is wrong", i)
	}

	byteIndex, bitIndex := reader.Position()
	assert.Equal(t, 0, byteIndex)
	assert.Equal(t, 4, bitIndex)
	assert.EqualValues(t, 12, reader.RemainingBits())

	_, err := reader.ReadBits(8)
	require.NoError(t, err)
	byteIndex, bitIndex = reader.Position()
	assert.Equal(t, 1, byteIndex)
	assert.Equal(t, 4, bitIndex)
}

func TestReader__Exhausted(t *testing.T) {
	reader := bs.NewReader([]byte{0x12})
	_, err := reader.ReadBits(8)
	require.NoError(t, err)

	_, err = reader.ReadBit()
	assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)

	_, err = bs.NewReader(nil).ReadBits(3)
	assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)
}
