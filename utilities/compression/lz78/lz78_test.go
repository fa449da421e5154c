package lz78_test

import (
	"bytes"
	"crypto/rand"
	"runtime"
	"testing"

	"github.com/dargueta/bitpress"
	"github.com/dargueta/bitpress/utilities/compression/lz78"
	"github.com/dargueta/bitpress/utilities/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment__ABABABAB(t *testing.T) {
	segmentation, err := lz78.Segment([]byte("ABABABAB"), nil)
	require.NoError(t, err)

	dictionary := segmentation.Dictionary
	require.Equal(t, 4, dictionary.Len())
	assert.Equal(t, []byte("A"), dictionary.Entry(1))
	assert.Equal(t, []byte("B"), dictionary.Entry(2))
	assert.Equal(t, []byte("AB"), dictionary.Entry(3))
	assert.Equal(t, []byte("ABA"), dictionary.Entry(4))

	expectedTokens := []lz78.Token{
		{Prefix: 0, Literal: 'A'},
		{Prefix: 0, Literal: 'B'},
		{Prefix: 1, Literal: 'B'},
		{Prefix: 3, Literal: 'A'},
		{Prefix: 0, Literal: 'B'},
	}
	assert.Equal(t, expectedTokens, segmentation.Tokens)
	assert.EqualValues(t, 2, segmentation.IndexWidth)
}

func TestDecodeTokens__ABABABAB(t *testing.T) {
	tokens := []lz78.Token{
		{Prefix: 0, Literal: 'A'},
		{Prefix: 0, Literal: 'B'},
		{Prefix: 1, Literal: 'B'},
		{Prefix: 3, Literal: 'A'},
		{Prefix: 0, Literal: 'B'},
	}
	payload, err := lz78.EncodeTokens(tokens, 2)
	require.NoError(t, err)
	// 5 tokens * 10 bits = 50 bits -> 7 bytes.
	assert.Len(t, payload, 7)

	decoded, err := lz78.Codec{}.DecodeTokens(payload, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABABABAB"), decoded)
}

func TestSegment__TrailingMultiByteLeftover(t *testing.T) {
	// A, B, AB, then "AB" again at the end is a leftover already in the dictionary.
	segmentation, err := lz78.Segment([]byte("ABABAB"), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, segmentation.Dictionary.Len())
	assert.Equal(
		t,
		lz78.Token{Prefix: 1, Literal: 'B'},
		segmentation.Tokens[len(segmentation.Tokens)-1],
		"leftover must be emitted as its own entry's token",
	)

	payload, err := lz78.EncodeTokens(segmentation.Tokens, segmentation.IndexWidth)
	require.NoError(t, err)
	decoded, err := lz78.Codec{}.DecodeTokens(payload, segmentation.IndexWidth, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABABAB"), decoded)
}

func TestSegment__Empty(t *testing.T) {
	_, err := lz78.Segment(nil, nil)
	assert.ErrorIs(t, err, bitpress.ErrEmptyInput)
}

func TestSegment__SingleByte(t *testing.T) {
	segmentation, err := lz78.Segment([]byte{0x90}, nil)
	require.NoError(t, err)
	assert.Equal(t, []lz78.Token{{Prefix: 0, Literal: 0x90}}, segmentation.Tokens)
	assert.EqualValues(t, 0, segmentation.IndexWidth)
}

func TestDictionary__Monotonic(t *testing.T) {
	data := make([]byte, 20000)
	_, err := rand.Read(data[:10000])
	require.NoError(t, err)
	copy(data[10000:], bytes.Repeat([]byte("she sells sea shells "), 500))

	segmentation, err := lz78.Segment(data, nil)
	require.NoError(t, err)

	dictionary := segmentation.Dictionary
	seen := make(map[string]uint64, dictionary.Len())
	for id := uint64(1); id <= uint64(dictionary.Len()); id++ {
		entry := dictionary.Entry(id)
		token := dictionary.Token(id)

		require.Less(t, token.Prefix, id, "entry %d refers forward", id)
		if token.Prefix == 0 {
			assert.Len(t, entry, 1, "entry %d has no prefix but isn't one byte", id)
		} else {
			parent := dictionary.Entry(token.Prefix)
			assert.Len(t, entry, len(parent)+1, "entry %d isn't one byte longer than its prefix", id)
			assert.Equal(t, parent, entry[:len(parent)])
		}
		assert.Equal(t, token.Literal, entry[len(entry)-1])

		previous, duplicate := seen[string(entry)]
		assert.False(t, duplicate, "entries %d and %d are identical", previous, id)
		seen[string(entry)] = id
	}
}

func TestIndexWidth(t *testing.T) {
	tests := []struct {
		Size     int
		Expected uint8
	}{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {65536, 16}, {65537, 17},
	}
	for _, test := range tests {
		assert.Equal(t, test.Expected, lz78.IndexWidth(test.Size), "wrong width for %d", test.Size)
	}
}

func TestEncodeTokens__PrefixTooWide(t *testing.T) {
	_, err := lz78.EncodeTokens([]lz78.Token{{Prefix: 4, Literal: 'x'}}, 2)
	assert.ErrorIs(t, err, bitpress.ErrInvalidArgument)
}

func TestDecodeTokens__Corrupt(t *testing.T) {
	tests := []struct {
		Name   string
		Tokens []lz78.Token
		Width  uint8
		Size   uint64
	}{
		{"forward reference", []lz78.Token{{Prefix: 0, Literal: 'a'}, {Prefix: 2, Literal: 'b'}}, 2, 3},
		{"overrun", []lz78.Token{{Prefix: 0, Literal: 'a'}, {Prefix: 1, Literal: 'b'}}, 1, 2},
		{"exhausted", []lz78.Token{{Prefix: 0, Literal: 'a'}, {Prefix: 0, Literal: 'b'}}, 1, 3},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				payload, err := lz78.EncodeTokens(test.Tokens, test.Width)
				require.NoError(t, err)
				_, err = lz78.Codec{}.DecodeTokens(payload, test.Width, test.Size)
				assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)
			},
		)
	}
}

func TestDecodeTokens__InflatedSizeDoesNotPreallocate(t *testing.T) {
	// 65536 zero-width tokens, each decoding to a single null byte.
	payload := make([]byte, 64*1024)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := lz78.Codec{}.DecodeTokens(payload, 0, 2_000_000_000)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)
	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Lessf(
		t, allocated, uint64(32<<20), "allocated %d bytes for a %d-byte payload",
		allocated, len(payload))
}

func TestDecodeTokens__SizeBeyondTokenCapacity(t *testing.T) {
	// 8 tokens of 8 bits can't produce more than 1+2+...+8 = 36 bytes.
	_, err := lz78.Codec{}.DecodeTokens(make([]byte, 8), 0, 37)
	assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)
}

func TestCompress__HeaderLayout(t *testing.T) {
	buffer := bytes.Buffer{}
	n, err := lz78.Codec{}.Compress("ab.txt", []byte("ABABABAB"), &buffer)
	require.NoError(t, err)
	assert.EqualValues(t, buffer.Len(), n)

	reader := container.NewReader(bytes.NewReader(buffer.Bytes()))
	name, err := reader.ReadString("filename")
	require.NoError(t, err)
	assert.Equal(t, "ab.txt", name)

	size, err := reader.ReadUint("size")
	require.NoError(t, err)
	assert.EqualValues(t, 8, size)

	width, err := reader.ReadUint("width")
	require.NoError(t, err)
	assert.EqualValues(t, 2, width)

	payload, err := reader.ReadRemaining()
	require.NoError(t, err)
	assert.Len(t, payload, 7)
}

func TestDecompress__BadWidth(t *testing.T) {
	data := []byte{'x', 0, 1, 5, 1, 65, 0xff}
	_, _, err := lz78.Codec{}.Decompress(bytes.NewReader(data))
	assert.ErrorIs(t, err, bitpress.ErrCorruptHeader)
}

func TestDecompress__Truncated(t *testing.T) {
	data := bytes.Repeat([]byte("to be or not to be, "), 100)
	buffer := bytes.Buffer{}
	_, err := lz78.Codec{}.Compress("hamlet.txt", data, &buffer)
	require.NoError(t, err)

	packed := buffer.Bytes()
	for _, cut := range []int{3, 12, len(packed) - 5} {
		_, _, err = lz78.Codec{}.Decompress(bytes.NewReader(packed[:cut]))
		assert.ErrorIs(t, err, bitpress.ErrCorruptHeader, "cut at %d", cut)
	}
}

func TestAnalyze(t *testing.T) {
	analysis, err := lz78.Codec{}.Analyze([]byte("ABABABAB"))
	require.NoError(t, err)

	// 5 tokens of 10 bits over 8 bytes.
	assert.InDelta(t, 50.0/8.0, analysis.AverageLength, 1e-12)
	assert.InDelta(t, 1.0, analysis.Entropy, 1e-12)
	assert.EqualValues(t, 7, analysis.ExpectedSize())
}
