// Package testing provides helpers shared by the codec test suites.
package testing

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/bitpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomBuffer returns `size` random bytes. It is guaranteed to either return
// a valid slice or fail the test and abort.
func CreateRandomBuffer(t *testing.T, size int) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// AllByteValues returns the 256 byte values in ascending order, each once.
func AllByteValues() []byte {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

// NamedBuffer is a labeled input for table-driven codec tests.
type NamedBuffer struct {
	Name string
	Data []byte
}

// StandardInputs returns the inputs every codec must round-trip exactly: edge cases
// around the number of distinct symbols, lengths whose big-endian encoding contains
// zero bytes, and random data.
func StandardInputs(t *testing.T) []NamedBuffer {
	return []NamedBuffer{
		{"single byte", []byte{'q'}},
		{"single null", []byte{0}},
		{"repeated byte", bytes.Repeat([]byte{100}, 9174)},
		{"all byte values", AllByteValues()},
		{"all byte values twice", append(AllByteValues(), AllByteValues()...)},
		{"text", []byte("It was the best of times, it was the worst of times.")},
		{"ABABABAB", []byte("ABABABAB")},
		{"length 256", bytes.Repeat([]byte("xy"), 128)},
		{"length 65536", CreateRandomBuffer(t, 65536)},
		{"random", CreateRandomBuffer(t, 119)},
		{"skewed", append(bytes.Repeat([]byte{0}, 5000), CreateRandomBuffer(t, 300)...)},
	}
}

// ContainerStream returns a seekable in-memory stream over a copy of `packed`,
// positioned at the start.
func ContainerStream(packed []byte) io.ReadWriteSeeker {
	buffer := make([]byte, len(packed))
	copy(buffer, packed)
	return bytesextra.NewReadWriteSeeker(buffer)
}

// RoundTrip compresses `data` with `codec`, decompresses the result, and checks
// that the filename and bytes survive. It returns the container.
func RoundTrip(t *testing.T, codec bitpress.Codec, name string, data []byte) []byte {
	packed := bytes.Buffer{}
	n, err := codec.Compress(name, data, &packed)
	require.NoError(t, err, "unexpected error while compressing")
	require.EqualValues(t, packed.Len(), n, "compressed size reported wrong")
	t.Logf("%s: compressed %d -> %d", codec.Name(), len(data), n)

	stream := ContainerStream(packed.Bytes())
	decodedName, decoded, err := codec.Decompress(stream)
	require.NoError(t, err, "unexpected error while decompressing")

	assert.Equal(t, name, decodedName, "filename didn't survive")
	require.Equal(t, len(data), len(decoded), "decompressed data length is wrong")
	assert.True(t, bytes.Equal(data, decoded), "decompressed data is wrong")
	return packed.Bytes()
}
