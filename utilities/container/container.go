// Package container reads and writes the header fields shared by every container
// format in this module.
//
// A header is a sequence of fields:
//
//   - Strings are written as their bytes followed by a single 0x00 terminator, so
//     they may not contain 0x00 themselves.
//   - Unsigned integers are written as a count byte N followed by the N-byte
//     minimal big-endian representation of the value. Zero is a single 0x00 byte.
//   - Raw bytes are copied verbatim; the reader must know their length.
//
// Everything following the header is the codec payload.
package container

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dargueta/bitpress"
)

// Writer serializes header fields to an underlying stream, keeping count of the
// bytes written.
type Writer struct {
	stream       io.Writer
	bytesWritten int64
}

func NewWriter(stream io.Writer) *Writer {
	return &Writer{stream: stream}
}

// BytesWritten returns the total number of bytes written so far.
func (w *Writer) BytesWritten() int64 {
	return w.bytesWritten
}

// WriteString writes a null-terminated string field.
func (w *Writer) WriteString(value string) error {
	if bytes.IndexByte([]byte(value), 0) >= 0 {
		return bitpress.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("header string %q contains a null byte", value))
	}
	if err := w.WriteRaw([]byte(value)); err != nil {
		return err
	}
	return w.WriteRaw([]byte{0})
}

// WriteUint writes a length-prefixed, minimal-width big-endian integer field.
func (w *Writer) WriteUint(value uint64) error {
	encoded := EncodeUint(value)
	field := make([]byte, 0, len(encoded)+1)
	field = append(field, byte(len(encoded)))
	field = append(field, encoded...)
	return w.WriteRaw(field)
}

// WriteRaw writes `data` verbatim.
func (w *Writer) WriteRaw(data []byte) error {
	n, err := w.stream.Write(data)
	w.bytesWritten += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write container: %w", err)
	}
	return nil
}

// EncodeUint returns the big-endian representation of `value` using as few bytes
// as possible. Zero encodes to an empty slice.
func EncodeUint(value uint64) []byte {
	var buffer [8]byte
	i := len(buffer)
	for value != 0 {
		i--
		buffer[i] = byte(value)
		value >>= 8
	}
	return append([]byte(nil), buffer[i:]...)
}

// DecodeUint is the inverse of [EncodeUint]. At most 8 bytes are accepted.
func DecodeUint(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, bitpress.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("integer field is %d bytes, maximum is 8", len(data)))
	}

	value := uint64(0)
	for _, b := range data {
		value = (value << 8) | uint64(b)
	}
	return value, nil
}

////////////////////////////////////////////////////////////////////////////////

// Reader parses header fields from an underlying stream. Any read that runs past
// the end of the stream fails with [bitpress.ErrCorruptHeader].
type Reader struct {
	source    *bufio.Reader
	bytesRead int64
}

func NewReader(stream io.Reader) *Reader {
	return &Reader{source: bufio.NewReader(stream)}
}

// BytesRead returns the total number of bytes consumed so far.
func (r *Reader) BytesRead() int64 {
	return r.bytesRead
}

// ReadString reads a null-terminated string field. `field` names the field in
// error messages.
func (r *Reader) ReadString(field string) (string, error) {
	data, err := r.source.ReadBytes(0)
	r.bytesRead += int64(len(data))
	if err != nil {
		return "", truncated(field, err)
	}
	return string(data[:len(data)-1]), nil
}

// ReadUint reads a length-prefixed integer field.
func (r *Reader) ReadUint(field string) (uint64, error) {
	size, err := r.ReadUint8(field)
	if err != nil {
		return 0, err
	}
	data, err := r.ReadRaw(field, int(size))
	if err != nil {
		return 0, err
	}

	return DecodeUint(data)
}

// ReadUint8 reads a single raw byte.
func (r *Reader) ReadUint8(field string) (byte, error) {
	b, err := r.source.ReadByte()
	if err != nil {
		return 0, truncated(field, err)
	}
	r.bytesRead++
	return b, nil
}

// ReadRaw reads exactly `size` raw bytes.
func (r *Reader) ReadRaw(field string, size int) ([]byte, error) {
	data := make([]byte, size)
	n, err := io.ReadFull(r.source, data)
	r.bytesRead += int64(n)
	if err != nil {
		return nil, truncated(field, err)
	}
	return data, nil
}

// ReadRemaining returns everything left in the stream. This is normally the
// payload following the header.
func (r *Reader) ReadRemaining() ([]byte, error) {
	data, err := io.ReadAll(r.source)
	r.bytesRead += int64(len(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read container payload: %w", err)
	}
	return data, nil
}

func truncated(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return bitpress.ErrCorruptHeader.Wrap(io.ErrUnexpectedEOF).WithMessage(
			fmt.Sprintf("container ends while reading %s", field))
	}
	return fmt.Errorf("failed to read %s: %w", field, err)
}

////////////////////////////////////////////////////////////////////////////////

// CheckExtension fails with [bitpress.ErrUnsupportedContainerFormat] if `path`
// doesn't end with `extension`.
func CheckExtension(path, extension string) error {
	actual := filepath.Ext(path)
	if actual != extension {
		return bitpress.ErrUnsupportedContainerFormat.WithMessage(
			fmt.Sprintf("expected a %s file, got %q", extension, path))
	}
	return nil
}
