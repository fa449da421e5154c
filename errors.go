package bitpress

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is the error type returned by codecs and the file helpers. Every
// error derives from one of the Err* values below, so callers match the category
// with [errors.Is] regardless of how much context was added along the way.
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

var (
	// ErrInputNotFound means the file to read doesn't exist.
	ErrInputNotFound = rootError.WithMessage("No such file")
	// ErrEmptyInput means there was nothing to compress or analyze.
	ErrEmptyInput = rootError.WithMessage("Input is empty")
	// ErrUnsupportedContainerFormat means the file extension doesn't belong to
	// the codec, or to any codec.
	ErrUnsupportedContainerFormat = rootError.WithMessage("Unknown file type")
	// ErrCorruptHeader covers every malformed container: truncated headers and
	// payloads, invalid code tables, impossible sizes, unsafe stored filenames.
	ErrCorruptHeader = rootError.WithMessage("Container is corrupt")
	// ErrUnknownOperation means a codec or CLI operation name wasn't recognized.
	ErrUnknownOperation = rootError.WithMessage("Unknown operation type")
	// ErrInvalidArgument means the caller passed something no container can
	// represent, such as a filename containing a null byte.
	ErrInvalidArgument = rootError.WithMessage("Invalid argument")
)

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) RootCause() CodecError {
	return e
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
