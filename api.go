package bitpress

import (
	"io"
)

// Codec is the interface implemented by every compression scheme in this module.
//
// Implementations buffer the entire input in memory. None of the methods are safe
// to call concurrently on the same value, but separate values share no state.
type Codec interface {
	// Name returns a short lowercase identifier, e.g. "huffman".
	Name() string

	// Extension returns the file extension of containers produced by this codec,
	// including the leading dot.
	Extension() string

	// Compress writes a complete container for `data` to `output`. `filename` is
	// stored in the header so that decompression can restore it. The return value
	// is the number of bytes written, only valid if no error occurred.
	//
	// Empty input fails with ErrEmptyInput.
	Compress(filename string, data []byte, output io.Writer) (int64, error)

	// Decompress parses a container and returns the stored filename and the
	// original bytes. It never returns a partial result: a container that ends
	// before the declared size is reached fails with ErrCorruptHeader.
	Decompress(input io.Reader) (string, []byte, error)

	// Analyze computes coding statistics for `data` without producing a container.
	Analyze(data []byte) (Analysis, error)
}

// ProgressObserver receives best-effort progress notifications from a codec.
//
// Observers must not modify codec state. Whether or not an observer is attached has
// no effect on the bytes a codec produces.
type ProgressObserver interface {
	OnProgress(stage Stage, current, total int64)
}

// Analysis summarizes how well a codec performs on a particular input.
type Analysis struct {
	// InputSize is the length of the analyzed input, in bytes.
	InputSize int64
	// AverageLength is the number of output bits spent per input symbol, not
	// counting the container header.
	AverageLength float64
	// Entropy is the empirical order-0 entropy of the input in bits per symbol.
	Entropy float64
	// Histogram gives the probability of each byte value.
	Histogram [256]float64
}

// ExpectedSize returns the payload size implied by AverageLength, rounded up to the
// nearest byte.
func (a Analysis) ExpectedSize() int64 {
	return ceilBitsToBytes(a.AverageLength * float64(a.InputSize))
}

// IdealSize returns the smallest payload size an order-0 entropy coder could
// achieve, rounded up to the nearest byte.
func (a Analysis) IdealSize() int64 {
	return ceilBitsToBytes(a.Entropy * float64(a.InputSize))
}

// Efficiency returns Entropy/AverageLength as a percentage.
func (a Analysis) Efficiency() float64 {
	if a.AverageLength == 0 {
		return 0
	}
	return a.Entropy / a.AverageLength * 100
}

func ceilBitsToBytes(bits float64) int64 {
	whole := int64(bits)
	if float64(whole) < bits {
		whole++
	}
	if whole%8 == 0 {
		return whole / 8
	}
	return (whole / 8) + 1
}
