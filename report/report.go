// Package report formats codec evaluations and analyses for humans and exports
// them as CSV.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dargueta/bitpress"
	"github.com/gocarina/gocsv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Evaluation records one encode/decode cycle of a codec over a single file.
type Evaluation struct {
	Codec         string        `csv:"codec"`
	Path          string        `csv:"path"`
	RawSize       int64         `csv:"raw_size"`
	PackedSize    int64         `csv:"packed_size"`
	EncodeTime    time.Duration `csv:"-"`
	DecodeTime    time.Duration `csv:"-"`
	EncodeSeconds float64       `csv:"encode_seconds"`
	DecodeSeconds float64       `csv:"decode_seconds"`
	CompressRate  float64       `csv:"compress_rate"`
}

// NewEvaluation fills in the derived columns.
func NewEvaluation(
	codec, path string, rawSize, packedSize int64, encodeTime, decodeTime time.Duration,
) Evaluation {
	evaluation := Evaluation{
		Codec:         codec,
		Path:          path,
		RawSize:       rawSize,
		PackedSize:    packedSize,
		EncodeTime:    encodeTime,
		DecodeTime:    decodeTime,
		EncodeSeconds: encodeTime.Seconds(),
		DecodeSeconds: decodeTime.Seconds(),
	}
	if rawSize > 0 {
		evaluation.CompressRate = float64(packedSize) / float64(rawSize) * 100
	}
	return evaluation
}

// EncodeSpeed returns the encoding throughput in KiB of input per second.
func (e Evaluation) EncodeSpeed() float64 {
	return kibPerSecond(e.RawSize, e.EncodeTime)
}

// DecodeSpeed returns the decoding throughput in KiB of container per second.
func (e Evaluation) DecodeSpeed() float64 {
	return kibPerSecond(e.PackedSize, e.DecodeTime)
}

func kibPerSecond(size int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(size) / 1024 / elapsed.Seconds()
}

// newPrinter returns a printer that groups thousands with commas.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// PrintEvaluation writes a human-readable summary of `e` to `output`.
func PrintEvaluation(output io.Writer, e Evaluation) {
	p := newPrinter()
	p.Fprintf(output, "Codec: %s\n", e.Codec)
	p.Fprintf(output, "Encode Time: %.5fs\n", e.EncodeTime.Seconds())
	p.Fprintf(output, "Decode Time: %.5fs\n", e.DecodeTime.Seconds())
	p.Fprintf(output, "Raw Size: %dB\n", e.RawSize)
	p.Fprintf(output, "New Size: %dB\n", e.PackedSize)
	p.Fprintf(output, "Compress Rate: %.2f%%\n", e.CompressRate)
	p.Fprintf(output, "Encode Speed: %.2fKB/s\n", e.EncodeSpeed())
	p.Fprintf(output, "Decode Speed: %.2fKB/s\n", e.DecodeSpeed())
}

// PrintAnalysis writes the coding statistics in `a` to `output`.
func PrintAnalysis(output io.Writer, a bitpress.Analysis) {
	p := newPrinter()
	p.Fprintf(output, "Average Len: %.2f\n", a.AverageLength)
	p.Fprintf(output, "Entropy: %.2f\n", a.Entropy)
	p.Fprintf(output, "Expected Size: %dB\n", a.ExpectedSize())
	p.Fprintf(output, "Ideal Size: %dB\n", a.IdealSize())
	p.Fprintf(output, "Efficiency: %.2f%%\n", a.Efficiency())
}

// PrintComparison writes one line per evaluation, for side-by-side comparisons.
func PrintComparison(output io.Writer, evaluations []Evaluation) {
	p := newPrinter()
	p.Fprintf(output, "%-8s %14s %14s %9s %12s %12s\n",
		"codec", "raw", "packed", "rate", "encode", "decode")
	for _, e := range evaluations {
		p.Fprintf(output, "%-8s %13dB %13dB %8.2f%% %11.5fs %11.5fs\n",
			e.Codec, e.RawSize, e.PackedSize, e.CompressRate,
			e.EncodeTime.Seconds(), e.DecodeTime.Seconds())
	}
}

// WriteCSV writes `evaluations` as CSV with a header row.
func WriteCSV(output io.Writer, evaluations []Evaluation) error {
	err := gocsv.Marshal(&evaluations, output)
	if err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	return nil
}

// ReadCSV parses a report written by [WriteCSV]. Durations are restored from the
// seconds columns.
func ReadCSV(input io.Reader) ([]Evaluation, error) {
	evaluations := []Evaluation{}
	err := gocsv.Unmarshal(input, &evaluations)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV report: %w", err)
	}

	for i := range evaluations {
		evaluations[i].EncodeTime = secondsToDuration(evaluations[i].EncodeSeconds)
		evaluations[i].DecodeTime = secondsToDuration(evaluations[i].DecodeSeconds)
	}
	return evaluations, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
