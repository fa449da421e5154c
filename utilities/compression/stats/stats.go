// Package stats computes order-0 symbol statistics over byte buffers.
package stats

import (
	"math"

	"github.com/dargueta/bitpress"
)

// FrequencyTable holds the number of occurrences of every byte value in a buffer.
// It is built once by [Compute] and never modified afterwards.
type FrequencyTable struct {
	counts [256]uint64
	total  uint64
}

// Compute counts every byte in `data`. Empty input fails with
// [bitpress.ErrEmptyInput] since probabilities would be undefined.
func Compute(data []byte) (FrequencyTable, error) {
	table := FrequencyTable{}
	if len(data) == 0 {
		return table, bitpress.ErrEmptyInput.WithMessage("cannot compute symbol statistics")
	}

	for _, b := range data {
		table.counts[b]++
	}
	table.total = uint64(len(data))
	return table, nil
}

// Count returns the number of times `symbol` occurred.
func (t *FrequencyTable) Count(symbol byte) uint64 {
	return t.counts[symbol]
}

// Total returns the length of the buffer the table was computed from.
func (t *FrequencyTable) Total() uint64 {
	return t.total
}

// Probability returns the relative frequency of `symbol`, in [0, 1].
func (t *FrequencyTable) Probability(symbol byte) float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.counts[symbol]) / float64(t.total)
}

// Histogram returns the probabilities of all 256 byte values.
func (t *FrequencyTable) Histogram() [256]float64 {
	var histogram [256]float64
	for i := range histogram {
		histogram[i] = t.Probability(byte(i))
	}
	return histogram
}

// DistinctSymbols returns the number of byte values that occur at least once.
func (t *FrequencyTable) DistinctSymbols() int {
	distinct := 0
	for _, count := range t.counts {
		if count != 0 {
			distinct++
		}
	}
	return distinct
}

// Entropy returns the empirical entropy of the buffer in bits per symbol.
// Symbols that never occur contribute nothing.
func (t *FrequencyTable) Entropy() float64 {
	entropy := 0.0
	for i := range t.counts {
		p := t.Probability(byte(i))
		if p != 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
