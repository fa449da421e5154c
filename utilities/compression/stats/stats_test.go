package stats_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/bitpress"
	"github.com/dargueta/bitpress/utilities/compression/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute__Empty(t *testing.T) {
	_, err := stats.Compute([]byte{})
	assert.ErrorIs(t, err, bitpress.ErrEmptyInput)
}

func TestCompute__Counts(t *testing.T) {
	table, err := stats.Compute([]byte("abracadabra"))
	require.NoError(t, err)

	assert.EqualValues(t, 11, table.Total())
	assert.EqualValues(t, 5, table.Count('a'))
	assert.EqualValues(t, 2, table.Count('b'))
	assert.EqualValues(t, 0, table.Count('z'))
	assert.Equal(t, 5, table.DistinctSymbols())
	assert.InDelta(t, 5.0/11.0, table.Probability('a'), 1e-12)
}

func TestHistogram__SumsToOne(t *testing.T) {
	data := make([]byte, 0, 1000)
	for i := 0; i < 1000; i++ {
		data = append(data, byte(i*i%251))
	}
	table, err := stats.Compute(data)
	require.NoError(t, err)

	sum := 0.0
	for _, p := range table.Histogram() {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		Name     string
		Data     []byte
		Expected float64
	}{
		{"single symbol", bytes.Repeat([]byte{7}, 100), 0},
		{"two equiprobable", []byte{0, 1, 0, 1}, 1},
		{"four equiprobable", []byte("abcdabcd"), 2},
		{"skewed", []byte{0, 0, 0, 1}, 0.8112781244591328},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				table, err := stats.Compute(test.Data)
				require.NoError(t, err)
				assert.InDelta(t, test.Expected, table.Entropy(), 1e-9)
			},
		)
	}
}

func TestEntropy__AllSymbols(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	table, err := stats.Compute(data)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, table.Entropy(), 1e-9)
	assert.Equal(t, 256, table.DistinctSymbols())
}
