// Package graphics draws symbol-distribution histograms as binary PGM images.
package graphics

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const binWidth = 4
const Width = 256 * binWidth
const Height = 512

// PgmHist is a grayscale canvas with one vertical bar per byte value. Bars are
// scaled so that the most probable symbol reaches the top of the image.
type PgmHist struct {
	data [Width][Height]uint16
}

// NewPgmHist plots `histogram`, which gives the probability of each byte value.
func NewPgmHist(histogram [256]float64) *PgmHist {
	ph := &PgmHist{}

	peak := 0.0
	for _, p := range histogram {
		if p > peak {
			peak = p
		}
	}
	if peak == 0 {
		return ph
	}

	for symbol, p := range histogram {
		barHeight := int(float64(Height) * p / peak)
		if p > 0 && barHeight == 0 {
			// Keep rare symbols visible.
			barHeight = 1
		}
		for dx := 0; dx < binWidth-1; dx++ {
			ph.PlotVertical(symbol*binWidth+dx, barHeight)
		}
	}
	return ph
}

// PlotVertical fills column `x` from the bottom of the image up to `barHeight`.
func (ph *PgmHist) PlotVertical(x int, barHeight int) {
	for y := Height - barHeight; y < Height; y++ {
		ph.PlotPixel(x, y)
	}
}

// PlotPixel brightens one pixel. Coordinates outside the canvas are ignored.
func (ph *PgmHist) PlotPixel(x int, y int) {
	if x >= 0 && x < Width && y >= 0 && y < Height {
		ph.data[x][y] = 0xffff
	}
}

// Pixel returns the value of one pixel.
func (ph *PgmHist) Pixel(x int, y int) uint16 {
	return ph.data[x][y]
}

// WriteTo writes the image in binary PGM (P5) format with 16-bit samples.
func (ph *PgmHist) WriteTo(output io.Writer) (int64, error) {
	writer := bufio.NewWriter(output)
	header := fmt.Sprintf("P5 %d %d 65535\n", Width, Height)
	written, err := writer.WriteString(header)
	total := int64(written)
	if err != nil {
		return total, err
	}

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			lsb := byte(ph.data[x][y] & 0xFF)
			msb := byte((ph.data[x][y] & 0xFF00) >> 8)
			n, err := writer.Write([]byte{msb, lsb})
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, writer.Flush()
}

// Output writes the image to a new file at `filename`.
func (ph *PgmHist) Output(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	_, err = ph.WriteTo(fp)
	return err
}
