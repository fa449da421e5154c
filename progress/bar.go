// Package progress renders codec progress as a single-line text bar.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/dargueta/bitpress"
)

const DefaultWidth = 50

// Bar implements [bitpress.ProgressObserver] by redrawing a line of the form
//
//	Encoding: [>>>>>>>>>>          ] 120/600 20.00%
//
// in place using a carriage return. A newline is written once a stage completes.
type Bar struct {
	output io.Writer
	width  int
}

func NewBar(output io.Writer) *Bar {
	return &Bar{output: output, width: DefaultWidth}
}

// NewBarWithWidth creates a bar with `width` columns between the brackets.
func NewBarWithWidth(output io.Writer, width int) *Bar {
	if width < 1 {
		width = 1
	}
	return &Bar{output: output, width: width}
}

// OnProgress implements [bitpress.ProgressObserver]. Write errors are ignored, as
// progress output is best-effort.
func (b *Bar) OnProgress(stage bitpress.Stage, current, total int64) {
	if total <= 0 {
		return
	}
	if current > total {
		current = total
	}

	filled := int(int64(b.width) * current / total)
	fmt.Fprintf(
		b.output,
		"\r%s: [%s%s] %d/%d %.2f%%",
		stage,
		strings.Repeat(">", filled),
		strings.Repeat(" ", b.width-filled),
		current,
		total,
		100*float64(current)/float64(total),
	)
	if current == total {
		fmt.Fprintln(b.output)
	}
}
