package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

const nameWidth = 29

// TextWriter prints a numbered list of the top packages. Ranks with no
// package are printed as a bare number so the list always has Limit lines.
type TextWriter struct {
	out io.Writer
}

// NewTextWriter creates a TextWriter
func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{out: out}
}

func (w *TextWriter) Write(reports []types.ArchitectureStats) error {
	bw := bufio.NewWriter(w.out)

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		if len(reports) > 1 {
			fmt.Fprintf(bw, "Architecture: %s\n", r.Architecture)
		}

		fmt.Fprintf(bw, "The top %d packages with the highest file counts are:\n", r.Limit)
		for rank := 0; rank < r.Limit; rank++ {
			if rank >= len(r.Top) {
				fmt.Fprintf(bw, "%d.\n", rank+1)
				continue
			}
			fmt.Fprintf(bw, "%d.%-*s%d\n", rank+1, nameWidth, r.Top[rank].Package, r.Top[rank].Files)
		}
	}

	return bw.Flush()
}
