package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

// MarkdownWriter renders one section per architecture with a ranking table.
type MarkdownWriter struct {
	out io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter
func NewMarkdownWriter(out io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: out}
}

func (w *MarkdownWriter) Write(reports []types.ArchitectureStats) error {
	md := markdown.NewMarkdown(w.out)
	md.H1("Package statistics")
	md.PlainText("")

	for _, r := range reports {
		md.H2(r.Architecture)
		md.PlainText("")

		summary := [][]string{
			{"Packages", strconv.Itoa(r.Packages)},
			{"Files", strconv.Itoa(r.Files)},
		}
		if r.Source != nil {
			summary = append(summary,
				[]string{"Source", "`" + r.Source.URL + "`"},
				[]string{"SHA3-256", "`" + r.Source.SHA3Hash + "`"},
			)
		}
		md.Table(markdown.TableSet{
			Header: []string{"Property", "Value"},
			Rows:   summary,
		})
		md.PlainText("")

		if len(r.Top) == 0 {
			md.PlainText("No packages found.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(r.Top))
		for i, e := range r.Top {
			rows = append(rows, []string{strconv.Itoa(i + 1), e.Package, strconv.Itoa(e.Files)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Rank", "Package", "Files"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return md.Build()
}
