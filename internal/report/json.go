package report

import (
	"encoding/json"
	"io"

	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

// JSONWriter encodes the reports as an indented JSON array.
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter creates a JSONWriter
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

func (w *JSONWriter) Write(reports []types.ArchitectureStats) error {
	if reports == nil {
		reports = []types.ArchitectureStats{}
	}

	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}
