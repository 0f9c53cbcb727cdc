package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown}

// Writer renders ranked package statistics.
type Writer interface {
	Write(reports []types.ArchitectureStats) error
}

// NewWriter returns the Writer for format, writing to out.
func NewWriter(format string, out io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextWriter(out), nil
	case FormatJSON:
		return NewJSONWriter(out), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(out), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}
