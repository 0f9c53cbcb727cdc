package contents

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	// HeaderMarker is the column heading that ends the free-text preamble.
	HeaderMarker = "FILELOCATION"

	// HeaderWindow caps how many leading lines are searched for the marker.
	HeaderWindow = 100
)

// Header describes where the preamble of a contents file ends.
type Header struct {
	// Index is the zero-based line of the last marker seen in the window.
	Index int
	// Found is false when no marker appeared in the window.
	Found bool
}

// DataStart returns the index of the first record line. Without a marker
// nothing is treated as preamble.
func (h Header) DataStart() int {
	if !h.Found {
		return 0
	}
	return h.Index + 1
}

func (h Header) String() string {
	if !h.Found {
		return "no header"
	}
	return fmt.Sprintf("header at line %d", h.Index)
}

// LocateHeader scans the first HeaderWindow lines of r and returns the
// position of the last line that reads FILELOCATION once whitespace is
// removed. Lines past the window are never read for the marker.
func LocateHeader(r io.Reader) (Header, error) {
	br := newLineReader(r)

	var h Header
	for i := 0; i < HeaderWindow; i++ {
		line, err := br.ReadString('\n')
		if len(line) > 0 && isHeaderLine(line) {
			h = Header{Index: i, Found: true}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, fmt.Errorf("failed to scan for header: %w", err)
		}
	}

	return h, nil
}

func isHeaderLine(line string) bool {
	return strings.Join(strings.Fields(line), "") == HeaderMarker
}

// newLineReader wraps r so that ill-formed UTF-8 is dropped instead of
// surfacing as an error or as replacement characters in package names.
func newLineReader(r io.Reader) *bufio.Reader {
	sanitize := transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)
	return bufio.NewReaderSize(transform.NewReader(r, sanitize), 64*1024)
}
