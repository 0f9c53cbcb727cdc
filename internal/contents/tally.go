package contents

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAlreadyIngested is returned when a Tally is fed a second stream or
// after it has been ranked. A Tally covers exactly one contents file.
var ErrAlreadyIngested = errors.New("tally already built")

// Entry is one package and the number of files it owns.
type Entry struct {
	Package string `json:"package"`
	Files   int    `json:"files"`
}

// Tally counts records per package key. Keys keep the order in which they
// were first seen, which decides how equal counts are ranked.
type Tally struct {
	index   map[string]int
	entries []Entry
	lines   int
	header  Header

	ingested bool
	ranking  *Ranking
}

// NewTally creates an empty Tally
func NewTally() *Tally {
	return &Tally{
		index: make(map[string]int),
	}
}

// Ingest reads every line of r, skips the preamble described by h and
// counts one file for the package key of each remaining line.
//
// Ill-formed text never fails the pass; only read errors are returned.
func (t *Tally) Ingest(r io.Reader, h Header) error {
	if t.ingested || t.ranking != nil {
		return ErrAlreadyIngested
	}
	t.ingested = true
	t.header = h

	br := newLineReader(r)
	start := h.DataStart()

	for num := 0; ; num++ {
		line, err := br.ReadString('\n')
		if len(line) > 0 && num >= start {
			t.add(ExtractKey(trimNewline(line)))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read line %d: %w", num, err)
		}
	}
}

func (t *Tally) add(key string) {
	t.lines++
	if i, ok := t.index[key]; ok {
		t.entries[i].Files++
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Package: key, Files: 1})
}

// Count returns the number of files tallied for key.
func (t *Tally) Count(key string) int {
	if i, ok := t.index[key]; ok {
		return t.entries[i].Files
	}
	return 0
}

// Len returns the number of unique package keys.
func (t *Tally) Len() int {
	return len(t.entries)
}

// Header returns the header boundary the tally was built with.
func (t *Tally) Header() Header {
	return t.header
}

// Lines returns the number of data lines processed.
func (t *Tally) Lines() int {
	return t.lines
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	total := 0
	for _, e := range t.entries {
		total += e.Files
	}
	return total
}

// Entries returns the tally in first-seen order.
func (t *Tally) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ExtractKey returns the text after the last '/' in line, or the whole line
// when it has none. Records listing several comma separated packages only
// yield the last one.
func ExtractKey(line string) string {
	return line[strings.LastIndexByte(line, '/')+1:]
}

func trimNewline(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
