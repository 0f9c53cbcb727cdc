package contents

import (
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-package-statistics/internal/logger"
)

// Analyze locates the header in src, rewinds it and builds the tally and
// its ranking.
func Analyze(src io.ReadSeeker) (*Tally, *Ranking, error) {
	h, err := LocateHeader(src)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("Starting scan from line %d (%s)", h.DataStart(), h)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to rewind contents: %w", err)
	}

	t := NewTally()
	if err := t.Ingest(src, h); err != nil {
		return nil, nil, err
	}
	logger.Debugf("Tallied %d lines into %d packages", t.Lines(), t.Len())

	return t, t.Rank(), nil
}

// AnalyzeFile runs Analyze over a decompressed contents file on disk.
func AnalyzeFile(path string) (*Tally, *Ranking, error) {
	logger.Infof("Parsing contents file %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open contents file: %w", err)
	}
	defer file.Close()

	return Analyze(file)
}
