package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrSourceUnreachable is returned when the mirror cannot be contacted
	// or answers with an unexpected status.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrArchitectureNotFound is returned when the mirror has no contents
	// file at the requested location.
	ErrArchitectureNotFound = errors.New("architecture not found")
)

// Stats holds fetcher statistics
type Stats struct {
	FilesFetched int
	BytesFetched int64
	Errors       int
}

// Result describes a file saved to disk by Fetch.
type Result struct {
	URL       string
	Path      string
	FileName  string
	Size      int64
	SHA3Hash  string
	FetchedAt time.Time
}

// Fetcher downloads contents files from a mirror.
type Fetcher struct {
	client *http.Client

	stats      Stats
	statsMutex sync.RWMutex
}

// New creates a Fetcher whose requests give up after timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Fetch downloads url into dir and returns where it was stored together
// with its SHA3-256 digest.
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) (Result, error) {
	result, err := f.fetch(ctx, url, dir)
	if err != nil {
		f.incrementErrors()
		return Result{}, err
	}
	f.record(result.Size)
	return result, nil
}

func (f *Fetcher) fetch(ctx context.Context, url, dir string) (Result, error) {
	logger.Infof("Retrieving file: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Result{}, fmt.Errorf("%w: %s", ErrArchitectureNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return Result{}, fmt.Errorf("%w: unexpected status code: %d", ErrSourceUnreachable, resp.StatusCode)
	}

	fileName := path.Base(req.URL.Path)
	filePath := filepath.Join(dir, fileName)

	file, err := os.Create(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create file: %w", err)
	}

	h := sha3.New256()
	written, err := io.Copy(io.MultiWriter(file, h), resp.Body)
	file.Close()

	if err != nil {
		os.Remove(filePath)
		return Result{}, fmt.Errorf("%w: failed to save file: %v", ErrSourceUnreachable, err)
	}

	logger.Infof("Contents file successfully retrieved (%d bytes)", written)

	return Result{
		URL:       url,
		Path:      filePath,
		FileName:  fileName,
		Size:      written,
		SHA3Hash:  fmt.Sprintf("%x", h.Sum(nil)),
		FetchedAt: time.Now(),
	}, nil
}

// Stats returns the current fetch statistics
func (f *Fetcher) Stats() Stats {
	f.statsMutex.RLock()
	defer f.statsMutex.RUnlock()
	return f.stats
}

func (f *Fetcher) record(bytes int64) {
	f.statsMutex.Lock()
	f.stats.FilesFetched++
	f.stats.BytesFetched += bytes
	f.statsMutex.Unlock()
}

func (f *Fetcher) incrementErrors() {
	f.statsMutex.Lock()
	f.stats.Errors++
	f.statsMutex.Unlock()
}
