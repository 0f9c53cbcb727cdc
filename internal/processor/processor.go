package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deploymenttheory/go-package-statistics/internal/contents"
	"github.com/deploymenttheory/go-package-statistics/internal/decompress"
	"github.com/deploymenttheory/go-package-statistics/internal/fetch"
	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

// Stats holds processor statistics
type Stats struct {
	FilesProcessed int
	Errors         int
	StartTime      time.Time
	EndTime        time.Time
}

// Processor fetches, decompresses and ranks contents files. Every
// architecture gets its own working directory and tally.
type Processor struct {
	workers  int
	limit    int
	tempDir  string
	resolver *mirror.Resolver
	fetcher  *fetch.Fetcher

	stats      Stats
	statsMutex sync.RWMutex
}

// New creates a new Processor
func New(workers, limit int, tempDir string, resolver *mirror.Resolver, fetcher *fetch.Fetcher) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		workers:  workers,
		limit:    limit,
		tempDir:  tempDir,
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Run processes each architecture and returns the reports in the order the
// architectures were given. The first failure cancels the remaining work.
func (p *Processor) Run(ctx context.Context, archs []string) ([]types.ArchitectureStats, error) {
	p.start()
	defer p.finish()

	results := make([]types.ArchitectureStats, len(archs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, arch := range archs {
		g.Go(func() error {
			stats, err := p.processArchitecture(ctx, arch)
			if err != nil {
				p.incrementErrors()
				return fmt.Errorf("%s: %w", arch, err)
			}
			results[i] = stats
			p.incrementFilesProcessed()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) processArchitecture(ctx context.Context, arch string) (types.ArchitectureStats, error) {
	url, err := p.resolver.ContentsURL(arch)
	if err != nil {
		return types.ArchitectureStats{}, err
	}

	if err := os.MkdirAll(p.tempDir, 0755); err != nil {
		return types.ArchitectureStats{}, fmt.Errorf("failed to create temp directory: %w", err)
	}
	workDir, err := os.MkdirTemp(p.tempDir, "contents-"+arch+"-")
	if err != nil {
		return types.ArchitectureStats{}, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	fetched, err := p.fetcher.Fetch(ctx, url, workDir)
	if err != nil {
		return types.ArchitectureStats{}, err
	}

	plain := filepath.Join(workDir, "Contents-"+arch)
	if _, err := decompress.Decompress(fetched.Path, plain); err != nil {
		return types.ArchitectureStats{}, err
	}

	stats, err := p.analyze(arch, plain)
	if err != nil {
		return types.ArchitectureStats{}, err
	}
	stats.Mirror = p.resolver.Mirror
	stats.Source = &types.Source{
		URL:           fetched.URL,
		FileName:      fetched.FileName,
		SHA3Hash:      fetched.SHA3Hash,
		FileSizeBytes: fetched.Size,
		FetchedAt:     fetched.FetchedAt,
	}
	return stats, nil
}

// ProcessFile ranks a contents file that is already on disk. Compressed
// files are decompressed into the temp directory first.
func (p *Processor) ProcessFile(arch, path string) (types.ArchitectureStats, error) {
	p.start()
	defer p.finish()

	stats, err := p.processFile(arch, path)
	if err != nil {
		p.incrementErrors()
		return types.ArchitectureStats{}, err
	}
	p.incrementFilesProcessed()
	return stats, nil
}

func (p *Processor) processFile(arch, path string) (types.ArchitectureStats, error) {
	format, err := decompress.DetectFile(path)
	if err != nil {
		return types.ArchitectureStats{}, err
	}
	if format == decompress.FormatPlain {
		return p.analyze(arch, path)
	}

	if err := os.MkdirAll(p.tempDir, 0755); err != nil {
		return types.ArchitectureStats{}, fmt.Errorf("failed to create temp directory: %w", err)
	}
	workDir, err := os.MkdirTemp(p.tempDir, "contents-local-")
	if err != nil {
		return types.ArchitectureStats{}, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	plain := filepath.Join(workDir, "contents")
	if _, err := decompress.Decompress(path, plain); err != nil {
		return types.ArchitectureStats{}, err
	}
	return p.analyze(arch, plain)
}

func (p *Processor) analyze(arch, path string) (types.ArchitectureStats, error) {
	tally, ranking, err := contents.AnalyzeFile(path)
	if err != nil {
		return types.ArchitectureStats{}, err
	}

	logger.Infof("%s: %d files across %d packages", arch, tally.Total(), tally.Len())

	return types.ArchitectureStats{
		Architecture: arch,
		DataStart:    tally.Header().DataStart(),
		Packages:     tally.Len(),
		Files:        tally.Total(),
		Limit:        p.limit,
		Top:          ranking.TopK(p.limit),
		GeneratedAt:  time.Now(),
	}, nil
}

// Stats returns the current processing statistics
func (p *Processor) Stats() Stats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()
	return p.stats
}

// Duration returns how long the last run took, or has taken so far.
func (p *Processor) Duration() time.Duration {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	if p.stats.StartTime.IsZero() {
		return 0
	}
	if p.stats.EndTime.IsZero() {
		return time.Since(p.stats.StartTime)
	}
	return p.stats.EndTime.Sub(p.stats.StartTime)
}

func (p *Processor) start() {
	p.statsMutex.Lock()
	p.stats.StartTime = time.Now()
	p.stats.EndTime = time.Time{}
	p.statsMutex.Unlock()
}

func (p *Processor) finish() {
	p.statsMutex.Lock()
	p.stats.EndTime = time.Now()
	p.statsMutex.Unlock()
}

func (p *Processor) incrementFilesProcessed() {
	p.statsMutex.Lock()
	p.stats.FilesProcessed++
	p.statsMutex.Unlock()
}

func (p *Processor) incrementErrors() {
	p.statsMutex.Lock()
	p.stats.Errors++
	p.statsMutex.Unlock()
}
