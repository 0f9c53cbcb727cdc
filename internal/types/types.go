package types

import (
	"time"

	"github.com/deploymenttheory/go-package-statistics/internal/contents"
)

// Source describes the downloaded contents file a report was built from.
type Source struct {
	URL           string    `json:"url"`
	FileName      string    `json:"file_name"`
	SHA3Hash      string    `json:"sha3_hash"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// ArchitectureStats is the ranked file count report for one architecture.
type ArchitectureStats struct {
	Architecture string           `json:"architecture"`
	Mirror       string           `json:"mirror,omitempty"`
	Source       *Source          `json:"source,omitempty"`
	DataStart    int              `json:"data_start_line"`
	Packages     int              `json:"packages"`
	Files        int              `json:"files"`
	Limit        int              `json:"limit"`
	Top          []contents.Entry `json:"top"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
