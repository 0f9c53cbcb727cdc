package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/deploymenttheory/go-package-statistics/internal/fetch"
	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"github.com/gocolly/colly/v2"
)

// DefaultMirror is the distribution directory used when none is configured.
const DefaultMirror = "http://ftp.uk.debian.org/debian/dists/stable/main/"

var (
	// ErrInvalidArchitecture is returned for an empty or malformed architecture name.
	ErrInvalidArchitecture = errors.New("invalid architecture")

	// ErrMirrorNotFound is returned when the mirror index page does not exist.
	ErrMirrorNotFound = errors.New("mirror not found")
)

var binaryDir = regexp.MustCompile(`^binary-([^/]+)/?$`)

// Resolver maps architecture names to contents file locations on a mirror.
type Resolver struct {
	Mirror  string
	Timeout time.Duration
}

// New creates a Resolver for mirror, falling back to DefaultMirror.
func New(mirror string, timeout time.Duration) *Resolver {
	if mirror == "" {
		mirror = DefaultMirror
	}
	return &Resolver{Mirror: mirror, Timeout: timeout}
}

func (r *Resolver) base() string {
	if strings.HasSuffix(r.Mirror, "/") {
		return r.Mirror
	}
	return r.Mirror + "/"
}

// ContentsFile returns the compressed contents file name for arch.
func ContentsFile(arch string) string {
	return "Contents-" + arch + ".gz"
}

// ContentsURL returns the URL of the compressed contents file for arch.
func (r *Resolver) ContentsURL(arch string) (string, error) {
	arch = strings.TrimSpace(arch)
	if arch == "" || strings.ContainsAny(arch, "/?# \t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidArchitecture, arch)
	}
	return r.base() + ContentsFile(arch), nil
}

// Architectures lists the architectures published on the mirror by
// collecting its binary-<arch>/ directory links.
func (r *Resolver) Architectures(ctx context.Context) ([]string, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	if r.Timeout > 0 {
		c.SetRequestTimeout(r.Timeout)
	}

	seen := make(map[string]bool)
	var archs []string
	status := 0

	c.OnRequest(func(req *colly.Request) {
		logger.Infof("Listing architectures at %s", req.URL)
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		m := binaryDir.FindStringSubmatch(e.Attr("href"))
		if m == nil || seen[m[1]] {
			return
		}
		logger.Debugf("Found architecture: %s", m[1])
		seen[m[1]] = true
		archs = append(archs, m[1])
	})

	c.OnError(func(resp *colly.Response, err error) {
		status = resp.StatusCode
		logger.Debugf("Error on %s: status=%d: %v", resp.Request.URL, resp.StatusCode, err)
	})

	if err := c.Visit(r.base()); err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrMirrorNotFound, r.Mirror)
		}
		return nil, fmt.Errorf("%w: %s: %v", fetch.ErrSourceUnreachable, r.Mirror, err)
	}

	sort.Strings(archs)
	return archs, nil
}
