package processor

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-package-statistics/internal/contents"
	"github.com/deploymenttheory/go-package-statistics/internal/fetch"
	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
)

var archContents = map[string]string{
	"amd64": "FILE    LOCATION\n" +
		"bin/ls    utils/coreutils\n" +
		"bin/cat    utils/coreutils\n" +
		"usr/share/doc/x    docs/manpages\n",
	"arm64": "usr/bin/busybox    utils/busybox\n",
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newMirror(t *testing.T) *httptest.Server {
	t.Helper()
	files := make(map[string][]byte)
	for arch, body := range archContents {
		files["/main/Contents-"+arch+".gz"] = gzipped(t, body)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProcessor(t *testing.T, mirrorURL string) *Processor {
	return New(2, 10, t.TempDir(), mirror.New(mirrorURL, 5*time.Second), fetch.New(5*time.Second))
}

func TestRun(t *testing.T) {
	srv := newMirror(t)
	p := newProcessor(t, srv.URL+"/main/")

	results, err := p.Run(context.Background(), []string{"amd64", "arm64"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	amd64 := results[0]
	assert.Equal(t, "amd64", amd64.Architecture)
	assert.Equal(t, 1, amd64.DataStart)
	assert.Equal(t, 3, amd64.Files)
	assert.Equal(t, 2, amd64.Packages)
	assert.Equal(t, []contents.Entry{
		{Package: "coreutils", Files: 2},
		{Package: "manpages", Files: 1},
	}, amd64.Top)
	require.NotNil(t, amd64.Source)
	assert.Equal(t, srv.URL+"/main/Contents-amd64.gz", amd64.Source.URL)
	assert.Len(t, amd64.Source.SHA3Hash, 64)

	arm64 := results[1]
	assert.Equal(t, "arm64", arm64.Architecture)
	assert.Equal(t, 0, arm64.DataStart)
	assert.Equal(t, []contents.Entry{{Package: "busybox", Files: 1}}, arm64.Top)

	stats := p.Stats()
	assert.Equal(t, 2, stats.FilesProcessed)
	assert.Zero(t, stats.Errors)
	assert.True(t, p.Duration() > 0)
}

func TestRunUnknownArchitecture(t *testing.T) {
	srv := newMirror(t)
	p := newProcessor(t, srv.URL+"/main/")

	_, err := p.Run(context.Background(), []string{"sparc"})
	assert.ErrorIs(t, err, fetch.ErrArchitectureNotFound)
	assert.Equal(t, 1, p.Stats().Errors)
}

func TestRunRemovesWorkingDirectories(t *testing.T) {
	srv := newMirror(t)
	tempDir := t.TempDir()
	p := New(1, 10, tempDir, mirror.New(srv.URL+"/main/", 5*time.Second), fetch.New(5*time.Second))

	_, err := p.Run(context.Background(), []string{"amd64"})
	require.NoError(t, err)

	left, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "Contents-amd64")
	compressed := filepath.Join(dir, "Contents-amd64.gz")
	require.NoError(t, os.WriteFile(plain, []byte(archContents["amd64"]), 0o644))
	require.NoError(t, os.WriteFile(compressed, gzipped(t, archContents["amd64"]), 0o644))

	p := New(1, 1, t.TempDir(), mirror.New("", 0), fetch.New(time.Second))

	for _, path := range []string{plain, compressed} {
		stats, err := p.ProcessFile("amd64", path)
		require.NoError(t, err, path)
		assert.Nil(t, stats.Source)
		assert.Equal(t, 1, stats.Limit)
		assert.Equal(t, []contents.Entry{{Package: "coreutils", Files: 2}}, stats.Top)
	}
}
