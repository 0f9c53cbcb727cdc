package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-package-statistics/internal/contents"
	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

func sampleStats() types.ArchitectureStats {
	return types.ArchitectureStats{
		Architecture: "amd64",
		Mirror:       "http://deb.example.org/debian/dists/stable/main/",
		Source: &types.Source{
			URL:      "http://deb.example.org/debian/dists/stable/main/Contents-amd64.gz",
			FileName: "Contents-amd64.gz",
			SHA3Hash: "abc123",
		},
		DataStart: 1,
		Packages:  2,
		Files:     3,
		Limit:     3,
		Top: []contents.Entry{
			{Package: "coreutils", Files: 2},
			{Package: "manpages", Files: 1},
		},
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer

	for format, want := range map[string]interface{}{
		"":         &TextWriter{},
		"text":     &TextWriter{},
		"JSON":     &JSONWriter{},
		"markdown": &MarkdownWriter{},
		"md":       &MarkdownWriter{},
	} {
		w, err := NewWriter(format, &buf)
		require.NoError(t, err, format)
		assert.IsType(t, want, w, format)
	}

	_, err := NewWriter("yaml", &buf)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextWriter(&buf).Write([]types.ArchitectureStats{sampleStats()}))

	want := "The top 3 packages with the highest file counts are:\n" +
		"1.coreutils                    2\n" +
		"2.manpages                     1\n" +
		"3.\n"
	assert.Equal(t, want, buf.String())
}

func TestTextWriterLongNames(t *testing.T) {
	stats := sampleStats()
	stats.Limit = 1
	stats.Top = []contents.Entry{{Package: "espeak-ng-data-udeb", Files: 488}}

	var buf bytes.Buffer
	require.NoError(t, NewTextWriter(&buf).Write([]types.ArchitectureStats{stats}))

	assert.Contains(t, buf.String(), "1.espeak-ng-data-udeb          488\n")
}

func TestTextWriterMultipleArchitectures(t *testing.T) {
	other := sampleStats()
	other.Architecture = "arm64"

	var buf bytes.Buffer
	require.NoError(t, NewTextWriter(&buf).Write([]types.ArchitectureStats{sampleStats(), other}))

	out := buf.String()
	assert.Contains(t, out, "Architecture: amd64\n")
	assert.Contains(t, out, "\n\nArchitecture: arm64\n")
	assert.Equal(t, 2, strings.Count(out, "The top 3 packages"))
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write([]types.ArchitectureStats{sampleStats()}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "amd64", decoded[0]["architecture"])
	assert.EqualValues(t, 3, decoded[0]["files"])

	top := decoded[0]["top"].([]interface{})
	require.Len(t, top, 2)
	assert.Equal(t, "coreutils", top[0].(map[string]interface{})["package"])
}

func TestJSONWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter(&buf).Write([]types.ArchitectureStats{sampleStats()}))

	out := buf.String()
	assert.Contains(t, out, "# Package statistics")
	assert.Contains(t, out, "## amd64")
	assert.Contains(t, out, "coreutils")
	assert.Contains(t, out, "manpages")
	assert.Contains(t, out, "abc123")
}

func TestMarkdownWriterNoPackages(t *testing.T) {
	stats := sampleStats()
	stats.Top = nil
	stats.Source = nil

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter(&buf).Write([]types.ArchitectureStats{stats}))
	assert.Contains(t, buf.String(), "No packages found.")
}
