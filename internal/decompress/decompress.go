package decompress

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/xi2/xz"
)

// ErrDecompressionFailed wraps every failure to decode a compressed source.
var ErrDecompressionFailed = errors.New("decompression failed")

// Format identifies the compression of a source file.
type Format string

const (
	FormatPlain Format = "plain"
	FormatGzip  Format = "gzip"
	FormatXZ    Format = "xz"
	FormatZstd  Format = "zstd"
	FormatBzip2 Format = "bzip2"
)

var magics = []struct {
	format Format
	magic  []byte
}{
	{FormatGzip, []byte{0x1f, 0x8b}},
	{FormatXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{FormatZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{FormatBzip2, []byte("BZh")},
}

// Detect returns the format whose magic number prefixes head.
func Detect(head []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.format
		}
	}
	return FormatPlain
}

// DetectFile sniffs the compression format of the file at path.
func DetectFile(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 6)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Detect(head[:n]), nil
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewReader returns a reader of the decompressed content of r, sniffing
// the format from its first bytes. Plain text passes through.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(6)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("%w: failed to read header: %v", ErrDecompressionFailed, err)
	}

	format := Detect(head)
	rc := &readCloser{}

	switch format {
	case FormatGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz.Close)
	case FormatXZ:
		xzReader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, format, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
		}
		rc.Reader = xzReader
	case FormatZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, func() error { zr.Close(); return nil })
	case FormatBzip2:
		rc.Reader = bzip2.NewReader(br)
	default:
		rc.Reader = br
	}

	return rc, format, nil
}

// Open opens path and returns its decompressed content.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, format, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	logger.Debugf("Detected %s compression for %s", format, path)

	inner := rc.(*readCloser)
	inner.closers = append(inner.closers, file.Close)
	return inner, nil
}

// Decompress writes the decompressed content of src to dst and returns the
// number of bytes written. A partial dst is removed on failure.
func Decompress(src, dst string) (int64, error) {
	logger.Infof("Decompressing %s", src)

	in, err := Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	written, err := io.Copy(out, in)
	closeErr := out.Close()
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	if closeErr != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("failed to write %s: %w", dst, closeErr)
	}

	logger.Infof("Contents file decompressed (%d bytes)", written)
	return written, nil
}
