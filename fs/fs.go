// Package fs reads point datasets and writes annotated results. It is a
// thin collaborator around the engine: it validates what it parses, but the
// engine re-validates everything it is handed.
//
// Files ending in .gz are read and written through gzip transparently.
package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	// ErrIO wraps failures to open, read or write a file.
	ErrIO = errors.New("fs: i/o failure")

	// ErrEmptyFile is returned when a dataset file contains no data rows.
	ErrEmptyFile = errors.New("fs: empty file")

	// ErrRaggedRow is returned when a row's field count differs from the
	// header.
	ErrRaggedRow = errors.New("fs: inconsistent row length")
)

// ErrMalformedNumber is returned when a field cannot be parsed as a finite
// float.
type ErrMalformedNumber struct {
	Row   int
	Col   int
	Value string
}

func (e *ErrMalformedNumber) Error() string {
	return fmt.Sprintf("fs: malformed number %q at row %d, column %d", e.Value, e.Row, e.Col)
}

// openReader opens path for reading, transparently ungzipping .gz files.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &gzipReadCloser{zr: zr, f: f}, nil
}

// openWriter creates path for writing, transparently gzipping .gz files.
func openWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{zw: gzip.NewWriter(f), f: f}, nil
}

type gzipReadCloser struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	err := g.zr.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type gzipWriteCloser struct {
	zw *gzip.Writer
	f  *os.File
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) { return g.zw.Write(p) }

func (g *gzipWriteCloser) Close() error {
	err := g.zw.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}
