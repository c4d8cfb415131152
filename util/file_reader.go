package util

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineCapacity   = 16 * 1024 * 1024
)

// LineSource yields decoded text lines in file order.
type LineSource interface {
	// Next advances to the next line, returning false at the end of input
	// or on the first read error.
	Next() bool
	// Line returns the current line without its line terminator.
	Line() string
	// Err returns the read error that stopped Next, if any.
	Err() error
	// Close releases the underlying readers.
	Close() error
}

type scannerSource struct {
	name    string
	scanner *bufio.Scanner
	closers []io.Closer
}

// NewLineSource reads lines from an already decoded reader. If r is also an
// io.Closer it is closed with the source.
func NewLineSource(r io.Reader) LineSource {
	s := &scannerSource{name: "reader", scanner: newScanner(r)}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s
}

// OpenLines opens a dump file and streams its lines. The decompressor is
// picked from the file suffix: .bz2, .gz and .zst are decoded, anything
// else is read as plain text.
func OpenLines(file string) (LineSource, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	s := &scannerSource{name: file, closers: []io.Closer{fh}}

	var r io.Reader
	switch {
	case strings.HasSuffix(file, ".bz2"):
		// compress/bzip2 continues across concatenated streams
		r = bzip2.NewReader(bufio.NewReaderSize(fh, 1<<20))
	case strings.HasSuffix(file, ".gz"):
		gz, err := pgzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", file, err)
		}
		s.closers = append([]io.Closer{gz}, s.closers...)
		r = gz
	case strings.HasSuffix(file, ".zst"):
		zr, err := zstd.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", file, err)
		}
		rc := zr.IOReadCloser()
		s.closers = append([]io.Closer{rc}, s.closers...)
		r = rc
	default:
		r = fh
	}
	s.scanner = newScanner(r)
	return s, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, initialLineBuffer)
	scanner.Buffer(buf, maxLineCapacity)
	return scanner
}

func (s *scannerSource) Next() bool {
	return s.scanner.Scan()
}

func (s *scannerSource) Line() string {
	return s.scanner.Text()
}

func (s *scannerSource) Err() error {
	if err := s.scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil
}

// Close closes the decompressor before the file. The first error wins.
func (s *scannerSource) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
