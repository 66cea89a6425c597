package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression is the stream encoding applied to an export.
type Compression int

const (
	None Compression = iota
	Snappy
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// CompressionFor picks the encoding from a path suffix: ".sz" is framed snappy and
// ".zst" is zstd.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz":
		return Snappy
	case ".zst":
		return Zstd
	default:
		return None
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter wraps w in the given encoding. Closing the result flushes the encoder but
// does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	default:
		return nopCloser{w}, nil
	}
}

// NewReader undoes NewWriter.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

type fileWriter struct {
	io.WriteCloser
	f *os.File
}

func (w *fileWriter) Close() error {
	err := w.WriteCloser.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Create opens path for writing, compressed according to its suffix.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, CompressionFor(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{WriteCloser: w, f: f}, nil
}
