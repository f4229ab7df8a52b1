package decoder

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// gzipReadCloser closes both the gzip layer and the underlying file.
type gzipReadCloser struct {
	gz   *gzip.Reader
	file io.Closer
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

// Open opens a source file for decoding, transparently unwrapping gzip
// compression when the scanner flagged it. A decoder reading from the
// returned stream sees identical bytes for x.gpx and x.gpx.gz.
func Open(src model.SourceFile) (io.ReadCloser, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}

	if !src.Compressed {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip stream %s: %w", src.Path, err)
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}
