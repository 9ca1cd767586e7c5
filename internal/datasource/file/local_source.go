// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured filesystem path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already done, Open returns the context error without
//     touching the filesystem.
//   - The kernel is advised that the file will be read sequentially, where
//     the platform supports it.
//   - A leading byte-order mark is consumed; UTF-16 input announced by a BOM
//     is transcoded to UTF-8. Input without a BOM passes through unchanged.
//   - Filesystem errors are wrapped with the path while still permitting
//     errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)

	return &bomStripped{
		Reader: transform.NewReader(f, unicode.BOMOverride(transform.Nop)),
		Closer: f,
	}, nil
}

// bomStripped forwards Close to the underlying file.
type bomStripped struct {
	io.Reader
	io.Closer
}
