// Package datasource defines where pipeline input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh reader over the input on every call.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Path returns a location the embedded engine can read directly.
	Path() string
}
