package catalog

import (
	"context"
	"fmt"
	"io"
)

// maxPayloadSize bounds a catalog payload; real catalogs are a few KB
const maxPayloadSize = 8 << 20

// Load performs exactly one retrieval of the catalog from src and parses it.
// There is no retry: a failure is returned as a *LoadError and the caller
// keeps an empty catalog.
func Load(ctx context.Context, src Source, format Format) (*Catalog, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPayloadSize+1))
	if err != nil {
		return nil, unreachable(src.Name(), fmt.Errorf("failed to read payload: %w", err))
	}
	if len(data) > maxPayloadSize {
		return nil, malformed(src.Name(), fmt.Errorf("payload exceeds %d bytes", maxPayloadSize))
	}

	if format == FormatAuto {
		format = FormatFromName(src.Name())
	}

	return Parse(data, format, src.Name())
}

// Result is the outcome of an asynchronous load
type Result struct {
	Catalog *Catalog
	Err     error
}

// LoadAsync runs Load on its own goroutine and delivers the single result on
// the returned channel, so the caller's event loop never blocks on I/O.
func LoadAsync(ctx context.Context, src Source, format Format) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		cat, err := Load(ctx, src, format)
		ch <- Result{Catalog: cat, Err: err}
	}()
	return ch
}
