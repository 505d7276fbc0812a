package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"linernotes/internal/config"
)

// Source is a read-only location holding the catalog payload
type Source interface {
	// Open starts one retrieval of the payload. Failures are *LoadError.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the source in logs and errors
	Name() string
}

// FileSource reads the catalog from the local filesystem
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, unreachable(s.Path, err)
	}
	return f, nil
}

// LocalPath returns the file path for sources that can be watched
func (s FileSource) LocalPath() string { return s.Path }

// HTTPSource fetches the catalog over HTTP(S) with a single GET
type HTTPSource struct {
	URL       string
	Client    *http.Client
	UserAgent string
}

// NewHTTPSource creates an HTTP source with a bounded timeout
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL: url,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: "linernotes",
	}
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, unreachable(s.URL, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, unreachable(s.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &LoadError{
			Kind:       KindStatus,
			Source:     s.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response %s", resp.Status),
		}
	}

	return resp.Body, nil
}

// SourceFor picks a source implementation from the configured location:
// http(s):// URLs, s3://bucket/key URIs, or a local path.
func SourceFor(cfg config.CatalogConfig) (Source, error) {
	loc := strings.TrimSpace(cfg.Location)
	switch {
	case loc == "":
		return nil, fmt.Errorf("catalog location is empty")
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return NewHTTPSource(loc), nil
	case strings.HasPrefix(loc, "s3://"):
		return NewS3Source(loc, cfg.S3)
	default:
		return FileSource{Path: loc}, nil
	}
}
