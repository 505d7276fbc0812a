package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"

	"linernotes/pkg/models"

	"gopkg.in/yaml.v3"
)

// Format selects the payload encoding of a catalog resource
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a config value onto a Format, defaulting to auto
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// FormatFromName guesses the format from a file name, URL or S3 URI.
// Anything that is not recognisably YAML is treated as JSON.
func FormatFromName(name string) Format {
	p := name
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a catalog payload and validates every record. source is only
// used for error messages and the resulting catalog's Source().
func Parse(data []byte, format Format, source string) (*Catalog, error) {
	if format == FormatAuto {
		format = FormatFromName(source)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, malformed(source, errors.New("empty payload"))
	}

	var albums []models.Album
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &albums); err != nil {
			return nil, malformed(source, fmt.Errorf("failed to parse YAML: %w", err))
		}
	default:
		if trimmed[0] != '[' {
			return nil, malformed(source, errors.New("expected a JSON array of albums"))
		}
		if err := json.Unmarshal(trimmed, &albums); err != nil {
			return nil, malformed(source, fmt.Errorf("failed to parse JSON: %w", err))
		}
	}

	if albums == nil {
		return nil, malformed(source, errors.New("expected a list of albums"))
	}

	for i, a := range albums {
		if err := validateAlbum(a); err != nil {
			return nil, malformed(source, fmt.Errorf("album %d: %w", i, err))
		}
	}

	return New(albums, source), nil
}

func validateAlbum(a models.Album) error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title is required")
	}
	if math.IsNaN(a.Score) || a.Score < 0 || a.Score > 10 {
		return fmt.Errorf("score %v outside 0-10", a.Score)
	}
	return nil
}
