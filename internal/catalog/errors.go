package catalog

import "fmt"

// Kind classifies why a catalog could not be loaded
type Kind string

const (
	KindUnreachable Kind = "unreachable" // resource could not be opened or read
	KindStatus      Kind = "status"      // resource answered with a non-success status
	KindMalformed   Kind = "malformed"   // payload is not a usable album list
)

// LoadError describes a failed catalog retrieval
type LoadError struct {
	Kind       Kind
	Source     string
	StatusCode int // set for KindStatus
	Err        error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("catalog %s: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("catalog %s: %s: %v", e.Source, e.Kind, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func unreachable(source string, err error) *LoadError {
	return &LoadError{Kind: KindUnreachable, Source: source, Err: err}
}

func malformed(source string, err error) *LoadError {
	return &LoadError{Kind: KindMalformed, Source: source, Err: err}
}
