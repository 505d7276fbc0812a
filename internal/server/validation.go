package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"linernotes/internal/listing"

	"github.com/sirupsen/logrus"
)

const (
	maxSearchLength = 1000
	maxGenreLength  = 200
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationResult contains validation results
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// listingRequest is a validated listing query
type listingRequest struct {
	State         listing.ViewState
	ReducedMotion bool
}

// respondJSON encodes v as the response body
func (s *SiteServer) respondJSON(w http.ResponseWriter, v interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// respondWithValidationError sends a structured validation error response
func (s *SiteServer) respondWithValidationError(w http.ResponseWriter, r *http.Request, errors []ValidationError) {
	s.logger.WithFields(logrus.Fields{
		"request_id": requestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"errors":     errors,
	}).Warn("Validation failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	s.respondJSON(w, ValidationResult{
		Valid:  false,
		Errors: errors,
	})
}

// respondWithError sends a structured error response
func (s *SiteServer) respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	logEntry := s.logger.WithFields(logrus.Fields{
		"request_id":  requestIDFrom(r.Context()),
		"method":      r.Method,
		"path":        r.URL.Path,
		"status_code": statusCode,
		"message":     message,
	})

	if err != nil {
		logEntry = logEntry.WithError(err)
	}

	if statusCode >= 500 {
		logEntry.Error("Server error")
	} else {
		logEntry.Warn("Client error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	s.respondJSON(w, map[string]interface{}{
		"error":   message,
		"code":    statusCode,
		"success": false,
	})
}

// allowRead rejects anything but GET and HEAD
func (s *SiteServer) allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	s.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	return false
}

// parseListingRequest reads q, genre, sort and motion from the query string.
// Unknown sort keys are accepted and sort as a no-op.
func (s *SiteServer) parseListingRequest(query url.Values) (listingRequest, []ValidationError) {
	var errs []ValidationError

	search := query.Get("q")
	if verr := s.validateSearchQuery(search); verr != nil {
		errs = append(errs, *verr)
	}

	genre := query.Get("genre")
	if verr := s.validateGenre(genre); verr != nil {
		errs = append(errs, *verr)
	}

	if len(errs) > 0 {
		return listingRequest{}, errs
	}

	return listingRequest{
		State: listing.ViewState{
			SearchQuery:   sanitizeInput(search),
			SelectedGenre: genre,
			SortKey:       listing.ParseSortKey(query.Get("sort")),
		},
		ReducedMotion: query.Get("motion") == "reduce",
	}, nil
}

// validateSearchQuery validates search query parameters
func (s *SiteServer) validateSearchQuery(query string) *ValidationError {
	if len(query) > maxSearchLength {
		return &ValidationError{
			Field:   "q",
			Message: "Search query too long (max 1000 characters)",
			Code:    "SEARCH_QUERY_TOO_LONG",
		}
	}

	if strings.Contains(query, "\x00") {
		return &ValidationError{
			Field:   "q",
			Message: "Search query contains invalid characters",
			Code:    "INVALID_SEARCH_CHARACTERS",
		}
	}

	return nil
}

// validateGenre validates the genre selection. Genres are matched exactly,
// so the value is not trimmed or case folded.
func (s *SiteServer) validateGenre(genre string) *ValidationError {
	if len(genre) > maxGenreLength {
		return &ValidationError{
			Field:   "genre",
			Message: "Genre too long (max 200 characters)",
			Code:    "GENRE_TOO_LONG",
		}
	}

	if strings.ContainsAny(genre, "\x00\r\n") {
		return &ValidationError{
			Field:   "genre",
			Message: "Genre contains invalid characters",
			Code:    "INVALID_GENRE_CHARACTERS",
		}
	}

	return nil
}

// sanitizeInput removes NUL bytes and surrounding whitespace
func sanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
