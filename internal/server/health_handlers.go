package server

import (
	"net/http"
	"time"
)

// HealthStatus represents operational status for the /health endpoint.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Catalog   string                 `json:"catalog"`
	Source    string                 `json:"source"`
	Albums    int                    `json:"albumCount"`
	Genres    int                    `json:"genreCount"`
	LoadedAt  *time.Time             `json:"loadedAt,omitempty"`
	PublicURL string                 `json:"publicUrl,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// handleHealthCheck reports liveness and whether a catalog is being served.
// A failed reload on top of a good catalog is reported but stays healthy.
func (s *SiteServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Catalog:   "ok",
		Source:    s.source.Name(),
		PublicURL: s.ngrokService.PublicURL(),
		Details:   make(map[string]interface{}),
	}

	cat, err := s.store.Current()
	if err != nil {
		health.Status = "unhealthy"
		health.Catalog = "error"
		health.Details["catalog_error"] = err.Error()
	} else {
		loadedAt := cat.LoadedAt()
		health.Albums = cat.Len()
		health.Genres = len(cat.Genres())
		health.LoadedAt = &loadedAt

		if lastErr := s.store.LastError(); lastErr != nil {
			health.Catalog = "stale"
			health.Details["reload_error"] = lastErr.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	s.respondJSON(w, health)
}
