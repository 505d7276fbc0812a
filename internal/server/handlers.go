package server

import (
	"bytes"
	"net/http"

	"linernotes/internal/cache"
	"linernotes/internal/catalog"
	"linernotes/internal/render"
	"linernotes/pkg/models"
)

// AlbumsResponse is the JSON form of one listing
type AlbumsResponse struct {
	CountText string         `json:"count_text"`
	Total     int            `json:"total"`
	Visible   int            `json:"visible"`
	Query     string         `json:"query"`
	Genre     string         `json:"genre"`
	Sort      string         `json:"sort"`
	Albums    []models.Album `json:"albums"`
	Genres    []string       `json:"genres"`
}

// staticHandler serves the personal site from the configured static dir.
func (s *SiteServer) staticHandler() http.Handler {
	return http.FileServer(http.Dir(s.config.Server.StaticDir))
}

// listing computes the view for a validated request against the current catalog
func (s *SiteServer) listing(cat *catalog.Catalog, req listingRequest) render.View {
	visible := s.sorter.Apply(cat.Albums(), req.State)
	return render.NewView(visible, cat.Len(), render.Options{ReducedMotion: req.ReducedMotion})
}

// handleCatalogData serves the current catalog as the JSON resource the
// listing is built from.
func (s *SiteServer) handleCatalogData(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}

	cat, err := s.store.Current()
	if err != nil {
		s.respondWithError(w, r, http.StatusServiceUnavailable, render.LoadErrorMessage, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	s.respondJSON(w, cat.Albums())
}

// handleAlbumsPage renders the full albums page for ?q=&genre=&sort=
func (s *SiteServer) handleAlbumsPage(w http.ResponseWriter, r *http.Request) {
	s.serveListing(w, r, "page", func(buf *bytes.Buffer, cat *catalog.Catalog, req listingRequest) error {
		if cat == nil {
			return s.renderer.RenderError(buf, render.LoadErrorMessage)
		}
		page := render.NewPage(s.listing(cat, req), req.State, cat.Genres())
		return s.renderer.RenderPage(buf, page)
	})
}

// handleAlbumsFragment renders only the count text, card list and empty state
func (s *SiteServer) handleAlbumsFragment(w http.ResponseWriter, r *http.Request) {
	s.serveListing(w, r, "fragment", func(buf *bytes.Buffer, cat *catalog.Catalog, req listingRequest) error {
		if cat == nil {
			return s.renderer.RenderListing(buf, render.ErrorView(render.LoadErrorMessage))
		}
		return s.renderer.RenderListing(buf, s.listing(cat, req))
	})
}

// serveListing validates the request, then serves the rendered HTML from the
// listing cache or renders it. A nil catalog means nothing has loaded yet.
func (s *SiteServer) serveListing(w http.ResponseWriter, r *http.Request, kind string, renderFn func(*bytes.Buffer, *catalog.Catalog, listingRequest) error) {
	if !s.allowRead(w, r) {
		return
	}

	req, verrs := s.parseListingRequest(r.URL.Query())
	if len(verrs) > 0 {
		s.respondWithValidationError(w, r, verrs)
		return
	}

	cat, loadErr := s.store.Current()
	key := cache.Key(kind, cat.Version(), req.State, req.ReducedMotion)
	if loadErr == nil {
		if body, status, ok := s.listings.Get(key); ok {
			writeHTML(w, status, body)
			return
		}
	} else {
		s.logger.WithError(loadErr).WithField("request_id", requestIDFrom(r.Context())).Warn("Serving albums without a catalog")
	}

	var buf bytes.Buffer
	if err := renderFn(&buf, cat, req); err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Error rendering albums", err)
		return
	}

	status := http.StatusOK
	if loadErr != nil {
		status = http.StatusServiceUnavailable
	} else {
		s.listings.Set(key, status, buf.Bytes())
	}
	writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// handleGetAlbums returns the filtered and sorted listing as JSON
func (s *SiteServer) handleGetAlbums(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}

	req, verrs := s.parseListingRequest(r.URL.Query())
	if len(verrs) > 0 {
		s.respondWithValidationError(w, r, verrs)
		return
	}

	cat, err := s.store.Current()
	if err != nil {
		s.respondWithError(w, r, http.StatusServiceUnavailable, render.LoadErrorMessage, err)
		return
	}

	visible := s.sorter.Apply(cat.Albums(), req.State)
	s.respondJSON(w, AlbumsResponse{
		CountText: render.CountMessage(len(visible), cat.Len()),
		Total:     cat.Len(),
		Visible:   len(visible),
		Query:     req.State.SearchQuery,
		Genre:     req.State.SelectedGenre,
		Sort:      string(req.State.SortKey),
		Albums:    visible,
		Genres:    cat.Genres(),
	})
}

// handleGetGenres returns the genre index
func (s *SiteServer) handleGetGenres(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}

	cat, err := s.store.Current()
	if err != nil {
		s.respondWithError(w, r, http.StatusServiceUnavailable, render.LoadErrorMessage, err)
		return
	}

	s.respondJSON(w, map[string][]string{"genres": cat.Genres()})
}
