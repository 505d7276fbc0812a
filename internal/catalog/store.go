package catalog

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNotLoaded is returned by Store.Current before any load was attempted
var ErrNotLoaded = errors.New("catalog not loaded")

// Store holds the catalog currently served to new page views. Each view reads
// one immutable *Catalog, so a reload never changes a listing mid-request.
type Store struct {
	current atomic.Pointer[Catalog]

	mutex   sync.RWMutex
	lastErr error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{lastErr: ErrNotLoaded}
}

// Publish makes cat the current catalog and clears any recorded failure
func (s *Store) Publish(cat *Catalog) {
	s.current.Store(cat)

	s.mutex.Lock()
	s.lastErr = nil
	s.mutex.Unlock()
}

// Fail records a load failure. A previously published catalog stays current.
func (s *Store) Fail(err error) {
	s.mutex.Lock()
	s.lastErr = err
	s.mutex.Unlock()
}

// Current returns the catalog to use for a new view, or the load error when
// no catalog was ever published.
func (s *Store) Current() (*Catalog, error) {
	if cat := s.current.Load(); cat != nil {
		return cat, nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return nil, s.lastErr
}

// LastError returns the most recent load failure, nil after a successful load
func (s *Store) LastError() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastErr
}
