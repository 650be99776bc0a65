// Package store holds the loaded collection for a page session.
package store

import (
	"sync"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

// Result is a loaded collection together with its freshness descriptor.
type Result struct {
	Items    []content.Item
	Metadata content.SyncMetadata
}

// Store is a single-slot cache guarded by a mutex. Writers obtain a
// generation with Begin before loading; Replace ignores results whose
// generation is older than the one already applied, so the most recently
// started load wins even when an older one completes after it.
type Store struct {
	mu      sync.RWMutex
	next    uint64
	applied uint64
	loaded  bool
	items   []content.Item
	meta    content.SyncMetadata
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Begin reserves the generation for a new load.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Replace stores result under generation and reports whether it was applied.
// Items are kept sorted by date, newest first.
func (s *Store) Replace(generation uint64, result Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && generation < s.applied {
		return false
	}
	s.applied = generation
	s.items = content.SortByDate(result.Items)
	s.meta = result.Metadata
	s.loaded = true
	return true
}

// Loaded reports whether any result has been applied.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Generation returns the generation of the applied result.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

// Items returns the published items, newest first.
func (s *Store) Items() []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return content.PublishedOnly(s.items)
}

// All returns every stored item including unpublished ones.
func (s *Store) All() []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the item with slug, published or not.
func (s *Store) Find(slug string) *content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return content.FindBySlug(s.items, slug)
}

// Metadata returns the freshness descriptor of the applied result.
func (s *Store) Metadata() content.SyncMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Result returns a copy of the applied result.
func (s *Store) Result() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Result{}, false
	}
	items := make([]content.Item, len(s.items))
	copy(items, s.items)
	return Result{Items: items, Metadata: s.meta}, true
}
