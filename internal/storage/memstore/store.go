// Package memstore provides an ephemeral, thread-safe, in-memory
// implementation of the storage.AssetStorage interface.
//
// It is created fresh per process and holds every generated asset in memory,
// which suits local development, tests, and the single-batch scheduler this
// module ships with. A deployment that must survive restarts would swap in an
// implementation backed by a real object store.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/scenepipe/internal/storage"
)

// entry is one stored object.
type entry struct {
	data []byte
	meta storage.Metadata
	url  string
}

// Store is an in-memory storage.AssetStorage. The object map is guarded by a
// RWMutex: executors write sequentially, but a polling UI may read while a
// batch is in flight.
type Store struct {
	mu      sync.RWMutex
	objects map[string]*entry
}

// New creates a new, empty in-memory asset store.
func New() *Store {
	return &Store{objects: make(map[string]*entry)}
}

// Store persists raw bytes under meta.ID and returns the object's URL.
func (s *Store) Store(ctx context.Context, data []byte, meta storage.Metadata) (string, error) {
	if meta.ID == "" {
		return "", fmt.Errorf("store: metadata is missing an id")
	}

	// The object key is random so that re-generating an asset under the
	// same id yields a fresh URL, the way a content-addressed bucket would.
	url := fmt.Sprintf("memory://assets/%s/%s", meta.Kind, uuid.NewString())

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[meta.ID] = &entry{data: buf, meta: meta, url: url}
	return url, nil
}

// StoreJSON persists the JSON encoding of v under meta.ID.
func (s *Store) StoreJSON(ctx context.Context, v any, meta storage.Metadata) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("store: failed to encode JSON object: %w", err)
	}
	if meta.ContentType == "" {
		meta.ContentType = "application/json"
	}
	return s.Store(ctx, data, meta)
}

// GetURL returns the URL of a stored object.
func (s *Store) GetURL(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[id]
	if !ok {
		return "", fmt.Errorf("get url for '%s': %w", id, storage.ErrNotFound)
	}
	return e.url, nil
}

// Exists reports whether an object is stored under id.
func (s *Store) Exists(ctx context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[id]
	return ok
}

// Retrieve returns the raw bytes and metadata of a stored object.
func (s *Store) Retrieve(ctx context.Context, id string) ([]byte, storage.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[id]
	if !ok {
		return nil, storage.Metadata{}, fmt.Errorf("retrieve '%s': %w", id, storage.ErrNotFound)
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, e.meta, nil
}

// Delete removes a stored object.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("delete '%s': %w", id, storage.ErrNotFound)
	}
	delete(s.objects, id)
	return nil
}

// List returns metadata for every stored object, ordered by id.
func (s *Store) List(ctx context.Context) ([]storage.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Metadata, 0, len(s.objects))
	for _, e := range s.objects {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetMetadata returns the metadata of a stored object.
func (s *Store) GetMetadata(ctx context.Context, id string) (storage.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[id]
	if !ok {
		return storage.Metadata{}, fmt.Errorf("get metadata for '%s': %w", id, storage.ErrNotFound)
	}
	return e.meta, nil
}

// GetDuration returns the duration recorded for a stored object.
func (s *Store) GetDuration(ctx context.Context, id string) (float64, error) {
	meta, err := s.GetMetadata(ctx, id)
	if err != nil {
		return 0, err
	}
	return meta.Duration, nil
}
