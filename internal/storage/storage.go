// Package storage declares the persistent object store contract consumed by
// asset executors. Every executor persists its output here, and the URL it
// reports back in an AssetResult is derived from the store.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no object exists under the requested id.
var ErrNotFound = errors.New("asset not found")

// Object kind tags carried by Metadata.Kind.
const (
	KindImage    = "image"
	KindAudio    = "audio"
	KindCutscene = "cutscene"
)

// Metadata describes one stored object.
type Metadata struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"` // "image", "audio" or "cutscene"
	ContentType string            `json:"content_type,omitempty"`
	Duration    float64           `json:"duration,omitempty"` // seconds, audio only
	Extra       map[string]string `json:"extra,omitempty"`
}

// AssetStorage is the persistent object store for generated binaries and
// JSON documents. Implementations must be safe for concurrent use.
type AssetStorage interface {
	// Store persists raw bytes under meta.ID and returns the object's URL.
	Store(ctx context.Context, data []byte, meta Metadata) (string, error)

	// StoreJSON persists the JSON encoding of v under meta.ID and returns
	// the object's URL.
	StoreJSON(ctx context.Context, v any, meta Metadata) (string, error)

	// GetURL returns the URL of a stored object.
	GetURL(ctx context.Context, id string) (string, error)

	// Exists reports whether an object is stored under id.
	Exists(ctx context.Context, id string) bool

	// Retrieve returns the raw bytes and metadata of a stored object.
	Retrieve(ctx context.Context, id string) ([]byte, Metadata, error)

	// Delete removes a stored object. Deleting a missing id is an error.
	Delete(ctx context.Context, id string) error

	// List returns metadata for every stored object.
	List(ctx context.Context) ([]Metadata, error)

	// GetMetadata returns the metadata of a stored object.
	GetMetadata(ctx context.Context, id string) (Metadata, error)

	// GetDuration returns the duration in seconds recorded for a stored
	// object, or 0 if none was recorded.
	GetDuration(ctx context.Context, id string) (float64, error)
}
