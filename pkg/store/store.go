// Package store provides snapshot persistence for analysis runs.
//
// A snapshot records one pipeline run: when it ran, what it scanned,
// the headline counts, and the serialized matrix document. Three
// backends implement the Store interface:
//   - file: JSON files under the user's config directory, the CLI default
//   - memory: in-memory storage for tests
//   - mongo: MongoDB for shared deployments
//
// # Usage
//
//	st, err := store.NewFileStore("") // Uses ~/.config/pomgrid/snapshots/
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	snap := store.NewSnapshot(root, pattern)
//	snap.Files = len(result.Parsed)
//	snap.Matrix = data
//	if err := st.Save(ctx, snap); err != nil {
//	    return err
//	}
//
// List returns summaries only: the Matrix payload is stripped so a
// long history stays cheap to display. Get returns the full snapshot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot records the outcome of one analysis run.
type Snapshot struct {
	ID        string          `json:"id" bson:"id"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	Root      string          `json:"root" bson:"root"`
	Pattern   string          `json:"pattern" bson:"pattern"`
	Files     int             `json:"files" bson:"files"`
	Failed    int             `json:"failed" bson:"failed"`
	Issues    int             `json:"issues" bson:"issues"`
	Groups    int             `json:"groups" bson:"groups"`
	Matrix    json.RawMessage `json:"matrix,omitempty" bson:"matrix,omitempty"`
}

// NewSnapshot creates a snapshot with a fresh ID and timestamp.
// Counts and the matrix payload are filled in by the caller.
func NewSnapshot(root, pattern string) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Root:      root,
		Pattern:   pattern,
	}
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save persists a snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// List returns snapshot summaries, newest first, without the
	// Matrix payload. A limit <= 0 returns all snapshots.
	List(ctx context.Context, limit int) ([]*Snapshot, error)

	// Get retrieves a full snapshot by ID.
	// Returns ErrNotFound if the snapshot doesn't exist.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
