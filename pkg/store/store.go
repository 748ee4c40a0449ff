// Package store persists template records keyed by organization and
// template id.
//
// The template config travels through this package as an opaque JSON
// document ([Record.Config] is a json.RawMessage): the store never decodes
// and re-encodes it on the save path, so the bytes a client hands in are
// the bytes a later load returns. That guarantee matters beyond fidelity:
// asset garbage collection matches embedded image URLs by exact string
// (see assets.go), so reformatting a config would orphan its assets.
//
// Two backends implement [Store]:
//   - memory: for development and tests
//   - mongo: for production deployments
//
// Wrap a backend in a [Manager] to get save/delete with asset
// reference-count bookkeeping.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cardpress/cardpress/pkg/errors"
)

// Record is one persisted template.
type Record struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"orgId"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Config    json.RawMessage `json:"config"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ErrNotFound is returned when a template does not exist. It carries
// ErrCodeTemplateNotFound for the HTTP layer's status mapping.
var ErrNotFound = errors.New(errors.ErrCodeTemplateNotFound, "template not found")

// Store is the persistence backend interface.
type Store interface {
	// Save inserts or updates a record. An empty ID means insert; the
	// stored record (with assigned id and timestamps) is returned.
	Save(ctx context.Context, rec Record) (Record, error)

	// Get retrieves one template. Returns ErrNotFound if absent.
	Get(ctx context.Context, orgID, id string) (Record, error)

	// List returns all templates of an organization, newest first.
	List(ctx context.Context, orgID string) ([]Record, error)

	// Delete removes a template. Returns ErrNotFound if absent.
	Delete(ctx context.Context, orgID, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
