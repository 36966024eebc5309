// Package repository persists trained model artifacts keyed by route id.
package repository

import (
	"context"
	"encoding/json"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// Artifact is the opaque fitted-model blob plus the engine that can decode
// it. The repository never interprets the payload.
type Artifact struct {
	Engine string          `json:"engine"`
	Model  json.RawMessage `json:"model"`
}

// Store provides durable route_id -> (model, metadata) persistence.
type Store interface {
	// Save writes the model artifact first, then the metadata. Retraining a
	// route overwrites both.
	Save(ctx context.Context, routeID string, art Artifact, meta types.Metadata) error

	// Load returns both artifacts. A missing model or metadata file yields
	// ErrNotFound; callers translate that into "model unavailable".
	Load(ctx context.Context, routeID string) (Artifact, types.Metadata, error)

	// ListRoutes returns the route ids with a persisted model, sorted.
	// The naming scheme keeps this index-free.
	ListRoutes(ctx context.Context) ([]string, error)
}
