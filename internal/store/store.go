// Package store adapts the external document-database service that hosts
// the recipe records. The pipeline treats it as a key-value record store
// with a query-by-empty-field capability; nothing here carries enrichment
// logic.
package store

import (
	"context"

	"github.com/mealdex/enrich/internal/domain/recipe"
)

// RecordStore is the outbound port to the recipe record store
type RecordStore interface {
	// QueryIncomplete returns up to limit recipes where at least one
	// classification field is empty
	QueryIncomplete(ctx context.Context, limit int) ([]*recipe.Recipe, error)

	// Get fetches a single recipe by id
	Get(ctx context.Context, id string) (*recipe.Recipe, error)

	// UpdateFields applies a partial property set to a recipe. Keys are
	// the recipe field names; values are strings or string slices.
	UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error

	// AppendImage adds an image block to the recipe page
	AppendImage(ctx context.Context, id, imageURL string) error

	// DeleteImage removes the image block matching the URL from the
	// recipe page
	DeleteImage(ctx context.Context, id, imageURL string) error

	// Ping verifies connectivity and credentials
	Ping(ctx context.Context) error
}
