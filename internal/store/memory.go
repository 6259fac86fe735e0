package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mealdex/enrich/internal/domain/recipe"
	pkgerrors "github.com/mealdex/enrich/pkg/errors"
)

// MemoryStore is an in-memory RecordStore used by tests and the demo
// endpoint. Recipes are stored by value so callers cannot mutate them
// behind the store's back.
type MemoryStore struct {
	recipes map[string]recipe.Recipe
	images  map[string][]string
	order   []string
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]recipe.Recipe),
		images:  make(map[string][]string),
	}
}

// Seed inserts or replaces recipes, assigning ids to recipes without one
func (s *MemoryStore) Seed(recipes ...*recipe.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recipes {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, exists := s.recipes[r.ID]; !exists {
			s.order = append(s.order, r.ID)
		}
		s.recipes[r.ID] = *r
	}
}

// QueryIncomplete returns up to limit recipes with any empty field, in
// insertion order
func (s *MemoryStore) QueryIncomplete(_ context.Context, limit int) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*recipe.Recipe
	for _, id := range s.order {
		r := s.recipes[id]
		if !r.NeedsEnrichment() {
			continue
		}
		copied := r
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Get fetches a recipe by id
func (s *MemoryStore) Get(_ context.Context, id string) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, pkgerrors.NewRecipeNotFoundError(id)
	}
	copied := r
	return &copied, nil
}

// UpdateFields applies a partial property set
func (s *MemoryStore) UpdateFields(_ context.Context, id string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return pkgerrors.NewRecipeNotFoundError(id)
	}

	for field, value := range updates {
		switch field {
		case recipe.FieldTitle:
			if v, ok := value.(string); ok {
				r.Title = v
			}
		case recipe.FieldMeal:
			if v, ok := value.(string); ok {
				r.Meal = v
			}
		case recipe.FieldCuisine:
			if v, ok := value.(string); ok {
				r.Cuisine = v
			}
		case recipe.FieldTags:
			r.Tags = toStrings(value)
		case recipe.FieldKeyIngredients:
			r.KeyIngredients = toStrings(value)
		}
	}

	s.recipes[id] = r
	return nil
}

// AppendImage records an image attachment for the recipe
func (s *MemoryStore) AppendImage(_ context.Context, id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return pkgerrors.NewRecipeNotFoundError(id)
	}
	s.images[id] = append(s.images[id], imageURL)
	return nil
}

// DeleteImage removes the first matching image attachment
func (s *MemoryStore) DeleteImage(_ context.Context, id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return pkgerrors.NewRecipeNotFoundError(id)
	}
	for i, url := range s.images[id] {
		if url == imageURL {
			s.images[id] = append(s.images[id][:i], s.images[id][i+1:]...)
			return nil
		}
	}
	return pkgerrors.NewValidationError("no image matches the given URL")
}

// Images returns the image URLs attached to a recipe
func (s *MemoryStore) Images(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.images[id]...)
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
