package store

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdex/enrich/internal/domain/recipe"
	pkgerrors "github.com/mealdex/enrich/pkg/errors"
)

func seedStore() *MemoryStore {
	s := NewMemoryStore()
	s.Seed(
		&recipe.Recipe{ID: "rec-1", Title: "Tacos"},
		&recipe.Recipe{
			ID: "rec-2", Title: "Complete Curry",
			Meal: "Main Dish", Cuisine: "Indian",
			Tags: []string{"Curry"}, KeyIngredients: []string{"Chicken"},
		},
		&recipe.Recipe{ID: "rec-3", Title: "Pancakes", Meal: "Breakfast"},
	)
	return s
}

func TestMemoryStoreQueryIncomplete(t *testing.T) {
	s := seedStore()

	out, err := s.QueryIncomplete(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 2, "fully classified recipes are excluded")
	assert.Equal(t, "rec-1", out[0].ID)
	assert.Equal(t, "rec-3", out[1].ID)

	limited, err := s.QueryIncomplete(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStoreGet(t *testing.T) {
	s := seedStore()

	r, err := s.Get(context.Background(), "rec-2")
	require.NoError(t, err)
	assert.Equal(t, "Complete Curry", r.Title)

	_, err = s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRecipeNotFound, pkgerrors.GetCode(err))
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := seedStore()

	r, err := s.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	r.Title = "Mutated"

	again, err := s.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Tacos", again.Title)
}

func TestMemoryStoreUpdateFields(t *testing.T) {
	s := seedStore()

	err := s.UpdateFields(context.Background(), "rec-1", map[string]interface{}{
		recipe.FieldMeal:    "Main Dish",
		recipe.FieldCuisine: "Mexican",
		recipe.FieldTags:    []string{"Tacos", "Spicy"},
	})
	require.NoError(t, err)

	r, err := s.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Main Dish", r.Meal)
	assert.Equal(t, "Mexican", r.Cuisine)
	assert.Equal(t, []string{"Tacos", "Spicy"}, r.Tags)
	assert.Equal(t, "Tacos", r.Title, "untouched fields are preserved")
}

func TestMemoryStoreQueryIncompleteBulk(t *testing.T) {
	gofakeit.Seed(11)
	s := NewMemoryStore()
	for i := 0; i < 50; i++ {
		s.Seed(&recipe.Recipe{ID: gofakeit.UUID(), Title: gofakeit.Dinner()})
	}

	out, err := s.QueryIncomplete(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, out, 20)

	all, err := s.QueryIncomplete(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 50, "zero limit returns everything")
}

func TestMemoryStoreAppendImage(t *testing.T) {
	s := seedStore()

	require.NoError(t, s.AppendImage(context.Background(), "rec-1", "https://e.com/a.jpg"))
	require.NoError(t, s.AppendImage(context.Background(), "rec-1", "https://e.com/b.jpg"))
	assert.Equal(t, []string{"https://e.com/a.jpg", "https://e.com/b.jpg"}, s.Images("rec-1"))

	err := s.AppendImage(context.Background(), "nope", "https://e.com/c.jpg")
	assert.Error(t, err)
}

func TestMemoryStoreDeleteImage(t *testing.T) {
	s := seedStore()

	require.NoError(t, s.AppendImage(context.Background(), "rec-1", "https://e.com/a.jpg"))
	require.NoError(t, s.AppendImage(context.Background(), "rec-1", "https://e.com/b.jpg"))

	require.NoError(t, s.DeleteImage(context.Background(), "rec-1", "https://e.com/a.jpg"))
	assert.Equal(t, []string{"https://e.com/b.jpg"}, s.Images("rec-1"))

	err := s.DeleteImage(context.Background(), "rec-1", "https://e.com/missing.jpg")
	assert.Error(t, err, "unknown URL is an error, not a no-op")
}
