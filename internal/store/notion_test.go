package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdex/enrich/internal/domain/recipe"
	pkgerrors "github.com/mealdex/enrich/pkg/errors"
	"github.com/mealdex/enrich/pkg/logger"
)

const queryResponse = `{
  "results": [
    {
      "id": "page-1",
      "properties": {
        "Name": {"title": [{"plain_text": "Spicy Chicken Curry"}]},
        "Source": {"url": "https://example.com/curry"},
        "Meal": {"select": {"name": "Main Dish"}},
        "Cuisine": {"select": null},
        "Tags": {"multi_select": []},
        "Key Ingredients": {"multi_select": [{"name": "Chicken"}, {"name": "Rice"}]}
      }
    }
  ]
}`

func newNotionTestStore(t *testing.T, handler http.Handler) *NotionStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewNotionStore(NotionConfig{
		BaseURL:    srv.URL,
		APIKey:     "secret",
		DatabaseID: "db-1",
	}, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewNotionStoreRequiresCredentials(t *testing.T) {
	_, err := NewNotionStore(NotionConfig{DatabaseID: "db-1"}, logger.NewNop())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConfigurationError, pkgerrors.GetCode(err))

	_, err = NewNotionStore(NotionConfig{APIKey: "secret"}, logger.NewNop())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConfigurationError, pkgerrors.GetCode(err))
}

func TestNotionQueryIncomplete(t *testing.T) {
	var captured map[string]interface{}
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(queryResponse))
	}))

	recipes, err := s.QueryIncomplete(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	got := recipes[0]
	assert.Equal(t, "page-1", got.ID)
	assert.Equal(t, "Spicy Chicken Curry", got.Title)
	assert.Equal(t, "https://example.com/curry", got.SourceURL)
	assert.Equal(t, "Main Dish", got.Meal)
	assert.Empty(t, got.Cuisine)
	assert.Empty(t, got.Tags)
	assert.Equal(t, []string{"Chicken", "Rice"}, got.KeyIngredients)

	assert.EqualValues(t, 5, captured["page_size"])
	filter := captured["filter"].(map[string]interface{})
	assert.Len(t, filter["or"], 4, "one emptiness predicate per classification field")
}

func TestNotionUpdateFields(t *testing.T) {
	var captured map[string]interface{}
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pages/page-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{}`))
	}))

	err := s.UpdateFields(context.Background(), "page-1", map[string]interface{}{
		recipe.FieldCuisine: "Indian",
		recipe.FieldTags:    []string{"Curry", "Spicy"},
	})
	require.NoError(t, err)

	props := captured["properties"].(map[string]interface{})
	cuisine := props["Cuisine"].(map[string]interface{})["select"].(map[string]interface{})
	assert.Equal(t, "Indian", cuisine["name"])

	tags := props["Tags"].(map[string]interface{})["multi_select"].([]interface{})
	assert.Len(t, tags, 2)
}

func TestNotionUpdateFieldsSkipsUnknownFields(t *testing.T) {
	called := false
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.Write([]byte(`{}`))
	}))

	err := s.UpdateFields(context.Background(), "page-1", map[string]interface{}{
		"unknownField": "value",
	})
	require.NoError(t, err)
	assert.False(t, called, "empty property sets never hit the API")
}

func TestNotionAppendImage(t *testing.T) {
	var captured map[string]interface{}
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/blocks/page-1/children", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, s.AppendImage(context.Background(), "page-1", "https://example.com/hero.jpg"))

	children := captured["children"].([]interface{})
	require.Len(t, children, 1)
	block := children[0].(map[string]interface{})
	assert.Equal(t, "image", block["type"])
	external := block["image"].(map[string]interface{})["external"].(map[string]interface{})
	assert.Equal(t, "https://example.com/hero.jpg", external["url"])
}

func TestNotionDeleteImage(t *testing.T) {
	var deleted string
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/blocks/page-1/children":
			w.Write([]byte(`{"results": [
				{"id": "block-1", "type": "paragraph"},
				{"id": "block-2", "type": "image", "image": {"external": {"url": "https://example.com/hero.jpg"}}}
			]}`))
		case r.Method == http.MethodDelete:
			deleted = r.URL.Path
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	require.NoError(t, s.DeleteImage(context.Background(), "page-1", "https://example.com/hero.jpg"))
	assert.Equal(t, "/blocks/block-2", deleted)

	err := s.DeleteImage(context.Background(), "page-1", "https://example.com/other.jpg")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidationFailed, pkgerrors.GetCode(err))
}

func TestNotionErrorStatus(t *testing.T) {
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"API token is invalid"}`))
	}))

	_, err := s.QueryIncomplete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeExternalServiceError, pkgerrors.GetCode(err))
}

func TestNotionPing(t *testing.T) {
	s := newNotionTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-1", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	assert.NoError(t, s.Ping(context.Background()))
}
