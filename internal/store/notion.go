package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/domain/recipe"
	pkgerrors "github.com/mealdex/enrich/pkg/errors"
)

const notionVersion = "2022-06-28"

// Property names in the recipe database
const (
	propTitle          = "Name"
	propSource         = "Source"
	propMeal           = "Meal"
	propCuisine        = "Cuisine"
	propTags           = "Tags"
	propKeyIngredients = "Key Ingredients"
)

// NotionConfig holds record-store connection settings
type NotionConfig struct {
	BaseURL    string
	APIKey     string
	DatabaseID string
	Timeout    time.Duration
	PageSize   int
}

// NotionStore implements RecordStore against the Notion API
type NotionStore struct {
	config NotionConfig
	client *http.Client
	logger *zap.Logger
}

// NewNotionStore creates a record-store client. The API key and database
// id are required; without them the service refuses to start.
func NewNotionStore(cfg NotionConfig, logger *zap.Logger) (*NotionStore, error) {
	if cfg.APIKey == "" {
		return nil, pkgerrors.NewConfigurationError("record store API key is not configured")
	}
	if cfg.DatabaseID == "" {
		return nil, pkgerrors.NewConfigurationError("record store database id is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.notion.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}

	return &NotionStore{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("notion-store"),
	}, nil
}

// QueryIncomplete queries for recipes where any classification field is
// empty, using an OR of per-field emptiness predicates
func (s *NotionStore) QueryIncomplete(ctx context.Context, limit int) ([]*recipe.Recipe, error) {
	if limit <= 0 || limit > s.config.PageSize {
		limit = s.config.PageSize
	}

	filter := map[string]interface{}{
		"filter": map[string]interface{}{
			"or": []map[string]interface{}{
				{"property": propMeal, "select": map[string]bool{"is_empty": true}},
				{"property": propCuisine, "select": map[string]bool{"is_empty": true}},
				{"property": propTags, "multi_select": map[string]bool{"is_empty": true}},
				{"property": propKeyIngredients, "multi_select": map[string]bool{"is_empty": true}},
			},
		},
		"page_size": limit,
	}

	var result struct {
		Results []notionPage `json:"results"`
	}
	path := fmt.Sprintf("/databases/%s/query", s.config.DatabaseID)
	if err := s.do(ctx, http.MethodPost, path, filter, &result); err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, 0, len(result.Results))
	for i := range result.Results {
		recipes = append(recipes, result.Results[i].toRecipe())
	}
	return recipes, nil
}

// Get fetches a single recipe page by id
func (s *NotionStore) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	var page notionPage
	if err := s.do(ctx, http.MethodGet, "/pages/"+id, nil, &page); err != nil {
		return nil, err
	}
	if page.ID == "" {
		return nil, pkgerrors.NewRecipeNotFoundError(id)
	}
	return page.toRecipe(), nil
}

// UpdateFields applies a partial property set to a recipe page
func (s *NotionStore) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	properties := make(map[string]interface{})
	for field, value := range updates {
		switch field {
		case recipe.FieldTitle:
			properties[propTitle] = map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": toString(value)}},
				},
			}
		case recipe.FieldMeal:
			properties[propMeal] = selectValue(toString(value))
		case recipe.FieldCuisine:
			properties[propCuisine] = selectValue(toString(value))
		case recipe.FieldTags:
			properties[propTags] = multiSelectValue(toStrings(value))
		case recipe.FieldKeyIngredients:
			properties[propKeyIngredients] = multiSelectValue(toStrings(value))
		}
	}
	if len(properties) == 0 {
		return nil
	}

	body := map[string]interface{}{"properties": properties}
	return s.do(ctx, http.MethodPatch, "/pages/"+id, body, nil)
}

// AppendImage adds an external image block to the recipe page
func (s *NotionStore) AppendImage(ctx context.Context, id, imageURL string) error {
	body := map[string]interface{}{
		"children": []map[string]interface{}{
			{
				"object": "block",
				"type":   "image",
				"image": map[string]interface{}{
					"type":     "external",
					"external": map[string]string{"url": imageURL},
				},
			},
		},
	}
	return s.do(ctx, http.MethodPatch, "/blocks/"+id+"/children", body, nil)
}

// DeleteImage archives the first image block on the recipe page whose
// external URL matches. A URL with no matching block is a not-found error
// so callers can tell a bad URL from a successful removal.
func (s *NotionStore) DeleteImage(ctx context.Context, id, imageURL string) error {
	var children struct {
		Results []struct {
			ID    string `json:"id"`
			Type  string `json:"type"`
			Image struct {
				External struct {
					URL string `json:"url"`
				} `json:"external"`
			} `json:"image"`
		} `json:"results"`
	}
	if err := s.do(ctx, http.MethodGet, "/blocks/"+id+"/children", nil, &children); err != nil {
		return err
	}

	for _, block := range children.Results {
		if block.Type == "image" && block.Image.External.URL == imageURL {
			return s.do(ctx, http.MethodDelete, "/blocks/"+block.ID, nil, nil)
		}
	}
	return pkgerrors.NewValidationError("no image block matches the given URL")
}

// Ping verifies connectivity and credentials by retrieving the database
func (s *NotionStore) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/databases/"+s.config.DatabaseID, nil, nil)
}

// do executes one API call and decodes the response into out when non-nil
func (s *NotionStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Notion-Version", notionVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return pkgerrors.NewExternalServiceError("record store", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.NewExternalServiceError("record store", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("record store call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return pkgerrors.NewExternalServiceError("record store",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.NewExternalServiceError("record store", err)
		}
	}
	return nil
}

// notionPage mirrors the subset of the page object the pipeline reads
type notionPage struct {
	ID         string `json:"id"`
	Properties struct {
		Name struct {
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
		} `json:"Name"`
		Source struct {
			URL string `json:"url"`
		} `json:"Source"`
		Meal struct {
			Select *selectOption `json:"select"`
		} `json:"Meal"`
		Cuisine struct {
			Select *selectOption `json:"select"`
		} `json:"Cuisine"`
		Tags struct {
			MultiSelect []selectOption `json:"multi_select"`
		} `json:"Tags"`
		KeyIngredients struct {
			MultiSelect []selectOption `json:"multi_select"`
		} `json:"Key Ingredients"`
	} `json:"properties"`
}

type selectOption struct {
	Name string `json:"name"`
}

func (p *notionPage) toRecipe() *recipe.Recipe {
	r := &recipe.Recipe{
		ID:        p.ID,
		SourceURL: p.Properties.Source.URL,
	}
	if len(p.Properties.Name.Title) > 0 {
		r.Title = p.Properties.Name.Title[0].PlainText
	}
	if p.Properties.Meal.Select != nil {
		r.Meal = p.Properties.Meal.Select.Name
	}
	if p.Properties.Cuisine.Select != nil {
		r.Cuisine = p.Properties.Cuisine.Select.Name
	}
	for _, opt := range p.Properties.Tags.MultiSelect {
		r.Tags = append(r.Tags, opt.Name)
	}
	for _, opt := range p.Properties.KeyIngredients.MultiSelect {
		r.KeyIngredients = append(r.KeyIngredients, opt.Name)
	}
	return r
}

func selectValue(name string) map[string]interface{} {
	return map[string]interface{}{"select": map[string]string{"name": name}}
}

func multiSelectValue(names []string) map[string]interface{} {
	options := make([]map[string]string, 0, len(names))
	for _, n := range names {
		options = append(options, map[string]string{"name": n})
	}
	return map[string]interface{}{"multi_select": options}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toStrings(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
