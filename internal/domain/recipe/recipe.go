// Package recipe defines the plain data shapes the enrichment pipeline
// moves between its stages: the recipe record read from the record store,
// the page data scraped from a source URL, the classifier output, and the
// suggested change set returned to callers.
package recipe

import "time"

// Field names used in change sets and update payloads
const (
	FieldTitle          = "title"
	FieldMeal           = "meal"
	FieldCuisine        = "cuisine"
	FieldTags           = "tags"
	FieldKeyIngredients = "keyIngredients"
	FieldSelectedImage  = "selectedImage"
)

// Recipe is the record-store view of a recipe. Classification fields are
// independently empty; an empty field is the only thing the pipeline is
// allowed to suggest a value for.
type Recipe struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl,omitempty"`

	Meal           string   `json:"meal,omitempty"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	KeyIngredients []string `json:"keyIngredients,omitempty"`
}

// HasMeal reports whether the meal field already holds data
func (r *Recipe) HasMeal() bool { return r.Meal != "" }

// HasCuisine reports whether the cuisine field already holds data
func (r *Recipe) HasCuisine() bool { return r.Cuisine != "" }

// HasTags reports whether the tags field already holds data
func (r *Recipe) HasTags() bool { return len(r.Tags) > 0 }

// HasKeyIngredients reports whether the key-ingredients field already holds data
func (r *Recipe) HasKeyIngredients() bool { return len(r.KeyIngredients) > 0 }

// NeedsEnrichment reports whether any classification field is still empty
func (r *Recipe) NeedsEnrichment() bool {
	return !r.HasMeal() || !r.HasCuisine() || !r.HasTags() || !r.HasKeyIngredients()
}

// ImageSource records how an image candidate was found on the page
type ImageSource string

const (
	ImageSourcePriority ImageSource = "priority"
	ImageSourceGeneral  ImageSource = "general"
)

// ImageCandidate is one image found on a source page
type ImageCandidate struct {
	URL    string      `json:"url"`
	Alt    string      `json:"alt,omitempty"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Source ImageSource `json:"source"`
}

// Area returns the pixel area when both dimensions are known, else zero
func (i ImageCandidate) Area() int {
	if i.Width > 0 && i.Height > 0 {
		return i.Width * i.Height
	}
	return 0
}

// ExtractedPage holds the metadata scraped from one fetch of one source
// page. It lives for a single enrichment pass, cached by URL at most.
type ExtractedPage struct {
	Title        string           `json:"title,omitempty"`
	Ingredients  []string         `json:"ingredients,omitempty"`
	Instructions []string         `json:"instructions,omitempty"`
	Description  string           `json:"description,omitempty"`
	Images       []ImageCandidate `json:"images,omitempty"`
	FetchedAt    time.Time        `json:"fetchedAt"`
}

// ClassificationSource records which classifier produced a result
type ClassificationSource string

const (
	SourceAI       ClassificationSource = "ai"
	SourceFallback ClassificationSource = "fallback"
)

// Classification is the output of either classifier. Empty strings and nil
// slices mean "no suggestion" for that field. After validation every
// non-empty categorical value is a member of its vocabulary axis.
type Classification struct {
	Title          string   `json:"title,omitempty"`
	Meal           string   `json:"meal,omitempty"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	KeyIngredients []string `json:"keyIngredients,omitempty"`

	Confidence float64              `json:"confidence"`
	Reasoning  string               `json:"reasoning,omitempty"`
	Source     ClassificationSource `json:"source"`
}
