package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChangeSetOnlyFillsEmptyFields(t *testing.T) {
	r := &Recipe{
		ID:      "rec-1",
		Title:   "Beef Stroganoff",
		Meal:    "Main Dish",
		Cuisine: "",
		Tags:    []string{"Creamy"},
	}
	c := &Classification{
		Title:          "Beef Stroganoff Deluxe",
		Meal:           "Dessert",
		Cuisine:        "American",
		Tags:           []string{"Comfort Food"},
		KeyIngredients: []string{"Beef", "Mushrooms"},
	}

	cs := BuildChangeSet(r, c, nil)

	// Populated fields never produce suggestions, even when the
	// classifier disagrees with the stored value
	assert.NotContains(t, cs.Fields, FieldTitle)
	assert.NotContains(t, cs.Fields, FieldMeal)
	assert.NotContains(t, cs.Fields, FieldTags)

	require.Contains(t, cs.Fields, FieldCuisine)
	assert.Equal(t, "American", cs.Fields[FieldCuisine].Suggested)
	require.Contains(t, cs.Fields, FieldKeyIngredients)
	assert.Equal(t, []string{"Beef", "Mushrooms"}, cs.Fields[FieldKeyIngredients].Suggested)
}

func TestBuildChangeSetEmptySuggestionsProduceNothing(t *testing.T) {
	r := &Recipe{ID: "rec-2"}
	c := &Classification{}

	cs := BuildChangeSet(r, c, nil)
	assert.True(t, cs.Empty())
	assert.Zero(t, cs.SuggestionCount())
}

func TestBuildChangeSetUsesFirstImage(t *testing.T) {
	page := &ExtractedPage{
		Images: []ImageCandidate{
			{URL: "https://example.com/hero.jpg", Source: ImageSourcePriority},
			{URL: "https://example.com/other.jpg", Source: ImageSourceGeneral},
		},
	}

	cs := BuildChangeSet(&Recipe{ID: "rec-3"}, nil, page)
	require.NotNil(t, cs.Image)
	assert.Equal(t, "https://example.com/hero.jpg", cs.Image.URL)
	assert.Equal(t, 1, cs.SuggestionCount())
}

func TestBuildChangeSetNilClassification(t *testing.T) {
	cs := BuildChangeSet(&Recipe{ID: "rec-4"}, nil, nil)
	assert.True(t, cs.Empty())
}

func TestSuggestionCountIncludesImage(t *testing.T) {
	cs := BuildChangeSet(
		&Recipe{ID: "rec-5"},
		&Classification{Meal: "Dessert", Cuisine: "French"},
		&ExtractedPage{Images: []ImageCandidate{{URL: "https://example.com/a.jpg"}}},
	)
	assert.Equal(t, 3, cs.SuggestionCount())
	assert.False(t, cs.Empty())
}
