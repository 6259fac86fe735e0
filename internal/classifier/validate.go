package classifier

import (
	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/domain/vocabulary"
)

// Reconcile validates a classification against the vocabulary registry and
// the recipe's existing data, regardless of which classifier produced it.
// Fields the recipe already holds are forced empty: existing data is
// authoritative and no suggestion may overwrite it. Out-of-registry values
// are replaced with the axis default (single-valued fields) or silently
// dropped (set-valued fields). The result is mutated in place and returned.
func Reconcile(r *recipe.Recipe, c *recipe.Classification) *recipe.Classification {
	if c == nil {
		return nil
	}

	if r.HasMeal() {
		c.Meal = ""
	} else if c.Meal != "" {
		if canonical, ok := vocabulary.Canonical(vocabulary.AxisMeal, c.Meal); ok {
			c.Meal = canonical
		} else {
			c.Meal = vocabulary.DefaultMeal
		}
	}

	if r.HasCuisine() {
		c.Cuisine = ""
	} else if c.Cuisine != "" {
		if canonical, ok := vocabulary.Canonical(vocabulary.AxisCuisine, c.Cuisine); ok {
			c.Cuisine = canonical
		} else {
			c.Cuisine = vocabulary.DefaultCuisine
		}
	}

	if r.HasTags() {
		c.Tags = nil
	} else {
		c.Tags = vocabulary.FilterMembers(vocabulary.AxisTag, c.Tags)
	}

	if r.HasKeyIngredients() {
		c.KeyIngredients = nil
	} else {
		c.KeyIngredients = vocabulary.FilterMembers(vocabulary.AxisIngredient, c.KeyIngredients)
	}

	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}

	return c
}
