package classifier

import (
	"fmt"
	"strings"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/domain/vocabulary"
)

const maxPromptIngredients = 15

const systemPrompt = `You are a culinary classification assistant. You classify recipes into a fixed taxonomy.

CRITICAL: Respond with ONLY a valid JSON object in this exact format:
{
  "title": "Standardized Recipe Title",
  "meal": "one value from MEAL TYPES or null",
  "cuisine": "one value from CUISINES or null",
  "tags": ["values from TAGS"],
  "keyIngredients": ["values from KEY INGREDIENTS"],
  "confidence": 0.9,
  "reasoning": "one short sentence"
}

Rules:
- Suggest values ONLY for fields listed as currently empty. Use null (or an empty array) for every other field.
- Choose values STRICTLY from the provided vocabularies. Never invent values.
- Suggest at most 4 tags and at most 5 key ingredients.
- Respond with ONLY valid JSON. No additional text, explanations, or formatting.`

// buildUserPrompt embeds the recipe identity, the current field values, any
// extracted page context, and the full vocabulary for each axis
func buildUserPrompt(r *recipe.Recipe, page *recipe.ExtractedPage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Classify this recipe: %s\n", r.Title)
	if r.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", r.SourceURL)
	}

	b.WriteString("\nCurrent field values (never suggest for non-empty fields):\n")
	writeField(&b, "meal", r.Meal, r.HasMeal())
	writeField(&b, "cuisine", r.Cuisine, r.HasCuisine())
	writeField(&b, "tags", strings.Join(r.Tags, ", "), r.HasTags())
	writeField(&b, "keyIngredients", strings.Join(r.KeyIngredients, ", "), r.HasKeyIngredients())

	if page != nil {
		b.WriteString("\nContext scraped from the source page:\n")
		if page.Title != "" {
			fmt.Fprintf(&b, "- page title: %s\n", page.Title)
		}
		if page.Description != "" {
			fmt.Fprintf(&b, "- description: %s\n", page.Description)
		}
		if len(page.Ingredients) > 0 {
			ingredients := page.Ingredients
			if len(ingredients) > maxPromptIngredients {
				ingredients = ingredients[:maxPromptIngredients]
			}
			fmt.Fprintf(&b, "- ingredients: %s\n", strings.Join(ingredients, "; "))
		}
	}

	b.WriteString("\nMEAL TYPES: " + strings.Join(vocabulary.Meals, ", "))
	b.WriteString("\nCUISINES: " + strings.Join(vocabulary.Cuisines, ", "))
	b.WriteString("\nTAGS: " + strings.Join(vocabulary.Tags, ", "))
	b.WriteString("\nKEY INGREDIENTS: " + strings.Join(vocabulary.Ingredients, ", "))

	return b.String()
}

func writeField(b *strings.Builder, name, value string, populated bool) {
	if populated {
		fmt.Fprintf(b, "- %s: %s\n", name, value)
	} else {
		fmt.Fprintf(b, "- %s: EMPTY (suggest a value)\n", name)
	}
}
