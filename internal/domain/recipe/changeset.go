package recipe

// FieldChange pairs the current value of a field with the suggested one
type FieldChange struct {
	Current   interface{} `json:"current"`
	Suggested interface{} `json:"suggested"`
}

// ChangeSet is the diff between a recipe record and a classification,
// restricted to fields that are currently empty. Image suggestions are kept
// separate because applying them is a page-content add, not a property
// update.
type ChangeSet struct {
	Fields map[string]FieldChange `json:"fields"`
	Image  *ImageCandidate        `json:"image,omitempty"`
}

// Empty reports whether the change set suggests nothing at all
func (cs *ChangeSet) Empty() bool {
	return len(cs.Fields) == 0 && cs.Image == nil
}

// SuggestionCount returns the number of suggested field changes, counting
// an image suggestion as one
func (cs *ChangeSet) SuggestionCount() int {
	n := len(cs.Fields)
	if cs.Image != nil {
		n++
	}
	return n
}

// BuildChangeSet compares a recipe against a classification and an optional
// extracted page. A field appears only when it is currently empty and the
// classifier produced a non-empty suggestion; a field already holding data
// is never touched. The first extracted image, if any, becomes the image
// suggestion.
func BuildChangeSet(r *Recipe, c *Classification, page *ExtractedPage) *ChangeSet {
	cs := &ChangeSet{Fields: make(map[string]FieldChange)}
	if c != nil {
		if r.Title == "" && c.Title != "" {
			cs.Fields[FieldTitle] = FieldChange{Current: "", Suggested: c.Title}
		}
		if !r.HasMeal() && c.Meal != "" {
			cs.Fields[FieldMeal] = FieldChange{Current: "", Suggested: c.Meal}
		}
		if !r.HasCuisine() && c.Cuisine != "" {
			cs.Fields[FieldCuisine] = FieldChange{Current: "", Suggested: c.Cuisine}
		}
		if !r.HasTags() && len(c.Tags) > 0 {
			cs.Fields[FieldTags] = FieldChange{Current: []string{}, Suggested: c.Tags}
		}
		if !r.HasKeyIngredients() && len(c.KeyIngredients) > 0 {
			cs.Fields[FieldKeyIngredients] = FieldChange{Current: []string{}, Suggested: c.KeyIngredients}
		}
	}
	if page != nil && len(page.Images) > 0 {
		img := page.Images[0]
		cs.Image = &img
	}
	return cs
}
