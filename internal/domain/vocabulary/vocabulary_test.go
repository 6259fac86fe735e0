package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		axis  Axis
		value string
		want  bool
	}{
		{"exact meal", AxisMeal, "Breakfast", true},
		{"lowercase meal", AxisMeal, "breakfast", true},
		{"uppercase cuisine", AxisCuisine, "ITALIAN", true},
		{"padded value", AxisTag, "  spicy  ", true},
		{"unknown meal", AxisMeal, "Brunch", false},
		{"unknown cuisine", AxisCuisine, "Martian", false},
		{"empty value", AxisIngredient, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.axis, tt.value))
		})
	}
}

func TestCanonicalRestoresCasing(t *testing.T) {
	got, ok := Canonical(AxisTag, "gluten-free")
	assert.True(t, ok)
	assert.Equal(t, "Gluten-Free", got)

	got, ok = Canonical(AxisIngredient, "CHICKEN")
	assert.True(t, ok)
	assert.Equal(t, "Chicken", got)

	_, ok = Canonical(AxisMeal, "second breakfast")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "Main Dish", Default(AxisMeal))
	assert.Equal(t, "American", Default(AxisCuisine))
	assert.Empty(t, Default(AxisTag))
	assert.Empty(t, Default(AxisIngredient))
}

func TestFilterMembers(t *testing.T) {
	got := FilterMembers(AxisTag, []string{"spicy", "Unknown Tag", "SWEET", "spicy", "Vegan"})
	assert.Equal(t, []string{"Spicy", "Sweet", "Vegan"}, got)
}

func TestFilterMembersEmptyInput(t *testing.T) {
	assert.Nil(t, FilterMembers(AxisIngredient, nil))
	assert.Nil(t, FilterMembers(AxisIngredient, []string{"unobtainium"}))
}

func TestDefaultsAreMembers(t *testing.T) {
	assert.True(t, Contains(AxisMeal, DefaultMeal))
	assert.True(t, Contains(AxisCuisine, DefaultCuisine))
}
