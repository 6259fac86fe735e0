// Package vocabulary holds the closed sets of allowed values for the four
// classification axes. Classifier output is validated against these sets;
// anything outside them is coerced or dropped.
package vocabulary

import "strings"

// Axis identifies one classification axis
type Axis string

const (
	AxisMeal       Axis = "meal"
	AxisCuisine    Axis = "cuisine"
	AxisTag        Axis = "tag"
	AxisIngredient Axis = "ingredient"
)

// Defaults substituted when a single-valued suggestion falls outside its axis
const (
	DefaultMeal    = "Main Dish"
	DefaultCuisine = "American"
)

// Meals is the closed set of meal types
var Meals = []string{
	"Breakfast",
	"Main Dish",
	"Side Dish",
	"Appetizer",
	"Dessert",
	"Snack",
	"Beverage",
}

// Cuisines is the closed set of cuisines
var Cuisines = []string{
	"American",
	"Italian",
	"Mexican",
	"Chinese",
	"Japanese",
	"Korean",
	"Thai",
	"Vietnamese",
	"Indian",
	"French",
	"Greek",
	"Spanish",
	"Mediterranean",
	"Middle Eastern",
	"Caribbean",
	"Cajun",
	"German",
	"British",
}

// Tags is the closed set of recipe tags: cooking methods, dish types,
// flavors, dietary labels, and occasions
var Tags = []string{
	"Baked",
	"Grilled",
	"Roasted",
	"Stir-Fry",
	"Steamed",
	"Braised",
	"Fried",
	"Slow Cooker",
	"No-Cook",
	"Salad",
	"Soup",
	"Sandwich",
	"Pasta",
	"Curry",
	"Casserole",
	"Stew",
	"Pizza",
	"Tacos",
	"Spicy",
	"Sweet",
	"Creamy",
	"Savory",
	"Tangy",
	"Vegan",
	"Vegetarian",
	"Gluten-Free",
	"Dairy-Free",
	"Low-Carb",
	"Healthy",
	"Quick & Easy",
	"Comfort Food",
	"Holiday",
	"Party",
}

// Ingredients is the closed set of key ingredients
var Ingredients = []string{
	"Chicken",
	"Beef",
	"Pork",
	"Lamb",
	"Turkey",
	"Bacon",
	"Sausage",
	"Ham",
	"Salmon",
	"Shrimp",
	"Tuna",
	"Fish",
	"Tofu",
	"Eggs",
	"Cheese",
	"Rice",
	"Pasta",
	"Noodles",
	"Potatoes",
	"Beans",
	"Lentils",
	"Chickpeas",
	"Mushrooms",
	"Tomatoes",
	"Spinach",
	"Broccoli",
	"Cauliflower",
	"Corn",
	"Avocado",
	"Garlic",
	"Onion",
}

var byAxis = map[Axis][]string{
	AxisMeal:       Meals,
	AxisCuisine:    Cuisines,
	AxisTag:        Tags,
	AxisIngredient: Ingredients,
}

var lookup = buildLookup()

func buildLookup() map[Axis]map[string]string {
	m := make(map[Axis]map[string]string, len(byAxis))
	for axis, values := range byAxis {
		m[axis] = make(map[string]string, len(values))
		for _, v := range values {
			m[axis][strings.ToLower(v)] = v
		}
	}
	return m
}

// Values returns the allowed values for an axis
func Values(axis Axis) []string {
	return byAxis[axis]
}

// Contains reports whether value is a member of the axis, ignoring case
func Contains(axis Axis, value string) bool {
	_, ok := lookup[axis][strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// Canonical resolves value to its canonical casing within the axis.
// The second return is false when the value is not a member.
func Canonical(axis Axis, value string) (string, bool) {
	v, ok := lookup[axis][strings.ToLower(strings.TrimSpace(value))]
	return v, ok
}

// Default returns the substitution value for a single-valued axis, or the
// empty string for set-valued axes where unknown values are dropped instead
func Default(axis Axis) string {
	switch axis {
	case AxisMeal:
		return DefaultMeal
	case AxisCuisine:
		return DefaultCuisine
	default:
		return ""
	}
}

// FilterMembers returns the subset of values that belong to the axis, in
// canonical casing, preserving order and dropping duplicates
func FilterMembers(axis Axis, values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		canonical, ok := Canonical(axis, v)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}
