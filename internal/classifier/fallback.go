package classifier

import (
	"strings"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/domain/vocabulary"
)

const (
	fallbackConfidence     = 0.7
	maxFallbackTags        = 4
	maxFallbackIngredients = 5
	maxScannedIngredients  = 10
)

// meal keyword groups, checked in order; no match means Main Dish
var mealKeywords = []struct {
	meal     string
	keywords []string
}{
	{"Breakfast", []string{"breakfast", "brunch", "pancake", "waffle", "omelet", "omelette", "oatmeal", "french toast", "granola", "scramble"}},
	{"Dessert", []string{"dessert", "cake", "cookie", "brownie", "pie", "pudding", "ice cream", "tart", "cheesecake", "fudge"}},
	{"Side Dish", []string{"salad", "slaw", "coleslaw", "side dish", "mashed potatoes", "dinner rolls"}},
	{"Beverage", []string{"smoothie", "juice", "latte", "cocktail", "lemonade", "milkshake", "iced tea", "punch"}},
	{"Snack", []string{"snack", "dip", "popcorn", "trail mix", "energy bites", "granola bars"}},
}

// cuisine keyword lists, checked in order; no match leaves cuisine empty
var cuisineKeywords = []struct {
	cuisine  string
	keywords []string
}{
	{"Italian", []string{"pasta", "pizza", "risotto", "lasagna", "spaghetti", "carbonara", "gnocchi", "parmesan", "pesto"}},
	{"Mexican", []string{"taco", "burrito", "quesadilla", "enchilada", "fajita", "salsa", "guacamole"}},
	{"Indian", []string{"curry", "tikka", "masala", "tandoori", "biryani", "dal", "naan"}},
	{"Chinese", []string{"stir fry", "stir-fry", "lo mein", "fried rice", "dumpling", "wonton", "kung pao", "szechuan"}},
	{"Japanese", []string{"sushi", "ramen", "teriyaki", "tempura", "miso", "udon"}},
	{"Thai", []string{"pad thai", "satay", "tom yum", "thai"}},
	{"Korean", []string{"kimchi", "bulgogi", "gochujang", "korean"}},
	{"Vietnamese", []string{"pho", "banh mi", "vietnamese"}},
	{"French", []string{"ratatouille", "crepe", "quiche", "coq au vin", "souffle"}},
	{"Greek", []string{"gyro", "tzatziki", "souvlaki", "greek"}},
	{"Spanish", []string{"paella", "tapas", "chorizo"}},
	{"Mediterranean", []string{"hummus", "falafel", "couscous", "mediterranean"}},
	{"American", []string{"burger", "bbq", "barbecue", "mac and cheese", "meatloaf", "fried chicken"}},
}

// ingredient pattern table mapping vocabulary names to substrings matched
// against extracted ingredient lines
var ingredientPatterns = []struct {
	name     string
	patterns []string
}{
	{"Chicken", []string{"chicken"}},
	{"Beef", []string{"beef", "steak", "brisket"}},
	{"Pork", []string{"pork"}},
	{"Lamb", []string{"lamb"}},
	{"Turkey", []string{"turkey"}},
	{"Bacon", []string{"bacon"}},
	{"Sausage", []string{"sausage", "chorizo"}},
	{"Ham", []string{"ham "}},
	{"Salmon", []string{"salmon"}},
	{"Shrimp", []string{"shrimp", "prawn"}},
	{"Tuna", []string{"tuna"}},
	{"Fish", []string{"cod", "tilapia", "halibut", "fish"}},
	{"Tofu", []string{"tofu"}},
	{"Eggs", []string{"egg"}},
	{"Cheese", []string{"cheese", "cheddar", "mozzarella", "parmesan", "feta"}},
	{"Rice", []string{"rice"}},
	{"Pasta", []string{"pasta", "spaghetti", "penne", "macaroni", "fettuccine"}},
	{"Noodles", []string{"noodle"}},
	{"Potatoes", []string{"potato"}},
	{"Beans", []string{"beans", "black bean", "kidney bean"}},
	{"Lentils", []string{"lentil"}},
	{"Chickpeas", []string{"chickpea", "garbanzo"}},
	{"Mushrooms", []string{"mushroom"}},
	{"Tomatoes", []string{"tomato"}},
	{"Spinach", []string{"spinach"}},
	{"Broccoli", []string{"broccoli"}},
	{"Cauliflower", []string{"cauliflower"}},
	{"Corn", []string{"corn"}},
	{"Avocado", []string{"avocado"}},
	{"Garlic", []string{"garlic"}},
	{"Onion", []string{"onion"}},
}

var methodTagKeywords = []struct {
	tag      string
	keywords []string
}{
	{"Baked", []string{"baked", "baking"}},
	{"Grilled", []string{"grilled", "grill"}},
	{"Roasted", []string{"roasted", "roast"}},
	{"Stir-Fry", []string{"stir fry", "stir-fry", "stir fried"}},
	{"Steamed", []string{"steamed"}},
	{"Braised", []string{"braised"}},
}

var dishTagKeywords = []struct {
	tag      string
	keywords []string
}{
	{"Salad", []string{"salad"}},
	{"Soup", []string{"soup"}},
	{"Sandwich", []string{"sandwich"}},
	{"Pasta", []string{"pasta", "spaghetti", "lasagna"}},
	{"Curry", []string{"curry"}},
}

var flavorTagKeywords = []struct {
	tag      string
	keywords []string
}{
	{"Spicy", []string{"spicy", "hot ", "chili"}},
	{"Sweet", []string{"sweet", "honey", "maple"}},
	{"Creamy", []string{"creamy", "cream "}},
}

var meatKeywords = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham",
	"salmon", "shrimp", "tuna", "fish", "steak", "prosciutto", "meat",
}

var eggDairyKeywords = []string{"egg", "cheese", "butter", "yogurt", "milk", "cream"}

// ClassifyFallback infers classification fields from the recipe name and
// any extracted ingredient text using fixed keyword tables. It is
// deterministic, needs no network access, and never fails.
func ClassifyFallback(r *recipe.Recipe, page *recipe.ExtractedPage) *recipe.Classification {
	name := strings.ToLower(r.Title)

	var ingredientText string
	if page != nil {
		lines := page.Ingredients
		if len(lines) > maxScannedIngredients {
			lines = lines[:maxScannedIngredients]
		}
		ingredientText = strings.ToLower(strings.Join(lines, " | "))
	}
	searchText := name + " " + ingredientText

	return &recipe.Classification{
		Meal:           inferMeal(name),
		Cuisine:        inferCuisine(name),
		Tags:           inferTags(searchText),
		KeyIngredients: inferKeyIngredients(page),
		Confidence:     fallbackConfidence,
		Reasoning:      "Rule-based classification from recipe name and ingredient keywords (AI unavailable)",
		Source:         recipe.SourceFallback,
	}
}

func inferMeal(name string) string {
	for _, group := range mealKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.meal
			}
		}
	}
	return vocabulary.DefaultMeal
}

func inferCuisine(name string) string {
	for _, group := range cuisineKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.cuisine
			}
		}
	}
	return ""
}

// inferKeyIngredients scans the first extracted ingredient lines against
// the pattern table, collecting up to five matches in first-match order
func inferKeyIngredients(page *recipe.ExtractedPage) []string {
	if page == nil || len(page.Ingredients) == 0 {
		return nil
	}

	lines := page.Ingredients
	if len(lines) > maxScannedIngredients {
		lines = lines[:maxScannedIngredients]
	}

	var matched []string
	seen := make(map[string]bool)
	for _, line := range lines {
		lowered := strings.ToLower(line)
		for _, entry := range ingredientPatterns {
			if seen[entry.name] {
				continue
			}
			for _, p := range entry.patterns {
				if strings.Contains(lowered, p) {
					seen[entry.name] = true
					matched = append(matched, entry.name)
					break
				}
			}
			if len(matched) >= maxFallbackIngredients {
				return matched
			}
		}
	}
	return matched
}

// inferTags matches cooking-method, dish-type, and flavor keywords, then a
// dietary tag, capped at four tags
func inferTags(text string) []string {
	var tags []string
	add := func(tag string) {
		if len(tags) < maxFallbackTags {
			tags = append(tags, tag)
		}
	}

	for _, group := range methodTagKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				add(group.tag)
				break
			}
		}
	}
	for _, group := range dishTagKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				add(group.tag)
				break
			}
		}
	}
	for _, group := range flavorTagKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				add(group.tag)
				break
			}
		}
	}

	if dietary := inferDietaryTag(text); dietary != "" {
		add(dietary)
	}
	return tags
}

// inferDietaryTag returns Vegan when neither meat nor egg/dairy appears,
// Vegetarian when only meat is absent, empty otherwise
func inferDietaryTag(text string) string {
	if containsAny(text, meatKeywords) {
		return ""
	}
	if containsAny(text, eggDairyKeywords) {
		return "Vegetarian"
	}
	return "Vegan"
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
