package extractor

import "strings"

// Words kept lowercase inside a title unless they lead it
var functionWords = map[string]bool{
	"with": true,
	"and":  true,
	"or":   true,
	"in":   true,
	"on":   true,
	"at":   true,
	"to":   true,
	"for":  true,
	"of":   true,
	"the":  true,
	"a":    true,
	"an":   true,
}

// StandardizeTitle cleans a scraped page title: site-name suffixes and
// "Recipe" boilerplate are stripped, then title case is applied with a
// fixed function-word list. The transformation is idempotent.
func StandardizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	// Drop trailing "| Site Name" / "- Site Name" suffixes
	for _, sep := range []string{"|", " - ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = strings.TrimSpace(title[:idx])
		}
	}

	// Strip "Recipe" boilerplate at either end
	lower := strings.ToLower(title)
	for _, prefix := range []string{"recipe:", "recipe "} {
		if strings.HasPrefix(lower, prefix) {
			title = strings.TrimSpace(title[len(prefix):])
			lower = strings.ToLower(title)
		}
	}
	for _, suffix := range []string{" recipe"} {
		if strings.HasSuffix(lower, suffix) {
			title = strings.TrimSpace(title[:len(title)-len(suffix)])
			lower = strings.ToLower(title)
		}
	}

	return titleCase(title)
}

// titleCase capitalizes each word except function words in non-leading
// positions. Words with interior capitals (BBQ, McCormick) are left alone.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		lower := strings.ToLower(word)
		if i > 0 && functionWords[lower] {
			words[i] = lower
			continue
		}
		if word != lower && word != capitalize(lower) {
			continue
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
