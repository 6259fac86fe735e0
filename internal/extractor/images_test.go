package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdex/enrich/internal/domain/recipe"
)

func TestValidImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/photo.jpg", true},
		{"https://example.com/photo.JPEG", true},
		{"http://example.com/img.webp", true},
		{"https://images.unsplash.com/photo-123456", true},
		{"https://res.cloudinary.com/demo/image/upload/dish", true},
		{"https://bucket.s3.amazonaws.com/dish", true},
		{"https://example.com/page.html", false},
		{"ftp://example.com/photo.jpg", false},
		{"data:image/png;base64,AAAA", false},
		{"/relative/photo.jpg", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validImageURL(tt.url), "url %q", tt.url)
	}
}

func TestIsNonContent(t *testing.T) {
	assert.True(t, isNonContent(recipe.ImageCandidate{URL: "https://e.com/site-logo.png"}))
	assert.True(t, isNonContent(recipe.ImageCandidate{URL: "https://e.com/a.jpg", Alt: "brand icon"}))
	assert.True(t, isNonContent(recipe.ImageCandidate{URL: "https://e.com/a.jpg", Width: 32, Height: 32}))
	assert.False(t, isNonContent(recipe.ImageCandidate{URL: "https://e.com/dish.jpg", Width: 800, Height: 600}))
	// Unknown dimensions alone are not disqualifying
	assert.False(t, isNonContent(recipe.ImageCandidate{URL: "https://e.com/dish.jpg"}))
}

func TestExtractImagesGeneralScanThreshold(t *testing.T) {
	// Five priority images suppress the general scan entirely
	var b strings.Builder
	b.WriteString("<html><body><article>")
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		b.WriteString(`<img src="https://e.com/` + n + `.jpg" width="500" height="400">`)
	}
	b.WriteString(`</article><img src="https://e.com/outside.jpg" width="900" height="900"></body></html>`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)

	images := extractImages(doc)
	require.Len(t, images, 5)
	for _, img := range images {
		assert.NotEqual(t, "https://e.com/outside.jpg", img.URL)
		assert.Equal(t, recipe.ImageSourcePriority, img.Source)
	}
}

func TestExtractImagesOrdering(t *testing.T) {
	html := `<html><body>
		<article><img src="https://e.com/small.jpg" width="200" height="200"></article>
		<article><img src="https://e.com/big.jpg" width="1000" height="800"></article>
		<img src="https://e.com/general.jpg" width="2000" height="2000">
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	images := extractImages(doc)
	require.Len(t, images, 3)

	// Priority images lead regardless of size; within a group larger
	// area wins
	assert.Equal(t, "https://e.com/big.jpg", images[0].URL)
	assert.Equal(t, "https://e.com/small.jpg", images[1].URL)
	assert.Equal(t, "https://e.com/general.jpg", images[2].URL)
	assert.Equal(t, recipe.ImageSourceGeneral, images[2].Source)
}

func TestExtractImagesDeduplicates(t *testing.T) {
	html := `<html><head><meta property="og:image" content="https://e.com/hero.jpg"></head><body>
		<figure><img src="https://e.com/hero.jpg" width="1200" height="800"></figure>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	images := extractImages(doc)
	require.Len(t, images, 1)
	assert.Equal(t, "https://e.com/hero.jpg", images[0].URL)
}
