package extractor

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mealdex/enrich/internal/domain/recipe"
)

// generalScanThreshold is the priority-image count below which the general
// image scan supplements the candidate list
const generalScanThreshold = 5

const maxImageCandidates = 10

// Selectors likely to point at the hero/content image of a recipe page
var priorityImageSelectors = []string{
	"[itemprop='image']",
	".recipe-image img",
	".recipe-photo img",
	".hero img",
	"figure img",
	"article img",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// Hosts that serve images without a file extension in the path
var imageHosts = []string{
	"images.unsplash.com",
	"res.cloudinary.com",
	"i.imgur.com",
	"amazonaws.com",
	"googleusercontent.com",
	"files.wordpress.com",
	"wp.com",
	"cdn.shopify.com",
}

// Alt-text and URL substrings marking obvious non-content images
var nonContentMarkers = []string{
	"logo",
	"icon",
	"avatar",
	"sprite",
	"banner",
	"badge",
	"button",
	"placeholder",
	"pixel",
	"advert",
}

// extractImages collects candidate images: priority selectors first, then a
// filtered general scan when too few were found. Candidates are validated,
// de-duplicated by URL, and ordered priority first, then by pixel area.
func extractImages(doc *goquery.Document) []recipe.ImageCandidate {
	seen := make(map[string]bool)
	var candidates []recipe.ImageCandidate

	collect := func(s *goquery.Selection, source recipe.ImageSource) {
		img := imageFromSelection(s, source)
		if img == nil || seen[img.URL] {
			return
		}
		if source == recipe.ImageSourceGeneral && isNonContent(*img) {
			return
		}
		seen[img.URL] = true
		candidates = append(candidates, *img)
	}

	for _, sel := range priorityImageSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			collect(s, recipe.ImageSourcePriority)
		})
	}

	// The og:image meta tag counts as a priority candidate
	if og, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
		if validImageURL(og) && !seen[og] {
			seen[og] = true
			candidates = append(candidates, recipe.ImageCandidate{
				URL:    og,
				Source: recipe.ImageSourcePriority,
			})
		}
	}

	if len(candidates) < generalScanThreshold {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			collect(s, recipe.ImageSourceGeneral)
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi := candidates[i].Source == recipe.ImageSourcePriority
		pj := candidates[j].Source == recipe.ImageSourcePriority
		if pi != pj {
			return pi
		}
		return candidates[i].Area() > candidates[j].Area()
	})

	if len(candidates) > maxImageCandidates {
		candidates = candidates[:maxImageCandidates]
	}
	return candidates
}

func imageFromSelection(s *goquery.Selection, source recipe.ImageSource) *recipe.ImageCandidate {
	src, ok := s.Attr("src")
	if !ok || !validImageURL(src) {
		return nil
	}

	img := &recipe.ImageCandidate{
		URL:    src,
		Alt:    strings.TrimSpace(s.AttrOr("alt", "")),
		Source: source,
	}
	if w, err := strconv.Atoi(s.AttrOr("width", "")); err == nil {
		img.Width = w
	}
	if h, err := strconv.Atoi(s.AttrOr("height", "")); err == nil {
		img.Height = h
	}
	return img
}

// validImageURL requires an http(s) scheme and either a recognized image
// file extension or a recognized image-hosting domain
func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	host := strings.ToLower(u.Host)
	for _, h := range imageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func isNonContent(img recipe.ImageCandidate) bool {
	alt := strings.ToLower(img.Alt)
	lowered := strings.ToLower(img.URL)
	for _, marker := range nonContentMarkers {
		if strings.Contains(alt, marker) || strings.Contains(lowered, marker) {
			return true
		}
	}
	// Tiny declared dimensions are a strong icon signal
	if img.Width > 0 && img.Width < 100 && img.Height > 0 && img.Height < 100 {
		return true
	}
	return false
}
