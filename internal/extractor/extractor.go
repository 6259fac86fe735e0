// Package extractor recovers recipe metadata from a source web page by
// applying ordered heuristic selectors, most specific first. Extraction is
// best effort: a network or parse failure yields a nil page rather than
// an error, and callers continue without page context. Only caller
// cancellation surfaces as an error.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/pkg/resilience"
)

const (
	minIngredientLength  = 2
	maxIngredientLength  = 200
	minInstructionLength = 10
	maxDescriptionLength = 1000
	maxResponseBytes     = 5 << 20
)

// Config holds extractor settings
type Config struct {
	Timeout     time.Duration
	MaxAttempts uint64
	UserAgent   string
}

// Extractor fetches and scrapes a single source page
type Extractor struct {
	client    *http.Client
	logger    *zap.Logger
	userAgent string
	retry     resilience.RetryConfig
}

// New creates an extractor with a bounded request timeout
func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "mealdex-enrich/1.0"
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts

	return &Extractor{
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger.Named("extractor"),
		userAgent: cfg.UserAgent,
		retry:     retry,
	}
}

// Extract fetches the page at url and applies the selector strategies.
// It returns (nil, nil) on any page failure; a nil page means "no page
// context available" and is not an error. Caller cancellation is not a
// page failure and is returned as an error.
func (e *Extractor) Extract(ctx context.Context, url string) (*recipe.ExtractedPage, error) {
	if url == "" {
		return nil, nil
	}

	body, err := e.fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("page fetch failed", zap.String("url", url), zap.Error(err))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		e.logger.Warn("page parse failed", zap.String("url", url), zap.Error(err))
		return nil, nil
	}

	page := &recipe.ExtractedPage{
		Title:        StandardizeTitle(extractTitle(doc)),
		Ingredients:  extractIngredients(doc),
		Instructions: extractInstructions(doc),
		Description:  extractDescription(doc),
		Images:       extractImages(doc),
		FetchedAt:    time.Now(),
	}

	e.logger.Debug("page extracted",
		zap.String("url", url),
		zap.String("title", page.Title),
		zap.Int("ingredients", len(page.Ingredients)),
		zap.Int("instructions", len(page.Instructions)),
		zap.Int("images", len(page.Images)))

	return page, nil
}

// fetch retrieves the page body, retrying transient failures with
// exponential backoff
func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := resilience.Retry(ctx, e.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("User-Agent", e.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("transient status %d", resp.StatusCode)
		default:
			return resilience.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		body = string(raw)
		return nil
	})
	return body, err
}

// Selector strategies per field, ordered most specific to least. The first
// strategy yielding at least one non-trivial result wins; partial results
// are never merged across strategies.

var titleStrategies = []string{
	"[itemprop='name']",
	".recipe-title",
	".recipe-header h1",
	"h1.entry-title",
	"h1",
	"title",
}

var ingredientStrategies = []string{
	"[itemprop='recipeIngredient']",
	".recipe-ingredients li",
	".ingredients-list li",
	".ingredient",
	".ingredients li",
	"ul li",
}

var instructionStrategies = []string{
	"[itemprop='recipeInstructions'] li",
	"[itemprop='recipeInstructions']",
	".recipe-instructions li",
	".instructions-list li",
	".directions li",
	".instructions li",
	"ol li",
}

var descriptionStrategies = []string{
	"[itemprop='description']",
	".recipe-description",
	".recipe-summary",
	"meta[property='og:description']",
	"meta[name='description']",
	".entry-content p",
	"p",
}

func extractTitle(doc *goquery.Document) string {
	for _, sel := range titleStrategies {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

func extractIngredients(doc *goquery.Document) []string {
	for _, sel := range ingredientStrategies {
		var items []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := collapseWhitespace(s.Text())
			if len(text) >= minIngredientLength && len(text) <= maxIngredientLength {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func extractInstructions(doc *goquery.Document) []string {
	for _, sel := range instructionStrategies {
		var items []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := collapseWhitespace(s.Text())
			if len(text) >= minInstructionLength {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func extractDescription(doc *goquery.Document) string {
	for _, sel := range descriptionStrategies {
		var text string
		if strings.HasPrefix(sel, "meta") {
			text, _ = doc.Find(sel).Attr("content")
		} else {
			text = doc.Find(sel).First().Text()
		}
		text = collapseWhitespace(text)
		if len(text) >= minInstructionLength {
			if len(text) > maxDescriptionLength {
				text = text[:maxDescriptionLength]
			}
			return text
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
