// Package enrich runs the enrichment pipeline over batches of incomplete
// recipes: scrape the source page, classify against the vocabulary
// registry, and assemble a per-recipe diff of suggested changes. Nothing
// here writes to the record store until a caller explicitly applies a
// change set.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mealdex/enrich/internal/classifier"
	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/extractor"
	"github.com/mealdex/enrich/internal/infrastructure/cache"
	"github.com/mealdex/enrich/internal/store"
)

// Mode selects what a batch run refreshes
type Mode string

const (
	// ModeStandard scrapes and classifies recipes with missing fields,
	// reusing cached results where available
	ModeStandard Mode = "notion"

	// ModeRescrape forces a fresh page extraction regardless of cache
	ModeRescrape Mode = "website"

	// ModeReclassify reuses extracted page data but forces a fresh
	// classification
	ModeReclassify Mode = "ai"
)

// ParseMode maps a refresh query parameter to a Mode, defaulting to the
// standard mode for unrecognized values
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeRescrape:
		return ModeRescrape
	case ModeReclassify:
		return ModeReclassify
	default:
		return ModeStandard
	}
}

// Result is the outcome of one recipe's enrichment pass
type Result struct {
	Recipe         *recipe.Recipe         `json:"recipe"`
	ExtractedData  *recipe.ExtractedPage  `json:"extractedData,omitempty"`
	Classification *recipe.Classification `json:"classification"`
	Changes        *recipe.ChangeSet      `json:"changes"`
}

// Stats summarizes a batch run
type Stats struct {
	TotalRecipes      int     `json:"totalRecipes"`
	TotalSuggestions  int     `json:"totalSuggestions"`
	ImagesFound       int     `json:"imagesFound"`
	AverageConfidence float64 `json:"averageConfidence"`
	Failed            int     `json:"failed"`
}

// Config holds orchestrator settings
type Config struct {
	BatchSize   int
	Concurrency int
	RecipeDelay time.Duration
	CacheTTL    time.Duration
}

// Orchestrator drives the enrichment pipeline
type Orchestrator struct {
	store      store.RecordStore
	extractor  *extractor.Extractor
	classifier *classifier.Service
	cache      cache.Cache
	limiter    *rate.Limiter
	metrics    *Metrics
	config     Config
	logger     *zap.Logger
}

// New creates an orchestrator
func New(
	rs store.RecordStore,
	ex *extractor.Extractor,
	cl *classifier.Service,
	c cache.Cache,
	metrics *Metrics,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.RecipeDelay <= 0 {
		cfg.RecipeDelay = 500 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}

	return &Orchestrator{
		store:      rs,
		extractor:  ex,
		classifier: cl,
		cache:      c,
		limiter:    rate.NewLimiter(rate.Every(cfg.RecipeDelay), 1),
		metrics:    metrics,
		config:     cfg,
		logger:     logger.Named("orchestrator"),
	}
}

// RunBatch processes up to the configured batch size of incomplete recipes
// in the given mode. A recipe whose extraction or classification fails is
// logged and omitted; it never aborts the batch.
func (o *Orchestrator) RunBatch(ctx context.Context, mode Mode) ([]*Result, *Stats, error) {
	if o.metrics != nil {
		o.metrics.RunsTotal.WithLabelValues(string(mode)).Inc()
	}

	candidates, err := o.store.QueryIncomplete(ctx, o.config.BatchSize)
	if err != nil {
		return nil, nil, fmt.Errorf("querying incomplete recipes: %w", err)
	}

	o.logger.Info("batch started",
		zap.String("mode", string(mode)),
		zap.Int("candidates", len(candidates)))

	results := make([]*Result, len(candidates))
	var failed int
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.config.Concurrency)

	for i, r := range candidates {
		// Pacing between recipe dispatches keeps the pipeline inside
		// external rate limits
		if err := o.limiter.Wait(ctx); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, rec *recipe.Recipe) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if p := recover(); p != nil {
					o.logger.Error("recipe processing panicked",
						zap.String("recipe_id", rec.ID),
						zap.Any("panic", p))
					mu.Lock()
					failed++
					mu.Unlock()
					if o.metrics != nil {
						o.metrics.RecipesFailed.Inc()
					}
				}
			}()

			result, err := o.processRecipe(ctx, rec, mode)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.logger.Warn("recipe dropped from batch",
					zap.String("recipe_id", rec.ID), zap.Error(err))
				failed++
				if o.metrics != nil {
					o.metrics.RecipesFailed.Inc()
				}
				return
			}
			results[idx] = result
		}(i, r)
	}
	wg.Wait()

	out := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}

	stats := o.buildStats(out, failed)
	o.logger.Info("batch complete",
		zap.String("mode", string(mode)),
		zap.Int("processed", stats.TotalRecipes),
		zap.Int("suggestions", stats.TotalSuggestions),
		zap.Int("failed", failed))

	return out, stats, nil
}

// ProcessOne enriches a single recipe outside of a batch. Used by the API
// when the caller names a specific record.
func (o *Orchestrator) ProcessOne(ctx context.Context, r *recipe.Recipe, mode Mode) (*Result, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return o.processRecipe(ctx, r, mode)
}

// processRecipe runs extract, classify, diff for a single recipe
func (o *Orchestrator) processRecipe(ctx context.Context, r *recipe.Recipe, mode Mode) (*Result, error) {
	page, err := o.extractPage(ctx, r, mode)
	if err != nil {
		return nil, err
	}

	forceFresh := mode == ModeRescrape || mode == ModeReclassify
	classification := o.classifier.Classify(ctx, r, page, forceFresh)

	changes := recipe.BuildChangeSet(r, classification, page)
	if o.metrics != nil {
		o.metrics.RecipesProcessed.Inc()
		o.metrics.SuggestionsTotal.Add(float64(len(changes.Fields)))
		if changes.Image != nil {
			o.metrics.ImagesFound.Inc()
		}
	}

	return &Result{
		Recipe:         r,
		ExtractedData:  page,
		Classification: classification,
		Changes:        changes,
	}, nil
}

// extractPage resolves page data honoring the mode's cache policy. A nil
// page simply means no page context is available.
func (o *Orchestrator) extractPage(ctx context.Context, r *recipe.Recipe, mode Mode) (*recipe.ExtractedPage, error) {
	if r.SourceURL == "" {
		return nil, nil
	}

	key := cache.ExtractKey(r.SourceURL)
	if mode != ModeRescrape {
		if page := o.cachedPage(ctx, key); page != nil {
			return page, nil
		}
	}

	page, err := o.extractor.Extract(ctx, r.SourceURL)
	if err != nil {
		return nil, err
	}
	if page != nil {
		o.cachePage(ctx, key, page)
	}
	return page, nil
}

func (o *Orchestrator) cachedPage(ctx context.Context, key string) *recipe.ExtractedPage {
	if o.cache == nil {
		return nil
	}
	raw, ok := o.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var page recipe.ExtractedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil
	}
	return &page
}

func (o *Orchestrator) cachePage(ctx context.Context, key string, page *recipe.ExtractedPage) {
	if o.cache == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	o.cache.Set(ctx, key, raw, o.config.CacheTTL)
}

// ApplyChangeSet writes an approved change set back to the record store:
// field suggestions become a partial property update and an image
// suggestion becomes a page-content add
func (o *Orchestrator) ApplyChangeSet(ctx context.Context, recipeID string, cs *recipe.ChangeSet) error {
	if cs == nil || cs.Empty() {
		return nil
	}

	updates := make(map[string]interface{}, len(cs.Fields))
	for field, change := range cs.Fields {
		updates[field] = change.Suggested
	}
	if len(updates) > 0 {
		if err := o.store.UpdateFields(ctx, recipeID, updates); err != nil {
			return err
		}
	}
	if cs.Image != nil {
		if err := o.store.AppendImage(ctx, recipeID, cs.Image.URL); err != nil {
			return err
		}
	}

	o.logger.Info("change set applied",
		zap.String("recipe_id", recipeID),
		zap.Int("fields", len(updates)),
		zap.Bool("image", cs.Image != nil))
	return nil
}

func (o *Orchestrator) buildStats(results []*Result, failed int) *Stats {
	stats := &Stats{TotalRecipes: len(results), Failed: failed}
	var confidenceSum float64
	for _, r := range results {
		stats.TotalSuggestions += len(r.Changes.Fields)
		if r.Changes.Image != nil {
			stats.ImagesFound++
		}
		if r.Classification != nil {
			confidenceSum += r.Classification.Confidence
		}
	}
	if len(results) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(results))
	}
	return stats
}
