package classifier

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/infrastructure/cache"
	"github.com/mealdex/enrich/pkg/resilience"
)

const aiConfidenceDefault = 0.85

// aiResult is the JSON shape the model is instructed to emit
type aiResult struct {
	Title          string   `json:"title"`
	Meal           string   `json:"meal"`
	Cuisine        string   `json:"cuisine"`
	Tags           []string `json:"tags"`
	KeyIngredients []string `json:"keyIngredients"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
}

// Service selects between the AI path and the fallback path. The circuit
// breaker is consulted before every AI dispatch; any AI failure defers to
// the fallback classifier, so Classify always returns a result.
type Service struct {
	client  CompletionClient
	breaker *resilience.Breaker
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewService creates a classifier service. A nil client disables the AI
// path entirely, mirroring a deployment without the AI credential.
func NewService(client CompletionClient, breaker *resilience.Breaker, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		client:  client,
		breaker: breaker,
		cache:   c,
		ttl:     ttl,
		logger:  logger.Named("classifier"),
	}
}

// Breaker exposes the circuit breaker for observability endpoints
func (s *Service) Breaker() *resilience.Breaker {
	return s.breaker
}

// Classify produces a validated classification for the recipe. Options:
// forceFresh bypasses the classification cache (the reclassify mode).
func (s *Service) Classify(ctx context.Context, r *recipe.Recipe, page *recipe.ExtractedPage, forceFresh bool) *recipe.Classification {
	if s.client == nil {
		return Reconcile(r, ClassifyFallback(r, page))
	}

	if !forceFresh {
		if cached := s.cachedResult(ctx, r.ID); cached != nil {
			s.logger.Debug("classification cache hit", zap.String("recipe_id", r.ID))
			return Reconcile(r, cached)
		}
	}

	if err := s.breaker.Allow(); err != nil {
		s.logger.Warn("AI path skipped, circuit open", zap.String("recipe_id", r.ID))
		return Reconcile(r, ClassifyFallback(r, page))
	}

	result, err := s.classifyAI(ctx, r, page)
	if err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("AI classification failed, using fallback",
			zap.String("recipe_id", r.ID), zap.Error(err))
		return Reconcile(r, ClassifyFallback(r, page))
	}
	if result == nil {
		// Malformed model output is not a service failure; the breaker
		// only counts transport-level errors
		s.logger.Warn("AI response unparseable, using fallback", zap.String("recipe_id", r.ID))
		return Reconcile(r, ClassifyFallback(r, page))
	}

	s.breaker.RecordSuccess()
	s.cacheResult(ctx, r.ID, result)

	s.logger.Info("recipe classified",
		zap.String("recipe_id", r.ID),
		zap.Float64("confidence", result.Confidence))

	return Reconcile(r, result)
}

// classifyAI dispatches the completion call. A transport failure returns an
// error; a completion that cannot be parsed as the expected JSON returns
// (nil, nil).
func (s *Service) classifyAI(ctx context.Context, r *recipe.Recipe, page *recipe.ExtractedPage) (*recipe.Classification, error) {
	response, err := s.client.Complete(ctx, systemPrompt, buildUserPrompt(r, page))
	if err != nil {
		return nil, err
	}

	var parsed aiResult
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &parsed); err != nil {
		return nil, nil
	}

	confidence := parsed.Confidence
	if confidence == 0 {
		confidence = aiConfidenceDefault
	}

	return &recipe.Classification{
		Title:          parsed.Title,
		Meal:           nullable(parsed.Meal),
		Cuisine:        nullable(parsed.Cuisine),
		Tags:           parsed.Tags,
		KeyIngredients: parsed.KeyIngredients,
		Confidence:     confidence,
		Reasoning:      parsed.Reasoning,
		Source:         recipe.SourceAI,
	}, nil
}

// nullable treats the literal strings models emit for "no value" as empty
func nullable(s string) string {
	switch s {
	case "null", "none", "N/A":
		return ""
	}
	return s
}

func (s *Service) cachedResult(ctx context.Context, recipeID string) *recipe.Classification {
	if s.cache == nil {
		return nil
	}
	raw, ok := s.cache.Get(ctx, cache.ClassifyKey(recipeID))
	if !ok {
		return nil
	}
	var c recipe.Classification
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return &c
}

func (s *Service) cacheResult(ctx context.Context, recipeID string, c *recipe.Classification) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	s.cache.Set(ctx, cache.ClassifyKey(recipeID), raw, s.ttl)
}
