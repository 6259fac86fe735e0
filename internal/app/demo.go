package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/classifier"
	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/enrich"
	"github.com/mealdex/enrich/internal/extractor"
	"github.com/mealdex/enrich/internal/infrastructure/cache"
	"github.com/mealdex/enrich/internal/store"
	"github.com/mealdex/enrich/pkg/resilience"
)

// NewDemoOrchestrator builds a pipeline over an in-memory store seeded with
// sample recipes. No external credentials are needed: recipes have no
// source URL so extraction is skipped, and classification runs on the
// fallback rules.
func NewDemoOrchestrator(logger *zap.Logger) *enrich.Orchestrator {
	ms := store.NewMemoryStore()
	ms.Seed(
		&recipe.Recipe{ID: "demo-0001-margherita", Title: "Classic Margherita Pizza"},
		&recipe.Recipe{ID: "demo-0002-curry", Title: "Spicy Chicken Curry", Meal: "Main Dish"},
		&recipe.Recipe{ID: "demo-0003-pancakes", Title: "Blueberry Pancakes with Maple Syrup"},
		&recipe.Recipe{ID: "demo-0004-tacos", Title: "Grilled Shrimp Tacos", Cuisine: "Mexican"},
		&recipe.Recipe{ID: "demo-0005-brownies", Title: "Chocolate Fudge Brownies"},
	)

	c := cache.NewLocalCache(100)
	breaker := resilience.NewBreaker("demo", resilience.BreakerConfig{})
	svc := classifier.NewService(nil, breaker, c, time.Hour, logger)
	ex := extractor.New(extractor.Config{}, logger)

	return enrich.New(ms, ex, svc, c, nil, enrich.Config{
		BatchSize:   5,
		Concurrency: 1,
		RecipeDelay: 10 * time.Millisecond,
	}, logger)
}
