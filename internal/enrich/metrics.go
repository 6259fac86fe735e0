package enrich

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks enrichment pipeline activity
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RecipesProcessed prometheus.Counter
	RecipesFailed    prometheus.Counter
	SuggestionsTotal prometheus.Counter
	ImagesFound      prometheus.Counter
	BreakerOpens     prometheus.Counter
}

// NewMetrics registers enrichment metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enrich_runs_total",
			Help: "Number of batch runs by refresh mode",
		}, []string{"mode"}),
		RecipesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrich_recipes_processed_total",
			Help: "Number of recipes successfully processed",
		}),
		RecipesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrich_recipes_failed_total",
			Help: "Number of recipes dropped from a batch after a failure",
		}),
		SuggestionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrich_suggestions_total",
			Help: "Number of suggested field changes produced",
		}),
		ImagesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrich_images_found_total",
			Help: "Number of image suggestions produced",
		}),
		BreakerOpens: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrich_breaker_opens_total",
			Help: "Number of times the AI circuit breaker opened",
		}),
	}
}
