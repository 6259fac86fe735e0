// Package handlers implements the enrichment HTTP API.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/domain/vocabulary"
	"github.com/mealdex/enrich/internal/enrich"
	"github.com/mealdex/enrich/internal/notify"
	"github.com/mealdex/enrich/internal/store"
	pkgerrors "github.com/mealdex/enrich/pkg/errors"
)

const (
	maxTags           = 10
	maxIngredients    = 10
	maxFieldLength    = 500
	maxRequestBody    = 1 << 20 // 1 MB
	minRecipeIDLength = 8
)

// EnrichmentHandler serves the enrichment endpoints
type EnrichmentHandler struct {
	orchestrator *enrich.Orchestrator
	store        store.RecordStore
	mailer       *notify.Mailer
	validator    *validator.Validate
	logger       *zap.Logger
	production   bool
}

// NewEnrichmentHandler creates the handler
func NewEnrichmentHandler(
	o *enrich.Orchestrator,
	rs store.RecordStore,
	mailer *notify.Mailer,
	logger *zap.Logger,
	production bool,
) *EnrichmentHandler {
	return &EnrichmentHandler{
		orchestrator: o,
		store:        rs,
		mailer:       mailer,
		validator:    validator.New(),
		logger:       logger.Named("handlers"),
		production:   production,
	}
}

// GetEnrichment handles GET /enrichment. The refresh query parameter picks
// the run mode: "notion" reuses caches, "website" re-fetches pages, "ai"
// re-runs classification. Unknown or missing values run the standard mode.
func (h *EnrichmentHandler) GetEnrichment(w http.ResponseWriter, r *http.Request) {
	mode := enrich.ParseMode(r.URL.Query().Get("refresh"))

	results, stats, err := h.orchestrator.RunBatch(r.Context(), mode)
	if err != nil {
		h.writeError(w, r, pkgerrors.Wrap(err, "enrichment run failed"))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    results,
		"stats":   stats,
	})
}

// postRequest is the envelope for POST /enrichment. Action selects the
// branch; an empty action triggers a full scheduled-style run. Fields is
// an accepted alias for updates.
type postRequest struct {
	Action   string                 `json:"action"`
	RecipeID string                 `json:"recipeId"`
	Updates  map[string]interface{} `json:"updates"`
	Fields   map[string]interface{} `json:"fields"`
	ImageURL string                 `json:"imageUrl"`
}

func (r *postRequest) updates() map[string]interface{} {
	if len(r.Updates) > 0 {
		return r.Updates
	}
	return r.Fields
}

// PostEnrichment handles POST /enrichment
func (h *EnrichmentHandler) PostEnrichment(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.writeError(w, r, pkgerrors.NewBadRequestError("invalid JSON body"))
		return
	}

	switch req.Action {
	case "updateRecipe":
		h.updateRecipe(w, r, &req)
	case "applyChanges":
		h.applyChanges(w, r, &req)
	case "attachImage":
		h.attachImage(w, r, &req)
	case "removeImage":
		h.removeImage(w, r, &req)
	case "":
		h.runScheduled(w, r)
	default:
		h.writeError(w, r, pkgerrors.NewBadRequestError(fmt.Sprintf("unknown action %q", req.Action)))
	}
}

// updateRecipe writes caller-approved field values to the record store.
// Only allow-listed fields pass; everything else is rejected rather than
// silently dropped.
func (h *EnrichmentHandler) updateRecipe(w http.ResponseWriter, r *http.Request, req *postRequest) {
	if err := h.validateRecipeID(req.RecipeID); err != nil {
		h.writeError(w, r, err)
		return
	}
	requested := req.updates()
	if len(requested) == 0 {
		h.writeError(w, r, pkgerrors.NewValidationError("updates must not be empty"))
		return
	}

	updates, appErr := sanitizeFields(requested)
	if appErr != nil {
		h.writeError(w, r, appErr)
		return
	}

	if imageURL, ok := updates[recipe.FieldSelectedImage]; ok {
		delete(updates, recipe.FieldSelectedImage)
		if err := h.store.AppendImage(r.Context(), req.RecipeID, imageURL.(string)); err != nil {
			h.writeError(w, r, pkgerrors.Wrap(err, "attaching image failed"))
			return
		}
	}

	if len(updates) > 0 {
		if err := h.store.UpdateFields(r.Context(), req.RecipeID, updates); err != nil {
			h.writeError(w, r, pkgerrors.Wrap(err, "updating recipe failed"))
			return
		}
	}

	h.logger.Info("recipe updated",
		zap.String("recipe_id", req.RecipeID),
		zap.Int("fields", len(updates)))

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "recipe updated",
		"recipeId": req.RecipeID,
		"updated":  len(requested),
	})
}

// applyChanges re-runs enrichment for one recipe and applies the resulting
// change set in full
func (h *EnrichmentHandler) applyChanges(w http.ResponseWriter, r *http.Request, req *postRequest) {
	if err := h.validateRecipeID(req.RecipeID); err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := h.store.Get(r.Context(), req.RecipeID)
	if err != nil {
		h.writeError(w, r, pkgerrors.NewRecipeNotFoundError(req.RecipeID))
		return
	}

	result, err := h.orchestrator.ProcessOne(r.Context(), rec, enrich.ModeStandard)
	if err != nil {
		h.writeError(w, r, pkgerrors.Wrap(err, "enrichment failed"))
		return
	}

	if !result.Changes.Empty() {
		if err := h.orchestrator.ApplyChangeSet(r.Context(), req.RecipeID, result.Changes); err != nil {
			h.writeError(w, r, pkgerrors.Wrap(err, "applying changes failed"))
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"recipeId": req.RecipeID,
		"applied":  result.Changes.SuggestionCount(),
		"changes":  result.Changes,
	})
}

// attachImage appends a single image to a recipe page
func (h *EnrichmentHandler) attachImage(w http.ResponseWriter, r *http.Request, req *postRequest) {
	if err := h.validateRecipeID(req.RecipeID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.validator.Var(req.ImageURL, "required,url"); err != nil {
		h.writeError(w, r, pkgerrors.NewValidationError("imageUrl must be a valid URL"))
		return
	}

	if err := h.store.AppendImage(r.Context(), req.RecipeID, req.ImageURL); err != nil {
		h.writeError(w, r, pkgerrors.Wrap(err, "attaching image failed"))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"recipeId": req.RecipeID,
	})
}

// removeImage deletes the matching image from a recipe page
func (h *EnrichmentHandler) removeImage(w http.ResponseWriter, r *http.Request, req *postRequest) {
	if err := h.validateRecipeID(req.RecipeID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.validator.Var(req.ImageURL, "required,url"); err != nil {
		h.writeError(w, r, pkgerrors.NewValidationError("imageUrl must be a valid URL"))
		return
	}

	if err := h.store.DeleteImage(r.Context(), req.RecipeID, req.ImageURL); err != nil {
		h.writeError(w, r, pkgerrors.Wrap(err, "removing image failed"))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"recipeId": req.RecipeID,
	})
}

// runScheduled runs a standard batch and sends the summary email. This is
// the branch the cron trigger hits.
func (h *EnrichmentHandler) runScheduled(w http.ResponseWriter, r *http.Request) {
	results, stats, err := h.orchestrator.RunBatch(r.Context(), enrich.ModeStandard)
	if err != nil {
		h.writeError(w, r, pkgerrors.Wrap(err, "scheduled run failed"))
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		if err := h.mailer.SendSummary(results, stats); err != nil {
			h.logger.Warn("summary email failed", zap.Error(err))
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": len(results),
		"total":     stats.TotalRecipes,
	})
}

// Health handles GET /enrichment/health
func (h *EnrichmentHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		h.logger.Warn("store ping failed", zap.Error(err))
	}

	h.writeJSON(w, code, map[string]interface{}{
		"status": status,
	})
}

// Demo handles GET /enrichment/demo: runs a batch against an in-memory
// store with sample recipes so the pipeline can be exercised without
// credentials
func (h *EnrichmentHandler) Demo(demo *enrich.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, stats, err := demo.RunBatch(r.Context(), enrich.ModeStandard)
		if err != nil {
			h.writeError(w, r, pkgerrors.Wrap(err, "demo run failed"))
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"demo":    true,
			"data":    results,
			"stats":   stats,
		})
	}
}

func (h *EnrichmentHandler) validateRecipeID(id string) *pkgerrors.AppError {
	if len(id) < minRecipeIDLength {
		return pkgerrors.NewValidationError("recipeId is missing or too short")
	}
	return nil
}

// sanitizeFields validates an update payload against the allow list and
// the vocabularies. Unknown field names and out-of-vocabulary values fail
// the whole request.
func sanitizeFields(fields map[string]interface{}) (map[string]interface{}, *pkgerrors.AppError) {
	updates := make(map[string]interface{}, len(fields))

	for name, value := range fields {
		switch name {
		case recipe.FieldTitle:
			s, ok := asString(value)
			if !ok || s == "" || len(s) > maxFieldLength {
				return nil, pkgerrors.NewValidationError("title must be a non-empty string")
			}
			updates[name] = s
		case recipe.FieldMeal:
			s, _ := asString(value)
			canonical, ok := vocabulary.Canonical(vocabulary.AxisMeal, s)
			if !ok {
				return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown meal type %q", s))
			}
			updates[name] = canonical
		case recipe.FieldCuisine:
			s, _ := asString(value)
			canonical, ok := vocabulary.Canonical(vocabulary.AxisCuisine, s)
			if !ok {
				return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown cuisine %q", s))
			}
			updates[name] = canonical
		case recipe.FieldTags:
			list, ok := asStringSlice(value)
			if !ok || len(list) > maxTags {
				return nil, pkgerrors.NewValidationError("tags must be a list of at most 10 strings")
			}
			filtered := vocabulary.FilterMembers(vocabulary.AxisTag, list)
			if len(filtered) != len(list) {
				return nil, pkgerrors.NewValidationError("tags contains values outside the vocabulary")
			}
			updates[name] = filtered
		case recipe.FieldKeyIngredients:
			list, ok := asStringSlice(value)
			if !ok || len(list) > maxIngredients {
				return nil, pkgerrors.NewValidationError("keyIngredients must be a list of at most 10 strings")
			}
			filtered := vocabulary.FilterMembers(vocabulary.AxisIngredient, list)
			if len(filtered) != len(list) {
				return nil, pkgerrors.NewValidationError("keyIngredients contains values outside the vocabulary")
			}
			updates[name] = filtered
		case recipe.FieldSelectedImage:
			s, ok := asString(value)
			if !ok || !strings.HasPrefix(s, "http") {
				return nil, pkgerrors.NewValidationError("selectedImage must be an http(s) URL")
			}
			updates[name] = s
		default:
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("field %q cannot be updated", name))
		}
	}

	return updates, nil
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return strings.TrimSpace(s), ok
}

func asStringSlice(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func (h *EnrichmentHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
	}
}

func (h *EnrichmentHandler) writeError(w http.ResponseWriter, r *http.Request, err *pkgerrors.AppError) {
	requestID := chimiddleware.GetReqID(r.Context())
	resp := pkgerrors.ToErrorResponse(err, requestID, !h.production)

	h.logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.String("code", string(err.Code)),
		zap.String("request_id", requestID),
		zap.Error(err))

	h.writeJSON(w, err.StatusCode(), resp)
}
