package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hoopsight/internal/featurespec"
	"hoopsight/internal/training"
	"hoopsight/pkg/logger"
	"hoopsight/pkg/metrics"
	"hoopsight/pkg/redis"
)

// FeatureHandler serves the feature-language endpoints. Enumeration
// responses are memoized through the cache: the language core is pure and
// enumeration is the expensive call, so the API layer is where the
// memoization lives.
type FeatureHandler struct {
	validator *featurespec.Validator
	registry  *featurespec.GroupRegistry
	enum      *featurespec.Enumerator
	cache     *redis.Cache
	metrics   *metrics.Metrics
	logger    *logger.Logger

	// catalogHash scopes cache keys for whole-universe responses, so a
	// redeploy with a changed catalog never serves a stale enumeration.
	catalogHash string
}

// NewFeatureHandler creates the feature endpoints handler.
func NewFeatureHandler(
	registry *featurespec.GroupRegistry,
	enum *featurespec.Enumerator,
	cache *redis.Cache,
	m *metrics.Metrics,
	log *logger.Logger,
) *FeatureHandler {
	return &FeatureHandler{
		validator:   featurespec.NewValidator(registry.Catalog()),
		registry:    registry,
		enum:        enum,
		cache:       cache,
		metrics:     m,
		logger:      log,
		catalogHash: catalogHash(registry.Catalog()),
	}
}

// catalogHash fingerprints the compiled catalog over its full spec rows.
func catalogHash(catalog *featurespec.Catalog) string {
	specs := make([]featurespec.StatSpec, 0, catalog.Len())
	for _, name := range catalog.Names() {
		if def, ok := catalog.Lookup(name); ok {
			specs = append(specs, def.StatSpec)
		}
	}
	data, _ := json.Marshal(specs)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// ValidateRequest is the body of POST /api/features/validate.
type ValidateRequest struct {
	Features []string `json:"features" validate:"required,min=1,dive,required"`
}

// Validate validates a list of feature names.
// POST /api/features/validate
func (h *FeatureHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	report := h.validator.ValidateFeatureList(req.Features)
	h.metrics.ValidationChecks.WithLabelValues("valid").Add(float64(report.ValidCount))
	h.metrics.ValidationChecks.WithLabelValues("invalid").Add(float64(len(report.InvalidFeatures)))

	respondJSON(w, http.StatusOK, report)
}

// CategorizeRequest is the body of POST /api/features/categorize.
type CategorizeRequest struct {
	Values map[string]float64 `json:"values" validate:"required,min=1"`
}

// Categorize splits computed feature values into semantic groups.
// POST /api/features/categorize
func (h *FeatureHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req CategorizeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups": h.registry.CategorizeBatch(req.Values),
	})
}

// ListGroups returns every registered semantic group.
// GET /api/features/groups
func (h *FeatureHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups := h.registry.Groups()
	out := make([]map[string]interface{}, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]interface{}{
			"name":             g.Name,
			"description":      g.Description,
			"layer":            g.Layer,
			"member_stats":     g.MemberStats,
			"filter_substring": g.FilterSubstring,
			"curated":          g.Curated(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(out),
		"groups": out,
	})
}

// EnumerateGroup returns one group's full feature enumeration.
// GET /api/features/groups/{name}
func (h *FeatureHandler) EnumerateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["name"]

	if _, ok := h.registry.Group(name); !ok {
		respondError(w, http.StatusNotFound, "unknown semantic group: "+name)
		return
	}

	var features []string
	err := h.cached(ctx, redis.EnumerationKey(name), redis.TTLMedium, &features, func() (interface{}, error) {
		return h.enum.EnumerateGroup(name)
	})
	if err != nil {
		h.logger.WithError(err).WithField("group", name).Error("Failed to enumerate group")
		respondError(w, http.StatusInternalServerError, "enumeration failed")
		return
	}

	h.metrics.EnumeratedFeatures.WithLabelValues(name).Set(float64(len(features)))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"group":    name,
		"count":    len(features),
		"features": features,
	})
}

// EnumerateAll returns the flattened feature universe.
// GET /api/features/enumerate
func (h *FeatureHandler) EnumerateAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var features []string
	err := h.cached(ctx, redis.EnumerationAllKey(h.catalogHash), redis.TTLLong, &features, func() (interface{}, error) {
		return h.enum.EnumerateAllFlat(), nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to enumerate features")
		respondError(w, http.StatusInternalServerError, "enumeration failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(features),
		"features": features,
	})
}

// Manifest returns the default training set's dataset identity.
// GET /api/features/manifest
func (h *FeatureHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var manifest training.Manifest
	err := h.cached(ctx, "manifest:"+h.catalogHash, redis.TTLDaily, &manifest, func() (interface{}, error) {
		set := training.DefaultFeatureSet(h.enum)
		return training.BuildManifest(set, h.registry)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build manifest")
		respondError(w, http.StatusInternalServerError, "manifest build failed")
		return
	}

	respondJSON(w, http.StatusOK, manifest)
}

// cached reads through the cache, recording hit/miss, and computes the
// value on miss. Cache failures degrade to computing fresh.
func (h *FeatureHandler) cached(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	found, err := h.cache.Get(ctx, key, dest)
	if err == nil && found {
		h.metrics.CacheRequests.WithLabelValues("enumeration", "hit").Inc()
		return nil
	}
	h.metrics.CacheRequests.WithLabelValues("enumeration", "miss").Inc()

	value, err := fn()
	if err != nil {
		return err
	}
	_ = h.cache.Set(ctx, key, value, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
