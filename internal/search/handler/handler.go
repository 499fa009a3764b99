// Package handler exposes the search engine over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/facsearch/faculty-search/internal/querylog"
	"github.com/facsearch/faculty-search/internal/search"
	"github.com/facsearch/faculty-search/internal/search/cache"
	apperrors "github.com/facsearch/faculty-search/pkg/errors"
	"github.com/facsearch/faculty-search/pkg/logger"
	"github.com/facsearch/faculty-search/pkg/metrics"
	"github.com/facsearch/faculty-search/pkg/middleware"
)

// EngineSource hands out the engine currently being served, so the handler
// survives index hot-swaps.
type EngineSource interface {
	Engine() *search.Engine
}

// SearchResponse is the JSON body returned by the search endpoint: one page
// of results plus the cursor state.
type SearchResponse struct {
	Query       string            `json:"query"`
	Corrections map[string]string `json:"corrections,omitempty"`
	TotalHits   int               `json:"total_hits"`
	Page        int               `json:"page"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
	Results     []search.Result   `json:"results"`
}

// Handler serves the search API.
type Handler struct {
	engines     EngineSource
	cache       *cache.QueryCache
	collector   *querylog.Collector
	metrics     *metrics.Metrics
	pageSize    int
	maxPageSize int
	logger      *slog.Logger
}

// New wires the handler. cache, collector, and m may be nil.
func New(engines EngineSource, queryCache *cache.QueryCache, collector *querylog.Collector, m *metrics.Metrics, pageSize, maxPageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	return &Handler{
		engines:     engines,
		cache:       queryCache,
		collector:   collector,
		metrics:     m,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&page=...&page_size=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	page := 0
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page = parsed
	}
	pageSize := h.pageSize
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		if h.maxPageSize > 0 && parsed > h.maxPageSize {
			parsed = h.maxPageSize
		}
		pageSize = parsed
	}

	engine := h.engines.Engine()
	var resp *search.Response
	var err error
	cacheHit := false

	if h.cache != nil {
		resp, cacheHit, err = h.cache.GetOrCompute(ctx, query, func() (*search.Response, error) {
			return engine.Search(ctx, query)
		})
	} else {
		resp, err = engine.Search(ctx, query)
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrNoQueryTerms) {
			h.countQuery("no_terms")
			h.writeError(w, http.StatusBadRequest, "no terms to search")
			return
		}
		log.Error("search execution failed", "query", query, "error", err)
		h.countQuery("error")
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}

	pager := search.NewPaginator(resp.Results, pageSize)
	pager.Seek(page)

	latency := time.Since(start)
	if h.metrics != nil {
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		h.metrics.SearchResultsCount.Observe(float64(resp.TotalHits))
		h.metrics.SpellCorrectionsTotal.Add(float64(len(resp.Corrections)))
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
		if resp.TotalHits == 0 {
			h.countQuery("zero_result")
		} else {
			h.countQuery("hit")
		}
	}

	log.Info("search completed",
		"query", query,
		"total_hits", resp.TotalHits,
		"page", pager.PageNumber(),
		"returned", len(pager.Page()),
		"corrections", len(resp.Corrections),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	if h.collector != nil {
		h.collector.Track(querylog.QueryEvent{
			Query:       query,
			Corrections: resp.Corrections,
			TotalHits:   resp.TotalHits,
			Returned:    len(pager.Page()),
			LatencyMs:   latency.Milliseconds(),
			CacheHit:    cacheHit,
			Timestamp:   time.Now().UTC(),
			RequestID:   middleware.GetRequestID(ctx),
		})
	}

	pageResults := pager.Page()
	if pageResults == nil {
		pageResults = []search.Result{}
	}
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:       resp.Query,
		Corrections: resp.Corrections,
		TotalHits:   resp.TotalHits,
		Page:        pager.PageNumber(),
		TotalPages:  pager.TotalPages(),
		HasNext:     pager.HasNext(),
		HasPrevious: pager.HasPrevious(),
		Results:     pageResults,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) countQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
