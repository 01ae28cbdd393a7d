package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/dataset"
	"github.com/ignite/commerce-pulse/internal/insights"
	"github.com/ignite/commerce-pulse/internal/metrics"
	"github.com/ignite/commerce-pulse/internal/sales"
)

// Handlers serves the analytics API over a loaded dataset. The raw tables
// are read-only; every request unifies and computes fresh, so concurrent
// requests with different filters never interfere.
type Handlers struct {
	tables    *dataset.RawTables
	cfg       *config.Config
	generator *insights.Generator
	cache     *Cache
}

// NewHandlers creates the handler set.
func NewHandlers(tables *dataset.RawTables, cfg *config.Config, cache *Cache) *Handlers {
	return &Handlers{
		tables:    tables,
		cfg:       cfg,
		generator: insights.NewGenerator(),
		cache:     cache,
	}
}

// HealthCheck reports service liveness and dataset presence.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.tables == nil {
		status = "no dataset loaded"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

// requestFilter is the parsed query-parameter filter for one request.
type requestFilter struct {
	sales.Filter
	ComparisonYear int
}

// parseFilter reads year/month/status query params, falling back to the
// configured analysis defaults. status=all disables the status filter.
func (h *Handlers) parseFilter(r *http.Request) (requestFilter, error) {
	f := requestFilter{}
	f.Status = h.cfg.Analysis.StatusFilter
	f.Year = h.cfg.Analysis.TargetYear

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid year %q", v)
		}
		f.Year = year
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return f, fmt.Errorf("invalid month %q", v)
		}
		f.Month = month
	}
	if v := q.Get("status"); v != "" {
		if v == "all" {
			f.Status = ""
		} else {
			f.Status = v
		}
	}

	if f.Year != 0 {
		f.ComparisonYear = f.Year - 1
		if f.Year == h.cfg.Analysis.TargetYear && h.cfg.Analysis.ComparisonYear != 0 {
			f.ComparisonYear = h.cfg.Analysis.ComparisonYear
		}
	}
	return f, nil
}

// unify builds the primary and comparison tables for a request filter.
func (h *Handlers) unify(f requestFilter) (primary, comparison *sales.Table) {
	opts := sales.Options{ReviewAggregation: h.cfg.Analysis.ReviewAggregation}
	primary = sales.UnifyWithOptions(h.tables, f.Filter, opts)
	if f.ComparisonYear != 0 {
		cf := sales.Filter{Status: f.Status, Year: f.ComparisonYear, Month: f.Month}
		comparison = sales.UnifyWithOptions(h.tables, cf, opts)
	}
	return primary, comparison
}

// withTables rejects requests until a dataset is loaded, then parses the
// filter and hands both tables to fn.
func (h *Handlers) withTables(w http.ResponseWriter, r *http.Request,
	fn func(f requestFilter, primary, comparison *sales.Table)) {
	if h.tables == nil {
		respondError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	f, err := h.parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	primary, comparison := h.unify(f)
	fn(f, primary, comparison)
}

// GetDashboard returns the complete dashboard payload: executive summary,
// every breakdown, trend, and insights. Cached per filter combination.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, comparison *sales.Table) {
		key := fmt.Sprintf("dashboard:%d:%d:%s", f.Year, f.Month, f.Status)
		if data, ok := h.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}

		summary := metrics.Summary(primary, comparison, h.cfg.Delivery.Buckets)
		payload := map[string]interface{}{
			"report_id": uuid.New().String(),
			"timestamp": time.Now().UTC(),
			"filter": map[string]interface{}{
				"year":            f.Year,
				"month":           f.Month,
				"status":          f.Status,
				"comparison_year": f.ComparisonYear,
			},
			"summary":             summary,
			"categories":          metrics.Categories(primary),
			"geography":           metrics.Geography(primary),
			"delivery":            metrics.Delivery(primary, h.cfg.Delivery.Buckets),
			"satisfaction":        metrics.Satisfaction(primary),
			"trend":               metrics.MonthlyTrend(primary),
			"status_distribution": metrics.StatusDistribution(h.tables.Orders, f.Year),
			"insights":            h.generator.Generate(summary, h.cfg.Insights.Rules),
			"excluded":            primary.Excluded,
		}
		if primary.Empty() {
			payload["empty"] = true
			payload["note"] = "no data for selected filters"
		}

		data, err := json.Marshal(payload)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "encoding dashboard payload")
			return
		}
		h.cache.Set(r.Context(), key, data)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "miss")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	})
}

// GetRevenueMetrics returns revenue totals and growth for the filter.
func (h *Handlers) GetRevenueMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, comparison *sales.Table) {
		respondResult(w, primary, metrics.Revenue(primary, comparison))
	})
}

// GetOrderMetrics returns distinct-order counts and growth.
func (h *Handlers) GetOrderMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, comparison *sales.Table) {
		respondResult(w, primary, metrics.Orders(primary, comparison))
	})
}

// GetCategoryMetrics returns the product category breakdown.
func (h *Handlers) GetCategoryMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, _ *sales.Table) {
		respondResult(w, primary, metrics.Categories(primary))
	})
}

// GetGeographyMetrics returns the per-state breakdown.
func (h *Handlers) GetGeographyMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, _ *sales.Table) {
		respondResult(w, primary, metrics.Geography(primary))
	})
}

// GetDeliveryMetrics returns delivery speed performance.
func (h *Handlers) GetDeliveryMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, _ *sales.Table) {
		respondResult(w, primary, metrics.Delivery(primary, h.cfg.Delivery.Buckets))
	})
}

// GetSatisfactionMetrics returns review score performance.
func (h *Handlers) GetSatisfactionMetrics(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, _ *sales.Table) {
		respondResult(w, primary, metrics.Satisfaction(primary))
	})
}

// GetTrend returns monthly revenue points for charting.
func (h *Handlers) GetTrend(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, _ *sales.Table) {
		respondResult(w, primary, metrics.MonthlyTrend(primary))
	})
}

// GetInsights returns the triggered insight rules for the filter.
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	h.withTables(w, r, func(f requestFilter, primary, comparison *sales.Table) {
		summary := metrics.Summary(primary, comparison, h.cfg.Delivery.Buckets)
		respondResult(w, primary, h.generator.Generate(summary, h.cfg.Insights.Rules))
	})
}

// respondResult wraps a metric result, flagging empty filter matches so the
// UI can show "no data for selected filters" instead of an error state.
func respondResult(w http.ResponseWriter, primary *sales.Table, result interface{}) {
	payload := map[string]interface{}{"result": result}
	if primary.Empty() {
		payload["empty"] = true
		payload["note"] = "no data for selected filters"
	}
	respondJSON(w, http.StatusOK, payload)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
