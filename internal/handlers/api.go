package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"resto-dashboard/internal/errors"
	"resto-dashboard/internal/models"
	"resto-dashboard/internal/observability"
	"resto-dashboard/internal/services"
)

const cacheControl = "no-store"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// selectionFromQuery builds a FilterSelection from query parameters. The
// year bounds default to the full range observed in the data; the three
// set facets come from repeated country/city/restaurant parameters and
// default to empty (= unfiltered).
func selectionFromQuery(q url.Values, facets models.Facets) (models.FilterSelection, error) {
	sel := models.FilterSelection{
		YearFrom:    facets.YearMin,
		YearTo:      facets.YearMax,
		Countries:   q["country"],
		Cities:      q["city"],
		Restaurants: q["restaurant"],
	}

	if v := q.Get("year_from"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, errors.BadRequest("year_from must be an integer")
		}
		sel.YearFrom = year
	}
	if v := q.Get("year_to"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, errors.BadRequest("year_to must be an integer")
		}
		sel.YearTo = year
	}
	return sel, nil
}

func (h *APIHandlers) querySummary(w http.ResponseWriter, r *http.Request) (*services.Summary, bool) {
	requestID := observability.GetRequestID(r.Context())

	facets, err := h.analytics.Facets(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, errors.LoadWrap(err, "source data unavailable"), requestID)
		return nil, false
	}

	sel, err := selectionFromQuery(r.URL.Query(), facets)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	summary, err := h.analytics.Query(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, errors.LoadWrap(err, "source data unavailable"), requestID)
		return nil, false
	}
	return summary, true
}

func (h *APIHandlers) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.querySummary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, summary.Monthly, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleCustomersByRestaurant(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.querySummary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, summary.ByRestaurant, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleCustomersByCountry(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.querySummary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, summary.ByCountry, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.analytics.Facets(r.Context())
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.LoadWrap(err, "source data unavailable"), requestID)
		return
	}
	errors.WriteSuccess(w, facets)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
