package services

import (
	"context"
	"log/slog"
	"strconv"

	"resto-dashboard/internal/models"
	"resto-dashboard/internal/observability"
)

// Summary bundles the three aggregations computed for one filter selection.
type Summary struct {
	Monthly      []models.MonthRow      `json:"monthly"`
	ByRestaurant []models.CustomerTotal `json:"by_restaurant"`
	ByCountry    []models.CustomerTotal `json:"by_country"`
	RowCount     int                    `json:"row_count"`
}

// Analytics recomputes the full pipeline (load → join → filter → aggregate)
// for each incoming filter selection, reading the joined dataset through the
// store's cache.
type Analytics struct {
	store  *Store
	logger *slog.Logger
}

func NewAnalytics(store *Store, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{store: store, logger: logger}
}

// Query filters the dataset by sel and runs all three aggregations. An empty
// filtered set yields empty (not nil-error) results.
func (a *Analytics) Query(ctx context.Context, sel models.FilterSelection) (*Summary, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.query")
	defer span.Finish()

	ds, err := a.store.Dataset(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	_, filterSpan := observability.StartSpan(ctx, "pipeline.filter")
	filtered := Filter(ds.Records, sel)
	filterSpan.SetTag("rows", strconv.Itoa(len(filtered)))
	filterSpan.Finish()

	_, aggSpan := observability.StartSpan(ctx, "pipeline.aggregate")
	summary := &Summary{
		Monthly:      MonthlySummary(filtered),
		ByRestaurant: CustomersByRestaurant(filtered),
		ByCountry:    CustomersByCountry(filtered),
		RowCount:     len(filtered),
	}
	aggSpan.Finish()

	a.logger.Debug("summary computed",
		"rows", summary.RowCount,
		"months", len(summary.Monthly),
		"restaurants", len(summary.ByRestaurant),
		"countries", len(summary.ByCountry),
	)
	return summary, nil
}

// Facets returns the filter options derived from the full dataset.
func (a *Analytics) Facets(ctx context.Context) (models.Facets, error) {
	ds, err := a.store.Dataset(ctx)
	if err != nil {
		return models.Facets{}, err
	}
	return ds.Facets, nil
}

// Stats exposes cache state for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	return a.store.Stats()
}
