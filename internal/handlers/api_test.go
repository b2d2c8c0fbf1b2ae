package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resto-dashboard/internal/models"
	"resto-dashboard/internal/services"
)

func testAnalytics(t *testing.T) *services.Analytics {
	t.Helper()

	transactions := []models.TransactionRecord{
		testTransaction(t, "R1", time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC), "100", 10),
		testTransaction(t, "R2", time.Date(2023, time.February, 20, 0, 0, 0, 0, time.UTC), "200", 5),
	}
	locations := []models.LocationRecord{
		{RestaurantKey: "R1", Country: "France", City: "Paris", RestaurantName: "Bistro A"},
		{RestaurantKey: "R2", Country: "Spain", City: "Madrid", RestaurantName: "Tapas B"},
	}

	store := services.NewStore("", "", time.Hour, nil)
	store.SetData(services.Join(transactions, locations))
	return services.NewAnalytics(store, nil)
}

func testTransaction(t *testing.T, key string, date time.Time, sales string, customers int64) models.TransactionRecord {
	t.Helper()
	amount, err := decimal.NewFromString(sales)
	if err != nil {
		t.Fatal(err)
	}
	year, month := date.Year(), int(date.Month())
	return models.TransactionRecord{
		RestaurantKey: key,
		Date:          &date,
		SalesAmount:   decimal.NewNullDecimal(amount),
		CustomerCount: &customers,
		Year:          &year,
		Month:         &month,
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return response
}

func TestHandleMonthlySummary(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/monthly-summary", nil)
	w := httptest.NewRecorder()
	h.HandleMonthlySummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}

	response := decodeEnvelope(t, w)
	if response["success"] != true {
		t.Error("expected success envelope")
	}
	rows, ok := response["data"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 monthly rows, got %v", response["data"])
	}
}

func TestHandleMonthlySummary_CountryFilter(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/monthly-summary?country=France", nil)
	w := httptest.NewRecorder()
	h.HandleMonthlySummary(w, req)

	response := decodeEnvelope(t, w)
	rows, ok := response["data"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected 1 monthly row for France, got %v", response["data"])
	}
	row := rows[0].(map[string]any)
	if row["label"] != "Jan" {
		t.Errorf("label = %v, want Jan", row["label"])
	}
}

func TestHandleMonthlySummary_BadYear(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/monthly-summary?year_from=abc", nil)
	w := httptest.NewRecorder()
	h.HandleMonthlySummary(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	response := decodeEnvelope(t, w)
	if response["success"] != false {
		t.Error("expected error envelope")
	}
}

func TestHandleCustomersByRestaurant(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/customers-by-restaurant", nil)
	w := httptest.NewRecorder()
	h.HandleCustomersByRestaurant(w, req)

	response := decodeEnvelope(t, w)
	rows := response["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Sorted descending by customers: Bistro A has 10, Tapas B has 5.
	first := rows[0].(map[string]any)
	if first["name"] != "Bistro A" || first["total_customers"] != float64(10) {
		t.Errorf("first row = %v, want Bistro A with 10", first)
	}
}

func TestHandleCustomersByCountry(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/customers-by-country?country=France", nil)
	w := httptest.NewRecorder()
	h.HandleCustomersByCountry(w, req)

	response := decodeEnvelope(t, w)
	rows := response["data"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].(map[string]any)["name"] != "France" {
		t.Errorf("row = %v, want France", rows[0])
	}
}

func TestHandleFacets(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/facets", nil)
	w := httptest.NewRecorder()
	h.HandleFacets(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	if data["year_min"] != float64(2023) || data["year_max"] != float64(2023) {
		t.Errorf("year bounds = %v..%v, want 2023..2023", data["year_min"], data["year_max"])
	}
	countries := data["countries"].([]any)
	if len(countries) != 2 {
		t.Errorf("expected 2 countries, got %v", countries)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewAPIHandlers(testAnalytics(t), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestSelectionFromQuery_Defaults(t *testing.T) {
	facets := models.Facets{YearMin: 2020, YearMax: 2024}
	req := httptest.NewRequest(http.MethodGet, "/api/monthly-summary", nil)

	sel, err := selectionFromQuery(req.URL.Query(), facets)
	if err != nil {
		t.Fatal(err)
	}
	if sel.YearFrom != 2020 || sel.YearTo != 2024 {
		t.Errorf("default year range = %d..%d, want the facet bounds", sel.YearFrom, sel.YearTo)
	}
	if len(sel.Countries) != 0 || len(sel.Cities) != 0 || len(sel.Restaurants) != 0 {
		t.Error("facet sets default to empty (= unfiltered)")
	}
}
