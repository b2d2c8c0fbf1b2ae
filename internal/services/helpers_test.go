package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resto-dashboard/internal/models"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// row builds an enriched record the way the loader and joiner would.
// sales == "" means an unparseable/null sales cell; customers < 0 means null.
func row(t *testing.T, key string, date time.Time, sales string, customers int64, country, city, name string) models.EnrichedRecord {
	t.Helper()

	year, month := date.Year(), int(date.Month())
	rec := models.EnrichedRecord{
		TransactionRecord: models.TransactionRecord{
			RestaurantKey: key,
			Date:          &date,
			Year:          &year,
			Month:         &month,
		},
	}
	if sales != "" {
		rec.SalesAmount = decimal.NewNullDecimal(decimalFromString(t, sales))
	}
	if customers >= 0 {
		rec.CustomerCount = &customers
	}
	if country != "" {
		rec.Country = &country
	}
	if city != "" {
		rec.City = &city
	}
	if name != "" {
		rec.RestaurantName = &name
	}
	return rec
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// sampleRecords is the two-restaurant fixture used across the aggregation
// and filter tests: R1 in France/Paris, R2 in Spain/Madrid.
func sampleRecords(t *testing.T) []models.EnrichedRecord {
	t.Helper()
	return []models.EnrichedRecord{
		row(t, "R1", day(2023, time.January, 15), "100", 10, "France", "Paris", "Bistro A"),
		row(t, "R2", day(2023, time.February, 20), "200", 5, "Spain", "Madrid", "Tapas B"),
	}
}
