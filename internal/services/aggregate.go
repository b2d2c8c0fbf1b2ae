package services

import (
	"slices"

	"github.com/shopspring/decimal"

	"resto-dashboard/internal/models"
)

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthlySummary groups the records by month: total sales (null amounts
// count as zero) and the number of distinct restaurant keys seen that
// month. Months with no rows are omitted, not zero-filled. Rows come back
// in month order.
func MonthlySummary(records []models.EnrichedRecord) []models.MonthRow {
	type monthGroup struct {
		sales decimal.Decimal
		keys  map[string]struct{}
	}

	groups := make(map[int]*monthGroup)
	for _, rec := range records {
		if rec.Month == nil {
			continue
		}
		g := groups[*rec.Month]
		if g == nil {
			g = &monthGroup{keys: make(map[string]struct{})}
			groups[*rec.Month] = g
		}
		if rec.SalesAmount.Valid {
			g.sales = g.sales.Add(rec.SalesAmount.Decimal)
		}
		if rec.RestaurantKey != "" {
			g.keys[rec.RestaurantKey] = struct{}{}
		}
	}

	rows := make([]models.MonthRow, 0, len(groups))
	for month := 1; month <= 12; month++ {
		g, ok := groups[month]
		if !ok {
			continue
		}
		rows = append(rows, models.MonthRow{
			Month:           month,
			Label:           monthLabels[month-1],
			TotalSales:      g.sales,
			RestaurantCount: len(g.keys),
		})
	}
	return rows
}

// CustomersByRestaurant sums customer counts per restaurant name, ordered
// by total descending. Rows with no restaurant name (unmatched join) are
// dropped from the grouping.
func CustomersByRestaurant(records []models.EnrichedRecord) []models.CustomerTotal {
	return customerTotals(records, func(rec models.EnrichedRecord) *string {
		return rec.RestaurantName
	})
}

// CustomersByCountry sums customer counts per country, ordered by total
// descending. Rows with no country are dropped from the grouping.
func CustomersByCountry(records []models.EnrichedRecord) []models.CustomerTotal {
	return customerTotals(records, func(rec models.EnrichedRecord) *string {
		return rec.Country
	})
}

func customerTotals(records []models.EnrichedRecord, groupKey func(models.EnrichedRecord) *string) []models.CustomerTotal {
	totals := make([]models.CustomerTotal, 0)
	index := make(map[string]int)

	for _, rec := range records {
		key := groupKey(rec)
		if key == nil {
			continue
		}
		i, ok := index[*key]
		if !ok {
			i = len(totals)
			index[*key] = i
			totals = append(totals, models.CustomerTotal{Name: *key})
		}
		if rec.CustomerCount != nil {
			totals[i].TotalCustomers += *rec.CustomerCount
		}
	}

	// Stable sort keeps encounter order for equal totals.
	slices.SortStableFunc(totals, func(a, b models.CustomerTotal) int {
		switch {
		case a.TotalCustomers > b.TotalCustomers:
			return -1
		case a.TotalCustomers < b.TotalCustomers:
			return 1
		default:
			return 0
		}
	})
	return totals
}
