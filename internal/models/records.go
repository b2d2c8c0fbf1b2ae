package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one row of the sales file after coercion.
// Cells that fail numeric or date parsing become null instead of failing
// the load; Year and Month are derived from Date and are null whenever
// Date is.
type TransactionRecord struct {
	RestaurantKey string
	Date          *time.Time
	SalesAmount   decimal.NullDecimal
	CustomerCount *int64
	Year          *int
	Month         *int
}

// LocationRecord is one row of the location directory. RestaurantKey is
// assumed unique across the file.
type LocationRecord struct {
	RestaurantKey  string
	Country        string
	City           string
	RestaurantName string
}

// EnrichedRecord is a transaction with its location columns attached by the
// left join. The location fields are nil when the key has no match.
type EnrichedRecord struct {
	TransactionRecord
	Country        *string
	City           *string
	RestaurantName *string
}

// FilterSelection holds the current UI selections. An empty slice means the
// facet is not filtered at all. The dashboard defaults select every country
// and city but no restaurant, so "none selected" and "all selected" behave
// identically for each facet; that asymmetry matches the original UI and is
// intentional.
type FilterSelection struct {
	YearFrom    int
	YearTo      int
	Countries   []string
	Cities      []string
	Restaurants []string
}

// MonthRow is one row of the monthly summary: total sales and the number of
// distinct restaurants that traded in that month.
type MonthRow struct {
	Month           int             `json:"month"`
	Label           string          `json:"label"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	RestaurantCount int             `json:"restaurant_count"`
}

// CustomerTotal is one row of a customers-per-group table, where the group
// is either a restaurant name or a country.
type CustomerTotal struct {
	Name           string `json:"name"`
	TotalCustomers int64  `json:"total_customers"`
}

// Facets lists the distinct values available for each filter control, plus
// the year bounds observed in the data.
type Facets struct {
	YearMin     int      `json:"year_min"`
	YearMax     int      `json:"year_max"`
	Countries   []string `json:"countries"`
	Cities      []string `json:"cities"`
	Restaurants []string `json:"restaurants"`
}
