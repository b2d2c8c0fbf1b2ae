package handlers

import (
	"github.com/shopspring/decimal"

	"resto-dashboard/internal/models"
)

// ChartData is the generic labels/values pair the charts consume.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// MonthlyChart carries both series of the dual-axis monthly chart: sales as
// bars, restaurant counts as a line.
type MonthlyChart struct {
	Labels      []string  `json:"labels"`
	Sales       []float64 `json:"sales"`
	Restaurants []float64 `json:"restaurants"`
}

// DashboardCharts is the signal payload pushed to the page on every filter
// change.
type DashboardCharts struct {
	Monthly MonthlyChart `json:"monthly"`
	Pie     ChartData    `json:"pie"`
}

func monthlyChart(rows []models.MonthRow) MonthlyChart {
	chart := MonthlyChart{
		Labels:      make([]string, 0, len(rows)),
		Sales:       make([]float64, 0, len(rows)),
		Restaurants: make([]float64, 0, len(rows)),
	}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.Label)
		chart.Sales = append(chart.Sales, row.TotalSales.InexactFloat64())
		chart.Restaurants = append(chart.Restaurants, float64(row.RestaurantCount))
	}
	return chart
}

func customerPie(totals []models.CustomerTotal) ChartData {
	chart := ChartData{
		Labels: make([]string, 0, len(totals)),
		Values: make([]float64, 0, len(totals)),
	}
	for _, t := range totals {
		chart.Labels = append(chart.Labels, t.Name)
		chart.Values = append(chart.Values, float64(t.TotalCustomers))
	}
	return chart
}

func formatEuro(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}
