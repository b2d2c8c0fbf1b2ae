package handlers

import (
	"testing"

	"github.com/shopspring/decimal"

	"resto-dashboard/internal/models"
)

func TestMonthlyChart(t *testing.T) {
	rows := []models.MonthRow{
		{Month: 1, Label: "Jan", TotalSales: decimal.NewFromInt(100), RestaurantCount: 2},
		{Month: 3, Label: "Mar", TotalSales: decimal.RequireFromString("25.50"), RestaurantCount: 1},
	}

	chart := monthlyChart(rows)
	if len(chart.Labels) != 2 || chart.Labels[0] != "Jan" || chart.Labels[1] != "Mar" {
		t.Errorf("labels = %v", chart.Labels)
	}
	if chart.Sales[0] != 100 || chart.Sales[1] != 25.5 {
		t.Errorf("sales = %v", chart.Sales)
	}
	if chart.Restaurants[0] != 2 || chart.Restaurants[1] != 1 {
		t.Errorf("restaurants = %v", chart.Restaurants)
	}
}

func TestCustomerPie(t *testing.T) {
	totals := []models.CustomerTotal{
		{Name: "France", TotalCustomers: 10},
		{Name: "Spain", TotalCustomers: 5},
	}

	chart := customerPie(totals)
	if len(chart.Labels) != 2 || chart.Labels[0] != "France" {
		t.Errorf("labels = %v", chart.Labels)
	}
	if chart.Values[0] != 10 || chart.Values[1] != 5 {
		t.Errorf("values = %v", chart.Values)
	}
}

func TestFormatEuro(t *testing.T) {
	if got := formatEuro(decimal.RequireFromString("1234.5")); got != "€1234.50" {
		t.Errorf("formatEuro = %q, want €1234.50", got)
	}
}
