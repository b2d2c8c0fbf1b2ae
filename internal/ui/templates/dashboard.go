package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"resto-dashboard/internal/models"
)

type dashboardData struct {
	Facets  models.Facets
	Signals string
}

// Dashboard renders the interactive page. The filter controls are bound to
// datastar signals seeded here: full year range, every country and city
// selected, no restaurant selected. Tables and chart data arrive over SSE
// from /sse/dashboard.
func Dashboard(facets models.Facets) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(map[string]any{
			"yearFrom":    facets.YearMin,
			"yearTo":      facets.YearMax,
			"countries":   facets.Countries,
			"cities":      facets.Cities,
			"restaurants": []string{},
			"charts": map[string]any{
				"monthly": map[string]any{"labels": []string{}, "sales": []float64{}, "restaurants": []float64{}},
				"pie":     map[string]any{"labels": []string{}, "values": []float64{}},
			},
		})
		if err != nil {
			return fmt.Errorf("marshal dashboard signals: %w", err)
		}
		return dashboardTemplate.Execute(w, dashboardData{
			Facets:  facets,
			Signals: string(signals),
		})
	})
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Data Analysis Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 1rem; background: #f4f4f5; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
label { display: block; margin-top: 1rem; font-weight: 600; font-size: 0.9rem; }
select, input { width: 100%; margin-top: 0.25rem; }
select[multiple] { height: 8rem; }
.data-table { border-collapse: collapse; width: 100%; max-width: 640px; }
.data-table th, .data-table td { border: 1px solid #d4d4d8; padding: 0.4rem 0.6rem; text-align: left; }
.data-table th { background: #e4e4e7; }
.empty { color: #71717a; font-style: italic; }
.error { color: #b91c1c; }
canvas { max-width: 720px; }
</style>
</head>
<body data-signals="{{.Signals}}" data-on-load="@get('/sse/dashboard')">
<aside>
<h1>Filters</h1>
<label for="year-from">Year from</label>
<input id="year-from" type="number" data-bind-year-from data-on-change="@get('/sse/dashboard')" min="{{.Facets.YearMin}}" max="{{.Facets.YearMax}}"/>
<label for="year-to">Year to</label>
<input id="year-to" type="number" data-bind-year-to data-on-change="@get('/sse/dashboard')" min="{{.Facets.YearMin}}" max="{{.Facets.YearMax}}"/>
<label for="countries">Country/Countries</label>
<select id="countries" multiple data-bind-countries data-on-change="@get('/sse/dashboard')">
{{range .Facets.Countries}}<option value="{{.}}" selected>{{.}}</option>
{{end}}</select>
<label for="cities">City/Cities</label>
<select id="cities" multiple data-bind-cities data-on-change="@get('/sse/dashboard')">
{{range .Facets.Cities}}<option value="{{.}}" selected>{{.}}</option>
{{end}}</select>
<label for="restaurants">Restaurant(s)</label>
<select id="restaurants" multiple data-bind-restaurants data-on-change="@get('/sse/dashboard')">
{{range .Facets.Restaurants}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</aside>
<main>
<h1>🌍 Data Analysis Dashboard</h1>
<p>Interactive dashboard to analyze sales and customer data.</p>

<h2>Monthly Sales and Restaurant Count</h2>
<div id="monthly-table"><p class="empty">Loading…</p></div>
<canvas id="monthly-chart"></canvas>

<h2>Total Customers per Restaurant</h2>
<div id="restaurant-table"><p class="empty">Loading…</p></div>

<h2>Total Customers per Country</h2>
<div id="country-table"><p class="empty">Loading…</p></div>

<h2>Customer Distribution by Country</h2>
<canvas id="pie-chart"></canvas>

<div data-effect="window.renderCharts($charts)"></div>
</main>
<script>
window.dashboardCharts = {};
window.renderCharts = function (charts) {
	if (!charts || !window.Chart) return;
	var existing = window.dashboardCharts;
	if (existing.monthly) existing.monthly.destroy();
	if (existing.pie) existing.pie.destroy();

	existing.monthly = new Chart(document.getElementById('monthly-chart'), {
		data: {
			labels: charts.monthly.labels,
			datasets: [
				{ type: 'bar', label: 'Sales (€)', data: charts.monthly.sales, backgroundColor: '#2563eb', yAxisID: 'y' },
				{ type: 'line', label: 'Number of Restaurants', data: charts.monthly.restaurants, borderColor: '#f97316', backgroundColor: '#f97316', yAxisID: 'y2' }
			]
		},
		options: {
			scales: {
				y: { position: 'left', title: { display: true, text: 'Sales (€)' } },
				y2: { position: 'right', grid: { drawOnChartArea: false }, title: { display: true, text: 'Number of Restaurants' } }
			}
		}
	});

	existing.pie = new Chart(document.getElementById('pie-chart'), {
		type: 'doughnut',
		data: {
			labels: charts.pie.labels,
			datasets: [{ data: charts.pie.values }]
		}
	});
};
</script>
</body>
</html>`))
