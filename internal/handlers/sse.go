package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"resto-dashboard/internal/models"
	"resto-dashboard/internal/services"
)

var tableFuncs = template.FuncMap{
	"euro": formatEuro,
}

var monthlyTableTemplate = template.Must(template.New("monthlyTable").Funcs(tableFuncs).Parse(`
<div id="monthly-table">
<table class="data-table">
<thead><tr><th>Month</th><th>Total Sales (€)</th><th>Number of Restaurants</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Label}}</td>
<td><strong>{{euro .TotalSales}}</strong></td>
<td>{{.RestaurantCount}}</td>
</tr>
{{else}}<tr><td colspan="3" class="empty">No data for the current selection</td></tr>
{{end}}</tbody>
</table>
</div>`))

var customersTableTemplate = template.Must(template.New("customersTable").Parse(`
<div id="{{.ID}}">
<table class="data-table">
<thead><tr><th>{{.GroupHeader}}</th><th>Total Customers</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Name}}</td>
<td>{{.TotalCustomers}}</td>
</tr>
{{else}}<tr><td colspan="2" class="empty">No data for the current selection</td></tr>
{{end}}</tbody>
</table>
</div>`))

type customersTableData struct {
	ID          string
	GroupHeader string
	Rows        []models.CustomerTotal
}

// dashboardSignals mirrors the filter signals bound on the page.
type dashboardSignals struct {
	YearFrom    int      `json:"yearFrom"`
	YearTo      int      `json:"yearTo"`
	Countries   []string `json:"countries"`
	Cities      []string `json:"cities"`
	Restaurants []string `json:"restaurants"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard recomputes the whole pipeline for the selection carried in
// the datastar signals and patches every table and chart in one SSE stream.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read dashboard signals", "error", err)
		return
	}

	sel := models.FilterSelection{
		YearFrom:    signals.YearFrom,
		YearTo:      signals.YearTo,
		Countries:   signals.Countries,
		Cities:      signals.Cities,
		Restaurants: signals.Restaurants,
	}

	summary, err := h.analytics.Query(r.Context(), sel)
	if err != nil {
		h.logger.Error("dashboard query", "error", err)
		h.patchErrorState(sse)
		return
	}

	monthlyHTML, err := renderTemplate(monthlyTableTemplate, summary.Monthly)
	if err != nil {
		h.logger.Error("render monthly table", "error", err)
		return
	}
	sse.PatchElements(monthlyHTML)

	restaurantHTML, err := renderTemplate(customersTableTemplate, customersTableData{
		ID:          "restaurant-table",
		GroupHeader: "Restaurant Name",
		Rows:        summary.ByRestaurant,
	})
	if err != nil {
		h.logger.Error("render restaurant table", "error", err)
		return
	}
	sse.PatchElements(restaurantHTML)

	countryHTML, err := renderTemplate(customersTableTemplate, customersTableData{
		ID:          "country-table",
		GroupHeader: "Country",
		Rows:        summary.ByCountry,
	})
	if err != nil {
		h.logger.Error("render country table", "error", err)
		return
	}
	sse.PatchElements(countryHTML)

	charts, err := json.Marshal(map[string]any{
		"charts": DashboardCharts{
			Monthly: monthlyChart(summary.Monthly),
			Pie:     customerPie(summary.ByCountry),
		},
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(charts)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// patchErrorState replaces every table with an error notice and blanks the
// chart signals so no stale data survives a failed reload.
func (h *SSEHandlers) patchErrorState(sse *datastar.ServerSentEventGenerator) {
	const notice = ` class="error">Source data unavailable</div>`
	sse.PatchElements(`<div id="monthly-table"` + notice)
	sse.PatchElements(`<div id="restaurant-table"` + notice)
	sse.PatchElements(`<div id="country-table"` + notice)

	empty, err := json.Marshal(map[string]any{
		"charts": DashboardCharts{
			Monthly: monthlyChart(nil),
			Pie:     customerPie(nil),
		},
	})
	if err != nil {
		h.logger.Error("marshal empty chart signals", "error", err)
		return
	}
	sse.PatchSignals(empty)
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}
