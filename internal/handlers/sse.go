package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"olist-dashboard/internal/models"
	"olist-dashboard/internal/services"
)

const maxStateRows = 30

var overviewTemplate = template.Must(template.New("overview").Parse(`
<div id="overview-content">
<div class="metric-row">
<div class="metric-card"><span class="metric-label">Total Orders</span><span class="metric-value">{{.TotalOrders}}</span></div>
<div class="metric-card"><span class="metric-label">Customers</span><span class="metric-value">{{.TotalCustomers}}</span></div>
<div class="metric-card"><span class="metric-label">Revenue</span><span class="metric-value">R$ {{printf "%.2f" .TotalRevenue}}</span></div>
<div class="metric-card"><span class="metric-label">Avg Review</span><span class="metric-value">{{printf "%.2f" .AvgReviewScore}}</span></div>
</div>
<table class="modern-table">
<thead><tr><th>Category</th><th>Revenue</th><th>Orders</th></tr></thead>
<tbody>
{{range .TopCategories}}<tr>
<td>{{.Category}}</td>
<td><strong>R$ {{printf "%.2f" .Revenue}}</strong></td>
<td>{{.Orders}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var deliveryTemplate = template.Must(template.New("delivery").Parse(`
<div id="delivery-content">
<div class="metric-row">
<div class="metric-card"><span class="metric-label">Avg Delivery</span><span class="metric-value">{{printf "%.1f" .AvgDeliveryDays}} days</span></div>
<div class="metric-card"><span class="metric-label">On-Time Rate</span><span class="metric-value">{{printf "%.1f" .OnTimeRate}}%</span></div>
<div class="metric-card"><span class="metric-label">Delayed Orders</span><span class="metric-value">{{.DelayedOrders}}</span></div>
</div>
<table class="modern-table">
<thead><tr><th>Delay</th><th>Orders</th><th>Satisfied</th><th>Unsatisfied</th></tr></thead>
<tbody>
{{range .DelayBuckets}}<tr>
<td>{{.Label}}</td>
<td>{{.Orders}}</td>
<td>{{printf "%.1f" .SatisfiedRate}}%</td>
<td>{{printf "%.1f" .UnsatisfiedRate}}%</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var segmentsTemplate = template.Must(template.New("segments").Parse(`
<div id="segments-content">
<div class="metric-row">
<div class="metric-card"><span class="metric-label">Champions</span><span class="metric-value">{{.Champions}}</span></div>
<div class="metric-card"><span class="metric-label">At Risk</span><span class="metric-value">{{.AtRisk}}</span></div>
<div class="metric-card"><span class="metric-label">Avg Customer Value</span><span class="metric-value">R$ {{printf "%.2f" .AvgMonetary}}</span></div>
<div class="metric-card"><span class="metric-label">Avg Frequency</span><span class="metric-value">{{printf "%.2f" .AvgFrequency}}</span></div>
</div>
<table class="modern-table">
<thead><tr><th>Segment</th><th>Customers</th><th>Revenue</th><th>Avg Recency</th><th>Avg Frequency</th><th>Avg Monetary</th></tr></thead>
<tbody>
{{range .Segments}}<tr>
<td><span class="category-badge">{{.Segment}}</span></td>
<td>{{.Customers}}</td>
<td><strong>R$ {{printf "%.2f" .Revenue}}</strong></td>
<td>{{printf "%.1f" .AvgRecency}}</td>
<td>{{printf "%.2f" .AvgFrequency}}</td>
<td>R$ {{printf "%.2f" .AvgMonetary}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var statesTemplate = template.Must(template.New("states").Parse(`
<div id="states-content">
<div class="metric-row">
<div class="metric-card"><span class="metric-label">Top State</span><span class="metric-value">{{.TopState}}</span></div>
<div class="metric-card"><span class="metric-label">Top Revenue</span><span class="metric-value">R$ {{printf "%.2f" .TopRevenue}}</span></div>
<div class="metric-card"><span class="metric-label">Market Share</span><span class="metric-value">{{printf "%.1f" .MarketShare}}%</span></div>
<div class="metric-card"><span class="metric-label">Top 5 Share</span><span class="metric-value">{{printf "%.1f" .Top5Share}}%</span></div>
</div>
<table class="modern-table">
<thead><tr><th>State</th><th>Customers</th><th>Orders</th><th>Sellers</th><th>Revenue</th><th>Revenue/Customer</th></tr></thead>
<tbody>
{{range $i, $s := .States}}{{if lt $i $.MaxRows}}<tr>
<td>{{.State}}</td>
<td>{{.Customers}}</td>
<td>{{.Orders}}</td>
<td>{{.Sellers}}</td>
<td><strong>R$ {{printf "%.2f" .Revenue}}</strong></td>
<td>R$ {{printf "%.2f" .RevenuePerCustomer}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

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

type statesTemplateData struct {
	models.GeographyReport
	MaxRows int
}

func renderFragment(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}

func (h *SSEHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("overview sse filter", "error", err)
		return
	}
	sse := datastar.NewSSE(w, r)

	overview := h.analytics.Overview(filter)
	html, err := renderFragment(overviewTemplate, overview)
	if err != nil {
		h.logger.Error("render overview fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"monthlyData": overview.MonthlyOrders,
		"reviewData":  overview.ReviewScores,
	})
	if err != nil {
		h.logger.Error("marshal overview signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleDelivery(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("delivery sse filter", "error", err)
		return
	}
	sse := datastar.NewSSE(w, r)

	delivery := h.analytics.Delivery(filter)
	html, err := renderFragment(deliveryTemplate, delivery)
	if err != nil {
		h.logger.Error("render delivery fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"delayData": delivery.DelayBuckets,
	})
	if err != nil {
		h.logger.Error("marshal delivery signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRFM(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("rfm sse filter", "error", err)
		return
	}
	sse := datastar.NewSSE(w, r)

	rfm := h.analytics.RFM(filter)
	html, err := renderFragment(segmentsTemplate, rfm)
	if err != nil {
		h.logger.Error("render segments fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"segmentData": rfm.Segments,
	})
	if err != nil {
		h.logger.Error("marshal segment signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleStates(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("states sse filter", "error", err)
		return
	}
	sse := datastar.NewSSE(w, r)

	geography := h.analytics.Geography(filter)
	html, err := renderFragment(statesTemplate, statesTemplateData{
		GeographyReport: geography,
		MaxRows:         maxStateRows,
	})
	if err != nil {
		h.logger.Error("render states fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"statesData": geography.States,
	})
	if err != nil {
		h.logger.Error("marshal states signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll re-renders every fragment and resends every chart
// signal in one stream, for the dashboard refresh action.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("refresh sse filter", "error", err)
		return
	}
	sse := datastar.NewSSE(w, r)

	overview := h.analytics.Overview(filter)
	delivery := h.analytics.Delivery(filter)
	rfm := h.analytics.RFM(filter)
	geography := h.analytics.Geography(filter)

	fragments := []struct {
		tmpl *template.Template
		data any
	}{
		{overviewTemplate, overview},
		{deliveryTemplate, delivery},
		{segmentsTemplate, rfm},
		{statesTemplate, statesTemplateData{GeographyReport: geography, MaxRows: maxStateRows}},
	}
	for _, f := range fragments {
		html, err := renderFragment(f.tmpl, f.data)
		if err != nil {
			h.logger.Error("render fragment", "template", f.tmpl.Name(), "error", err)
			return
		}
		sse.PatchElements(html)
	}

	signals, err := json.Marshal(map[string]any{
		"monthlyData": overview.MonthlyOrders,
		"reviewData":  overview.ReviewScores,
		"delayData":   delivery.DelayBuckets,
		"segmentData": rfm.Segments,
		"statesData":  geography.States,
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
