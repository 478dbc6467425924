package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Each page renders a static shell whose content div hydrates itself
// from an SSE endpoint on load; the filter bar re-fetches the same
// endpoint with query parameters.

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
header { background: #1f77b4; color: #fff; padding: 16px 24px; }
header h1 { margin: 0; font-size: 22px; }
nav { background: #fff; padding: 8px 24px; border-bottom: 1px solid #dfe6e9; }
nav a { margin-right: 16px; color: #1f77b4; text-decoration: none; font-weight: 600; }
nav a.active { color: #2d3436; border-bottom: 2px solid #1f77b4; }
main { padding: 24px; max-width: 1100px; margin: 0 auto; }
.filter-bar { display: flex; gap: 12px; margin-bottom: 20px; align-items: center; }
.filter-bar input, .filter-bar select { padding: 6px 8px; border: 1px solid #b2bec3; border-radius: 4px; }
.filter-bar button { padding: 6px 14px; background: #1f77b4; color: #fff; border: 0; border-radius: 4px; cursor: pointer; }
.metric-row { display: flex; gap: 16px; margin-bottom: 20px; flex-wrap: wrap; }
.metric-card { background: #fff; border-radius: 8px; padding: 16px 20px; box-shadow: 0 1px 3px rgba(0,0,0,.08); min-width: 150px; display: flex; flex-direction: column; }
.metric-label { font-size: 12px; color: #636e72; text-transform: uppercase; }
.metric-value { font-size: 24px; font-weight: 700; margin-top: 4px; }
.modern-table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.modern-table th { background: #1f77b4; color: #fff; text-align: left; padding: 10px 12px; font-size: 13px; }
.modern-table td { padding: 8px 12px; border-bottom: 1px solid #f1f2f6; font-size: 14px; }
.category-badge { background: #e8f4fd; color: #1f77b4; border-radius: 10px; padding: 2px 10px; font-size: 12px; font-weight: 600; }
.loading { color: #636e72; padding: 40px; text-align: center; }
`

const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

type page struct {
	title      string
	path       string
	contentID  string
	ssePath    string
	exportLink string
}

var pages = []page{
	{"Overview", "/", "overview-content", "/sse/overview", "/api/export/csv?report=monthly"},
	{"Delivery", "/delivery", "delivery-content", "/sse/delivery", "/api/export/xlsx"},
	{"Segments", "/segments", "segments-content", "/sse/rfm", "/api/export/csv?report=segments"},
	{"Geography", "/geography", "states-content", "/sse/states", "/api/export/csv?report=states"},
}

// Overview is the business overview page.
func Overview() templ.Component { return render(pages[0]) }

// Delivery is the delivery performance page.
func Delivery() templ.Component { return render(pages[1]) }

// Segments is the RFM customer segmentation page.
func Segments() templ.Component { return render(pages[2]) }

// Geography is the state revenue distribution page.
func Geography() templ.Component { return render(pages[3]) }

func render(p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, p.title); err != nil {
			return err
		}
		if err := writeNav(w, p.path); err != nil {
			return err
		}
		if err := writeBody(w, p); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

func writeHead(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s · Olist Insights</title>
<script type="module" src="%s"></script>
<style>%s</style>
</head>
<body>
<header><h1>Olist E-Commerce Insights</h1></header>
`, templ.EscapeString(title), datastarCDN, styles)
	return err
}

func writeNav(w io.Writer, activePath string) error {
	if _, err := io.WriteString(w, "<nav>"); err != nil {
		return err
	}
	for _, p := range pages {
		class := ""
		if p.path == activePath {
			class = ` class="active"`
		}
		if _, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`, p.path, class, templ.EscapeString(p.title)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</nav><main>")
	return err
}

// writeBody emits the filter bar and the self-hydrating content
// container. The filter inputs are datastar signals interpolated into
// the SSE query string on apply.
func writeBody(w io.Writer, p page) error {
	_, err := fmt.Fprintf(w, `
<div data-signals="{from: '', to: '', state: ''}">
<div class="filter-bar">
<label>From <input type="date" data-bind-from></label>
<label>To <input type="date" data-bind-to></label>
<label>State <input type="text" size="4" maxlength="2" placeholder="All" data-bind-state></label>
<button data-on-click="@get('%s?from='+$from+'&to='+$to+'&state='+$state)">Apply</button>
<a href="%s">Download</a>
</div>
<div id="%s" data-on-load="@get('%s')">
<div class="loading">Loading %s…</div>
</div>
</div>
`, p.ssePath, p.exportLink, p.contentID, p.ssePath, templ.EscapeString(p.title))
	return err
}
