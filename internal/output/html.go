package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/scrollfeed/internal/catalog"
	"github.com/torosent/scrollfeed/internal/metrics"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Items       []catalog.Item
	Total       int
	Stats       metrics.Stats
	Errors      []metrics.ErrorCount
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatDuration": func(d time.Duration) string {
		return d.String()
	},
	"formatFloat": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	},
	"formatPercent": func(part, total int) string {
		if total == 0 {
			return "0.0"
		}
		return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
	},
}).Parse(htmlTemplate))

// GenerateHTMLReport writes a standalone HTML page listing the loaded items
// and the fetch statistics. total is the catalog size.
func GenerateHTMLReport(w io.Writer, items []catalog.Item, total int, stats metrics.Stats) error {
	data := HTMLReportData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Items:       items,
		Total:       total,
		Stats:       stats,
		Errors:      stats.SortedErrors(),
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Scrollfeed Export</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1100px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            border-bottom: 2px solid #e5e7eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-size: 0.9rem;
            text-transform: uppercase;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Scrollfeed Export</h1>
            <div class="meta">Generated {{.GeneratedAt}}</div>
        </header>
        <div class="content">
            <div class="grid">
                <div class="card">
                    <h3>Loaded</h3>
                    <div class="value">{{len .Items}}/{{.Total}}</div>
                    <div>{{formatPercent (len .Items) .Total}}%</div>
                </div>
                <div class="card">
                    <h3>Batches</h3>
                    <div class="value">{{.Stats.Batches}}</div>
                </div>
                <div class="card{{if .Stats.Failures}} error{{end}}">
                    <h3>Failed Fetches</h3>
                    <div class="value">{{.Stats.Failures}}</div>
                </div>
                <div class="card">
                    <h3>P99 Fetch Latency</h3>
                    <div class="value">{{formatDuration .Stats.P99Latency}}</div>
                    <div>{{formatFloat .Stats.ItemsPerSec}} items/sec</div>
                </div>
            </div>
            {{if .Errors}}
            <div class="section">
                <h2>Errors</h2>
                <table>
                    <thead><tr><th>Type</th><th>Count</th></tr></thead>
                    <tbody>
                    {{range .Errors}}
                        <tr><td>{{.Type}}</td><td>{{.Count}}</td></tr>
                    {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
            <div class="section">
                <h2>Items</h2>
                <table>
                    <thead>
                        <tr><th>#</th><th>Title</th><th>Author</th><th>Published</th></tr>
                    </thead>
                    <tbody>
                    {{range .Items}}
                        <tr>
                            <td>{{.ID}}</td>
                            <td>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
                            <td>{{.Author}}</td>
                            <td>{{formatDate .PublicationDate}}</td>
                        </tr>
                    {{else}}
                        <tr><td colspan="4">No items loaded</td></tr>
                    {{end}}
                    </tbody>
                </table>
            </div>
        </div>
    </div>
</body>
</html>
`
