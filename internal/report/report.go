package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/canvass/internal/storage"
)

// PrintLeads writes a numbered, human-readable listing of leads, omitting
// empty fields the way the interactive session shows results.
func PrintLeads(w io.Writer, leads []*storage.Lead) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No people found.")
		return
	}

	fmt.Fprintf(w, "\n=== FOUND %d PEOPLE ===\n\n", len(leads))

	for i, lead := range leads {
		fmt.Fprintf(w, "%d. %s\n", i+1, lead.Name)
		if lead.Email != "" {
			fmt.Fprintf(w, "   Email:    %s\n", lead.Email)
		}
		if lead.Phone != "" {
			fmt.Fprintf(w, "   Phone:    %s\n", lead.Phone)
		}
		if lead.JobTitle != "" {
			fmt.Fprintf(w, "   Title:    %s\n", lead.JobTitle)
		}
		if lead.Company != "" {
			fmt.Fprintf(w, "   Company:  %s\n", lead.Company)
		}
		if lead.Location != "" {
			fmt.Fprintf(w, "   Location: %s\n", lead.Location)
		}
		if lead.LinkedInURL != "" {
			fmt.Fprintf(w, "   LinkedIn: %s\n", lead.LinkedInURL)
		}
		fmt.Fprintln(w)
	}
}

// Summary contains aggregated metrics about a set of leads.
type Summary struct {
	TotalLeads   int
	WithEmail    int
	WithPhone    int
	WithLinkedIn int
	Companies    map[string]int
	Sources      map[string]int
	FirstSeen    time.Time
	LastSeen     time.Time
}

// GenerateSummary processes a slice of leads to generate summary metrics.
func GenerateSummary(leads []*storage.Lead) Summary {
	s := Summary{
		Companies: make(map[string]int),
		Sources:   make(map[string]int),
	}

	if len(leads) == 0 {
		return s
	}

	s.FirstSeen = leads[0].CreatedAt
	s.LastSeen = leads[0].CreatedAt

	for _, l := range leads {
		s.TotalLeads++
		if l.Email != "" {
			s.WithEmail++
		}
		if l.Phone != "" {
			s.WithPhone++
		}
		if l.LinkedInURL != "" {
			s.WithLinkedIn++
		}
		if l.Company != "" {
			s.Companies[l.Company]++
		}
		if l.Source != "" {
			s.Sources[l.Source]++
		}

		if l.CreatedAt.Before(s.FirstSeen) {
			s.FirstSeen = l.CreatedAt
		}
		if l.CreatedAt.After(s.LastSeen) {
			s.LastSeen = l.CreatedAt
		}
	}

	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("report: encode summary: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Canvass Lead Summary
--------------------
Collected:      {{.FirstSeen.Format "2006-01-02 15:04:05"}} - {{.LastSeen.Format "2006-01-02 15:04:05"}}
Total Leads:    {{.TotalLeads}}
With Email:     {{.WithEmail}}
With Phone:     {{.WithPhone}}
With LinkedIn:  {{.WithLinkedIn}}

Companies:
{{- range $name, $count := .Companies}}
  {{$name}}: {{$count}}
{{- else}}
  None
{{- end}}

Sources:
{{- range $src, $count := .Sources}}
  {{$src}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("report: parse template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("report: render summary: %w", err)
	}

	return nil
}

// WriteHTML writes a basic HTML report to the provided writer.
func WriteHTML(w io.Writer, summary Summary) error {
	const htmlTmpl = `<!DOCTYPE html>
<html>
<head>
<title>Canvass Lead Report</title>
<style>
  body { font-family: sans-serif; margin: 40px; color: #333; }
  h1 { border-bottom: 2px solid #ccc; padding-bottom: 10px; }
  .stat-card { display: inline-block; padding: 20px; margin: 10px 10px 10px 0; background: #f4f4f4; border-radius: 5px; min-width: 150px; }
  .stat-val { font-size: 24px; font-weight: bold; }
  table { border-collapse: collapse; margin-top: 10px; }
  th, td { padding: 8px 12px; border: 1px solid #ccc; text-align: left; }
  th { background: #eaeaea; }
</style>
</head>
<body>
  <h1>Canvass Lead Report</h1>
  <p><strong>Collected:</strong> {{.FirstSeen.Format "2006-01-02 15:04:05"}} to {{.LastSeen.Format "2006-01-02 15:04:05"}}</p>

  <div class="stat-card">
    <div>Total Leads</div>
    <div class="stat-val">{{.TotalLeads}}</div>
  </div>
  <div class="stat-card">
    <div>With Email</div>
    <div class="stat-val">{{.WithEmail}}</div>
  </div>
  <div class="stat-card">
    <div>With Phone</div>
    <div class="stat-val">{{.WithPhone}}</div>
  </div>
  <div class="stat-card">
    <div>With LinkedIn</div>
    <div class="stat-val">{{.WithLinkedIn}}</div>
  </div>

  <h3>Companies</h3>
  <table>
    <tr><th>Company</th><th>Leads</th></tr>
    {{- range $name, $count := .Companies}}
    <tr><td>{{$name}}</td><td>{{$count}}</td></tr>
    {{- else}}
    <tr><td colspan="2">None</td></tr>
    {{- end}}
  </table>

  <h3>Sources</h3>
  <table>
    <tr><th>Source</th><th>Leads</th></tr>
    {{- range $src, $count := .Sources}}
    <tr><td>{{$src}}</td><td>{{$count}}</td></tr>
    {{- else}}
    <tr><td colspan="2">None</td></tr>
    {{- end}}
  </table>
</body>
</html>
`
	t, err := template.New("htmlReport").Parse(htmlTmpl)
	if err != nil {
		return fmt.Errorf("report: parse template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("report: render summary: %w", err)
	}

	return nil
}
