package main

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"sort"
	"time"
)

type ReportData struct {
	VenueName   string
	SourceURL   string
	Location    *time.Location
	GeneratedAt time.Time
	Shows       []NormalizedShow
	Added       KeySet
	AddTimes    AddTimes
}

type reportRow struct {
	Date    string
	Title   string
	New     bool
	AddedOn string
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Venue}} Shows</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; background: #f8f9fa; color: #222; margin: 0; padding: 0; }
        .container { max-width: 900px; margin: 30px auto; background: #fff; border-radius: 10px; box-shadow: 0 2px 8px rgba(0,0,0,0.08); padding: 32px 40px 40px 40px; }
        h1 { text-align: center; margin-bottom: 0.5em; }
        table { width: 100%; border-collapse: collapse; margin-top: 1.5em; }
        th, td { padding: 12px 15px; text-align: left; border-bottom: 1px solid #e9ecef; }
        th { background-color: #f8f9fa; font-weight: 600; }
        tr.new-show td { background-color: #e6ffed; }
        .badge { font-size: 0.8em; padding: 4px 8px; border-radius: 12px; color: #fff; background-color: #28a745; }
        .added { font-size: 0.9em; color: #555; }
        .footer { text-align: center; margin-top: 2em; font-size: 0.9em; color: #777; }
        @media print {
            body { background: #fff; }
            .container { box-shadow: none; border: 1px solid #ccc; }
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Venue}} Shows</h1>
        <p class="footer">Generated on: {{.Generated}}</p>
        <table>
            <thead>
                <tr><th>Date &amp; Time</th><th>Show</th><th class="added">Added On</th></tr>
            </thead>
            <tbody>
{{- range .Rows}}
                <tr{{if .New}} class="new-show"{{end}}><td>{{.Date}}</td><td>{{.Title}}{{if .New}} <span class="badge">New!</span>{{end}}</td><td class="added">{{.AddedOn}}</td></tr>
{{- else}}
                <tr><td colspan="3">No shows found.</td></tr>
{{- end}}
            </tbody>
        </table>
        <div class="footer">
            <p>Generated on: {{.Generated}}</p>
            <p>Source: <a href="{{.SourceURL}}" target="_blank">{{.SourceURL}}</a></p>
        </div>
    </div>
</body>
</html>
`))

// reportRows orders parseable shows by start; unparsed ones are left out.
func reportRows(data ReportData) []reportRow {
	shows := make([]NormalizedShow, 0, len(data.Shows))
	for _, s := range data.Shows {
		if s.HasInstant() {
			shows = append(shows, s)
		}
	}
	sort.SliceStable(shows, func(i, j int) bool {
		return shows[i].Instant.Before(shows[j].Instant)
	})

	rows := make([]reportRow, 0, len(shows))
	for _, s := range shows {
		row := reportRow{
			Date:    s.Instant.Format("Mon, Jan 02, 2006 | 03:04 PM MST"),
			Title:   s.Title,
			New:     data.Added.Has(s.Key()),
			AddedOn: "N/A",
		}
		if t, ok := parseAddTime(data.AddTimes[s.Key()]); ok {
			row.AddedOn = t.Format("1/2/2006")
		}
		rows = append(rows, row)
	}
	return rows
}

// parseAddTime accepts RFC 3339 and the offset-less ISO form older state
// files were written with.
func parseAddTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func RenderReport(w io.Writer, data ReportData) error {
	loc := data.Location
	if loc == nil {
		loc = time.UTC
	}
	return reportTemplate.Execute(w, struct {
		Venue     string
		SourceURL string
		Generated string
		Rows      []reportRow
	}{
		Venue:     data.VenueName,
		SourceURL: data.SourceURL,
		Generated: data.GeneratedAt.In(loc).Format("2006-01-02 03:04 PM MST"),
		Rows:      reportRows(data),
	})
}

// WriteReport renders the report to path and, if copyPath is set, to a
// second location as well.
func WriteReport(path, copyPath string, data ReportData) error {
	var buf bytes.Buffer
	if err := RenderReport(&buf, data); err != nil {
		return err
	}
	for _, p := range []string{path, copyPath} {
		if p == "" {
			continue
		}
		if err := ensureDir(p); err != nil {
			return err
		}
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}
