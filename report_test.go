package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFixture(t *testing.T) ReportData {
	ny := mustLoad(t, testZone)
	late := NormalizedShow{Title: "Hozier", RawText: "Tue May 28 ▪︎ 8PM", Instant: time.Date(2025, 5, 28, 20, 0, 0, 0, ny)}
	early := NormalizedShow{Title: "21 Savage", RawText: "Thu May 23 ▪︎ 7PM", Instant: time.Date(2025, 5, 23, 19, 0, 0, 0, ny)}
	unparsed := NormalizedShow{Title: "Mystery Guest", RawText: "TBA"}

	return ReportData{
		VenueName:   "Ruoff Music Center",
		SourceURL:   "https://example.com/venue",
		Location:    ny,
		GeneratedAt: time.Date(2025, 5, 1, 16, 30, 0, 0, time.UTC),
		Shows:       []NormalizedShow{late, unparsed, early},
		Added:       NewKeySet(late.Key()),
		AddTimes: AddTimes{
			late.Key():  "2025-04-30T10:00:00-04:00",
			early.Key(): "2025-03-02T08:15:00.123456",
		},
	}
}

func TestReportRows(t *testing.T) {
	rows := reportRows(reportFixture(t))

	assert.Equal(t, []reportRow{
		{Date: "Fri, May 23, 2025 | 07:00 PM EDT", Title: "21 Savage", AddedOn: "3/2/2025"},
		{Date: "Wed, May 28, 2025 | 08:00 PM EDT", Title: "Hozier", New: true, AddedOn: "4/30/2025"},
	}, rows)
}

func TestRenderReport(t *testing.T) {
	var b strings.Builder
	require.NoError(t, RenderReport(&b, reportFixture(t)))
	html := b.String()

	assert.Contains(t, html, "<title>Ruoff Music Center Shows</title>")
	assert.Contains(t, html, "Generated on: 2025-05-01 12:30 PM EDT")
	assert.Contains(t, html, `<tr class="new-show">`)
	assert.Contains(t, html, `Hozier <span class="badge">New!</span>`)
	assert.NotContains(t, html, "Mystery Guest")
	assert.Less(t, strings.Index(html, "21 Savage"), strings.Index(html, "Hozier"))
}

func TestRenderReportEscapesTitles(t *testing.T) {
	data := reportFixture(t)
	data.Shows[0].Title = "<script>alert(1)</script>"

	var b strings.Builder
	require.NoError(t, RenderReport(&b, data))
	assert.NotContains(t, b.String(), "<script>alert(1)</script>")
}

func TestRenderReportEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, RenderReport(&b, ReportData{VenueName: "Ruoff Music Center"}))
	assert.Contains(t, b.String(), "No shows found.")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs", "index.html")
	copyPath := filepath.Join(dir, "shows.html")

	require.NoError(t, WriteReport(path, copyPath, reportFixture(t)))

	a, err := os.ReadFile(path)
	require.NoError(t, err)
	b, err := os.ReadFile(copyPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "Hozier")
}
