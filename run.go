package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// RunState is what one run learned about the venue listing.
type RunState struct {
	Shows      []RawShow
	Normalized []NormalizedShow
	Added      KeySet
	Removed    KeySet
	AddTimes   AddTimes
}

func runShows(config *Config) {
	ctx := context.Background()
	now := time.Now()

	fmt.Printf("🚀 Scraping shows from %s...\n", config.Venue.URL)
	scraped, err := NewScraper(nil).Scrape(ctx, config.Venue.URL)
	if err != nil {
		log.Fatalf("Failed to scrape shows: %v", err)
	}
	shows := FilterShows(scraped, config.Venue.ExcludeTitles)

	state, err := processListings(config, shows, now)
	if err != nil {
		log.Fatalf("Error saving run state: %v", err)
	}

	db, err := openDB(config.path(config.Files.Database))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	summary, err := syncToCalendar(ctx, config, db, state.Normalized, false, func(show NormalizedShow) string {
		return fmt.Sprintf("Show: %s\nSource: %s\nScraped: %s", show.Title, config.Venue.URL, now.Format("2006-01-02 15:04:05"))
	})
	if err != nil {
		fmt.Printf("❗️ Calendar operations skipped: %v\n", err)
		return
	}
	printSummary(summary)
	fmt.Printf("✅ Finished at %s\n", time.Now().Format("2006-01-02 15:04:05"))
}

// processListings does everything a run does locally: CSV export, change
// detection, first-seen bookkeeping and the HTML report. Each state file is
// written as soon as its phase completes.
func processListings(config *Config, shows []RawShow, now time.Time) (*RunState, error) {
	state := &RunState{Shows: shows}

	printVerbosely(2, "\n📋 All scraped shows:\n")
	for i, show := range shows {
		printVerbosely(2, "  %d. %s - %s\n", i+1, show.Title, show.DateTimeText)
	}

	if err := saveShowsToCSV(config.path(config.Files.ShowsCSV), shows); err != nil {
		return nil, fmt.Errorf("saving CSV: %w", err)
	}
	printVerbosely(1, "💾 Saved %d shows to %s\n", len(shows), config.Files.ShowsCSV)

	knownPath := config.path(config.Files.KnownShows)
	known, err := loadKnownShows(knownPath)
	if err != nil {
		return nil, fmt.Errorf("loading known shows: %w", err)
	}
	current := KeysOf(shows)
	state.Added, state.Removed = Diff(current, known)
	printChanges(state.Added, state.Removed)
	if err := saveKnownShows(knownPath, current); err != nil {
		return nil, fmt.Errorf("saving known shows: %w", err)
	}

	addTimesPath := config.path(config.Files.AddTimes)
	state.AddTimes = RecordFirstSeen(loadShowAddTimes(addTimesPath), current, now.Format(time.RFC3339))
	if err := saveShowAddTimes(addTimesPath, state.AddTimes); err != nil {
		return nil, fmt.Errorf("saving add times: %w", err)
	}

	state.Normalized = normalizeShows(shows, now.Year(), config.General.Timezone, now)

	err = WriteReport(config.path(config.Files.Report), config.path(config.Files.ReportCopy), ReportData{
		VenueName:   config.Venue.Name,
		SourceURL:   config.Venue.URL,
		Location:    config.Location(),
		GeneratedAt: now,
		Shows:       state.Normalized,
		Added:       state.Added,
		AddTimes:    state.AddTimes,
	})
	if err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	printVerbosely(1, "📄 Saved HTML report to %s\n", config.Files.Report)
	return state, nil
}

// normalizeShows resolves every listing's date text. Listings that cannot
// be parsed keep a zero instant.
func normalizeShows(shows []RawShow, referenceYear int, tzName string, now time.Time) []NormalizedShow {
	normalized := make([]NormalizedShow, 0, len(shows))
	for _, show := range shows {
		n := NormalizedShow{Title: show.Title, RawText: show.DateTimeText}
		instant, err := NormalizeShowTime(show.DateTimeText, referenceYear, tzName, now)
		if err != nil {
			printVerbosely(2, "  ⚠️ %v\n", err)
		} else {
			n.Instant = instant
		}
		normalized = append(normalized, n)
	}
	return normalized
}

func syncToCalendar(ctx context.Context, config *Config, db *sql.DB, shows []NormalizedShow, interactive bool, describe func(NormalizedShow) string) (UpsertSummary, error) {
	fmt.Println("\n📅 Processing for calendar...")
	factory := NewCalendarFactory(ctx, config, db)
	store, err := factory.CreateCalendarStore(interactive)
	if err != nil {
		return UpsertSummary{}, err
	}
	return factory.NewUpserter(store, describe).UpsertAll(ctx, shows), nil
}

func printChanges(added, removed KeySet) {
	if len(added) > 0 {
		fmt.Println("\n--- New Shows Added ---")
		for _, k := range added.Sorted() {
			fmt.Printf("- %s (%s)\n", k.Title, k.RawText)
		}
	}
	if len(removed) > 0 {
		fmt.Println("\n--- Shows Removed ---")
		for _, k := range removed.Sorted() {
			fmt.Printf("- %s (%s)\n", k.Title, k.RawText)
		}
	}
	if len(added) == 0 && len(removed) == 0 {
		fmt.Println("\nNo changes in shows since last check.")
	}
}

func printSummary(summary UpsertSummary) {
	fmt.Printf("  ➕ %d created, ⚠️ %d already present, ❓ %d unparsed, ❌ %d failed\n",
		summary.Created, summary.Duplicates, summary.Unparsed, summary.Failed)
	for _, r := range summary.Results {
		if r.Outcome == OutcomeFailed {
			fmt.Printf("    ❌ %s: %v\n", r.Show.Title, r.Err)
		}
	}
}
