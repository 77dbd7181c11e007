package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// addManualShows puts the hand-maintained [manual] listing into the
// calendar, one event per show day.
func addManualShows(config *Config) {
	if len(config.Manual.Shows) == 0 {
		fmt.Println("No manual shows configured.")
		return
	}
	year := config.Manual.Year
	if year == 0 {
		year = time.Now().Year()
	}
	hour, minute, err := config.Manual.showClock()
	if err != nil {
		log.Fatalf("Error reading manual show time: %v", err)
	}

	db, err := openDB(config.path(config.Files.Database))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Printf("🚀 Adding %d manual shows for %d...\n", len(config.Manual.Shows), year)
	expanded, errs := ExpandManualShows(config.Manual.Shows, year)

	suffix := config.Manual.SummarySuffix
	if suffix == "" && config.Venue.Name != "" {
		suffix = " at " + config.Venue.Name
	}
	loc := config.Location()
	shows := make([]NormalizedShow, 0, len(expanded))
	for _, s := range expanded {
		shows = append(shows, s.Normalized(hour, minute, loc, suffix))
	}

	summary, err := syncToCalendar(context.Background(), config, db, shows, true, func(NormalizedShow) string {
		return fmt.Sprintf("Manually added show for %d.", year)
	})
	if err != nil {
		log.Fatalf("Error connecting to calendar: %v", err)
	}
	printSummary(summary)
	if len(errs) > 0 {
		fmt.Printf("  ❗️ %d manual entries could not be read\n", len(errs))
	}
}

// authorizeAccount runs the OAuth flow up front so unattended runs find a
// token in the database.
func authorizeAccount(config *Config) {
	db, err := openDB(config.path(config.Files.Database))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Printf("🚀 Authorizing account %s...\n", config.Calendar.AccountName)
	client, err := getClient(context.Background(), config, db, true)
	if err != nil {
		log.Fatalf("Error authorizing: %v", err)
	}
	provider, err := NewGoogleCalendarProvider(context.Background(), client, config.Calendar.CalendarID)
	if err != nil {
		log.Fatalf("Error creating Google calendar provider: %v", err)
	}
	if config.Calendar.CalendarID != "" {
		if err := provider.GetCalendar(); err != nil {
			log.Fatalf("Error retrieving Google calendar: %v", err)
		}
	}
	fmt.Printf("✅ Account %s authorized successfully\n", config.Calendar.AccountName)
}
