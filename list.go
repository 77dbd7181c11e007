package main

import (
	"fmt"
	"log"
)

func listEvents(config *Config) {
	db, err := openDB(config.path(config.Files.Database))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	entries, err := NewEventLedger(db, config.Calendar.CalendarID).Entries()
	if err != nil {
		log.Fatalf("❌ Error retrieving created events from database: %v", err)
	}

	fmt.Printf("📋 Events added to calendar %s:\n", config.Calendar.CalendarID)
	for _, e := range entries {
		fmt.Printf("  📅 %s  %s (%s) - added %s\n", e.Start, e.Summary, e.EventID, e.CreatedAt)
	}
	if len(entries) == 0 {
		fmt.Println("  (none)")
	}
}
