package main

import (
	"database/sql"
	"fmt"
	"time"
)

func dbInit(db *sql.DB) error {
	var dbVersion int
	err := db.QueryRow("SELECT version FROM db_version WHERE name='venuewatch'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			return fmt.Errorf("error creating db_version table: %w", err)
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO db_version (name, version) VALUES ('venuewatch', 0)`)
		if err != nil {
			return fmt.Errorf("error initializing db_version table: %w", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			return fmt.Errorf("error creating tokens table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS calendar_events (
			calendar_id TEXT,
			show_key TEXT,
			event_id TEXT,
			summary TEXT,
			start_time TEXT,
			created_at TEXT,
			PRIMARY KEY (calendar_id, event_id)
		)`)
		if err != nil {
			return fmt.Errorf("error creating calendar_events table: %w", err)
		}

		_, err = db.Exec(`UPDATE db_version SET version = 1 WHERE name = 'venuewatch'`)
		if err != nil {
			return fmt.Errorf("error updating db_version table: %w", err)
		}
	}
	return nil
}

// EventLedger records the calendar events created by this tool.
type EventLedger struct {
	db         *sql.DB
	calendarID string
	now        func() time.Time
}

func NewEventLedger(db *sql.DB, calendarID string) *EventLedger {
	return &EventLedger{db: db, calendarID: calendarID, now: time.Now}
}

func (l *EventLedger) RecordEvent(key ShowKey, event *Event) error {
	_, err := l.db.Exec(`INSERT OR REPLACE INTO calendar_events
		(calendar_id, show_key, event_id, summary, start_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.calendarID, key.String(), event.ID, event.Summary,
		event.Start.Format(time.RFC3339), l.now().Format(time.RFC3339))
	return err
}

type LedgerEntry struct {
	CalendarID string
	Key        ShowKey
	EventID    string
	Summary    string
	Start      string
	CreatedAt  string
}

// Entries lists recorded events ordered by start time.
func (l *EventLedger) Entries() ([]LedgerEntry, error) {
	rows, err := l.db.Query(`SELECT calendar_id, show_key, event_id, summary, start_time, created_at
		FROM calendar_events WHERE calendar_id = ? ORDER BY start_time`, l.calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		var key string
		if err := rows.Scan(&e.CalendarID, &key, &e.EventID, &e.Summary, &e.Start, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Key, err = ParseShowKey(key); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
