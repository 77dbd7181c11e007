package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory builds the configured calendar store.
type CalendarFactory struct {
	config *Config
	db     *sql.DB
	ctx    context.Context
}

func NewCalendarFactory(ctx context.Context, config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config: config,
		db:     db,
		ctx:    ctx,
	}
}

func (cf *CalendarFactory) CreateCalendarStore(interactive bool) (CalendarStore, error) {
	calendarID := cf.config.Calendar.CalendarID
	if calendarID == "" {
		return nil, fmt.Errorf("no calendar_id configured")
	}

	switch cf.config.Calendar.Provider {
	case "google":
		client, err := getClient(cf.ctx, cf.config, cf.db, interactive)
		if err != nil {
			return nil, err
		}
		provider, err := NewGoogleCalendarProvider(cf.ctx, client, calendarID)
		if err != nil {
			return nil, fmt.Errorf("error creating Google calendar provider: %w", err)
		}
		return provider, nil

	case "caldav":
		serverName := cf.config.Calendar.CalDAVServer
		if serverName == "" {
			return nil, fmt.Errorf("no caldav_server configured for CalDAV provider")
		}
		server, ok := cf.config.CalDAVs[serverName]
		if !ok {
			return nil, fmt.Errorf("CalDAV server '%s' not found in configuration", serverName)
		}
		provider, err := NewCalDAVProvider(cf.ctx, server.ServerURL, server.Username, server.Password, calendarID)
		if err != nil {
			return nil, fmt.Errorf("error connecting to CalDAV server %s: %w", serverName, err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cf.config.Calendar.Provider)
	}
}

// NewUpserter wires the configured store, policy and ledger together.
// describe builds the description of every event created.
func (cf *CalendarFactory) NewUpserter(store CalendarStore, describe func(NormalizedShow) string) *Upserter {
	return NewUpserter(store, UpsertOptions{
		Policy:      cf.config.Calendar.DuplicatePolicy,
		TimeZone:    cf.config.General.Timezone,
		Duration:    cf.config.Calendar.eventDuration,
		InsertDelay: cf.config.Calendar.insertDelay,
		Describe:    describe,
		Recorder:    NewEventLedger(cf.db, cf.config.Calendar.CalendarID),
	})
}
