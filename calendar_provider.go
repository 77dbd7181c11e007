package main

import (
	"time"
)

// CalendarStore is the remote calendar shows are mirrored into. A store is
// bound to a single calendar when it is created.
type CalendarStore interface {
	// FindNear returns events whose start lies within [instant-before,
	// instant+after]. A non-empty title may be used as a server-side hint;
	// callers still compare summaries themselves.
	FindNear(instant time.Time, before, after time.Duration, title string) ([]*Event, error)
	Insert(event *Event) (*Event, error)
}

type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Link        string
}

// startsWithin reports whether t lies in the closed window around instant.
func startsWithin(t, instant time.Time, before, after time.Duration) bool {
	return !t.Before(instant.Add(-before)) && !t.After(instant.Add(after))
}
