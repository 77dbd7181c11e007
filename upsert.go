package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// DuplicatePolicy decides how close an existing event has to be to count
// as the same show. Pick one per calendar and keep it: switching changes
// the verdict for events that are already there.
type DuplicatePolicy string

const (
	// PolicyNarrow searches ±1 minute and requires the exact start instant.
	PolicyNarrow DuplicatePolicy = "narrow"
	// PolicyWide searches ±5 minutes and matches on title alone.
	PolicyWide DuplicatePolicy = "wide"
)

func (p DuplicatePolicy) window() time.Duration {
	if p == PolicyWide {
		return 5 * time.Minute
	}
	return time.Minute
}

func (p DuplicatePolicy) Valid() bool {
	return p == PolicyNarrow || p == PolicyWide
}

// DuplicateCheck is the verdict of the pre-insert lookup.
type DuplicateCheck int

const (
	CheckClear DuplicateCheck = iota
	CheckDuplicate
	// CheckUnknown means the lookup itself failed; the insert goes ahead.
	CheckUnknown
)

func (c DuplicateCheck) String() string {
	switch c {
	case CheckClear:
		return "clear"
	case CheckDuplicate:
		return "duplicate"
	case CheckUnknown:
		return "unknown"
	}
	return fmt.Sprintf("DuplicateCheck(%d)", int(c))
}

type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota
	OutcomeSkippedDuplicate
	OutcomeSkippedUnparsed
	OutcomeFailed
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkippedDuplicate:
		return "skipped_duplicate"
	case OutcomeSkippedUnparsed:
		return "skipped_unparsed"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("UpsertOutcome(%d)", int(o))
}

// UpsertResult describes what happened to one show. CheckErr is set when
// the duplicate lookup failed, Err when the insert did.
type UpsertResult struct {
	Show     NormalizedShow
	Check    DuplicateCheck
	Outcome  UpsertOutcome
	Event    *Event
	CheckErr error
	Err      error
}

type UpsertSummary struct {
	Results    []UpsertResult
	Created    int
	Duplicates int
	Unparsed   int
	Failed     int
}

// EventRecorder remembers events this tool created.
type EventRecorder interface {
	RecordEvent(key ShowKey, event *Event) error
}

type UpsertOptions struct {
	Policy   DuplicatePolicy
	TimeZone string
	Duration time.Duration
	// InsertDelay is the minimum spacing between two inserts.
	InsertDelay time.Duration
	// Describe builds the event description; nil leaves it empty.
	Describe func(NormalizedShow) string
	Recorder EventRecorder
}

type Upserter struct {
	store    CalendarStore
	opts     UpsertOptions
	limiter  *rate.Limiter
	recorder EventRecorder
}

func NewUpserter(store CalendarStore, opts UpsertOptions) *Upserter {
	if !opts.Policy.Valid() {
		opts.Policy = PolicyNarrow
	}
	if opts.Duration <= 0 {
		opts.Duration = defaultEventDuration
	}
	limit := rate.Inf
	if opts.InsertDelay > 0 {
		limit = rate.Every(opts.InsertDelay)
	}
	return &Upserter{
		store:    store,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		recorder: opts.Recorder,
	}
}

// Upsert inserts show unless the store already holds a matching event.
func (u *Upserter) Upsert(ctx context.Context, show NormalizedShow) UpsertResult {
	result := UpsertResult{Show: show}
	if !show.HasInstant() {
		result.Outcome = OutcomeSkippedUnparsed
		return result
	}

	result.Check, result.CheckErr = u.checkDuplicate(show)
	switch result.Check {
	case CheckDuplicate:
		printVerbosely(4, "      ⚠️ Event '%s' at %s already exists. Skipping.\n", show.Title, formatInstant(show.Instant))
		result.Outcome = OutcomeSkippedDuplicate
		return result
	case CheckUnknown:
		printVerbosely(1, "      ❗️ Duplicate check failed for '%s', adding anyway: %v\n", show.Title, result.CheckErr)
	}

	if err := u.limiter.Wait(ctx); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	event := &Event{
		Summary:  show.Title,
		Start:    show.Instant,
		End:      show.Instant.Add(u.opts.Duration),
		TimeZone: u.opts.TimeZone,
	}
	if u.opts.Describe != nil {
		event.Description = u.opts.Describe(show)
	}

	created, err := u.store.Insert(event)
	if err != nil {
		printVerbosely(1, "      ❌ Could not add '%s': %v\n", show.Title, err)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	printVerbosely(3, "      ➕ Event created: %s at %s %s\n", show.Title, formatInstant(show.Instant), created.Link)
	result.Outcome = OutcomeCreated
	result.Event = created

	if u.recorder != nil {
		if err := u.recorder.RecordEvent(show.Key(), created); err != nil {
			log.Printf("Error recording created event in database: %v\n", err)
		}
	}
	return result
}

func (u *Upserter) checkDuplicate(show NormalizedShow) (DuplicateCheck, error) {
	window := u.opts.Policy.window()
	existing, err := u.store.FindNear(show.Instant, window, window, show.Title)
	if err != nil {
		return CheckUnknown, err
	}
	for _, event := range existing {
		if event.Summary != show.Title {
			continue
		}
		if u.opts.Policy == PolicyNarrow && !event.Start.Equal(show.Instant) {
			continue
		}
		return CheckDuplicate, nil
	}
	return CheckClear, nil
}

// UpsertAll processes shows one after another. A failure on one show never
// stops the rest.
func (u *Upserter) UpsertAll(ctx context.Context, shows []NormalizedShow) UpsertSummary {
	summary := UpsertSummary{Results: make([]UpsertResult, 0, len(shows))}
	for _, show := range shows {
		if show.HasInstant() {
			printVerbosely(2, "    ✨ Processing for calendar: %s at %s\n", show.Title, formatInstant(show.Instant))
		} else {
			printVerbosely(2, "    ⚠️ Could not parse date/time for '%s' (%s). Skipping calendar add.\n", show.Title, show.RawText)
		}
		r := u.Upsert(ctx, show)
		switch r.Outcome {
		case OutcomeCreated:
			summary.Created++
		case OutcomeSkippedDuplicate:
			summary.Duplicates++
		case OutcomeSkippedUnparsed:
			summary.Unparsed++
		case OutcomeFailed:
			summary.Failed++
		}
		summary.Results = append(summary.Results, r)
	}
	return summary
}

func formatInstant(t time.Time) string {
	return t.Format("2006-01-02 03:04 PM MST")
}
