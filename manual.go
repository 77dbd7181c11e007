package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedDescriptor = errors.New("malformed manual show")
	ErrUnsupportedRange    = errors.New("month-crossing ranges are not supported")
)

// "Aug. 2-4", "June 28 - 29", "Dec 30 - Jan 2" (the last one is rejected)
var manualDatePattern = regexp.MustCompile(`^([A-Za-z]+\.?)\s+(\d{1,2})(?:\s*[-–]\s*(?:([A-Za-z]+\.?)\s+)?(\d{1,2}))?$`)

// ManualShow is one day of a hand-entered listing.
type ManualShow struct {
	Artist string
	Date   time.Time
}

// ExpandManualShow turns "{Month}[.] {Day}[-{Day2}]: {Artist}" into one
// entry per day. Multi-day runs get a " (Day N)" suffix on every day.
func ExpandManualShow(descriptor string, year int) ([]ManualShow, error) {
	datePart, artist, ok := strings.Cut(descriptor, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q: missing ':'", ErrMalformedDescriptor, descriptor)
	}
	datePart = strings.TrimSpace(datePart)
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return nil, fmt.Errorf("%w: %q: missing artist", ErrMalformedDescriptor, descriptor)
	}

	m := manualDatePattern.FindStringSubmatch(datePart)
	if m == nil {
		return nil, fmt.Errorf("%w: %q: cannot read date %q", ErrMalformedDescriptor, descriptor, datePart)
	}
	month, ok := lookupMonth(m[1])
	if !ok {
		return nil, fmt.Errorf("%w: %q: unknown month %q", ErrMalformedDescriptor, descriptor, m[1])
	}
	startDay, _ := strconv.Atoi(m[2])
	if !validDate(year, month, startDay) {
		return nil, fmt.Errorf("%w: %q: no day %d in %s %d", ErrMalformedDescriptor, descriptor, startDay, month, year)
	}
	if m[4] == "" {
		return []ManualShow{{Artist: artist, Date: time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC)}}, nil
	}

	if m[3] != "" {
		if endMonth, ok := lookupMonth(m[3]); !ok || endMonth != month {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedRange, descriptor)
		}
	}
	endDay, _ := strconv.Atoi(m[4])
	if endDay < startDay {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRange, descriptor)
	}
	if !validDate(year, month, endDay) {
		return nil, fmt.Errorf("%w: %q: no day %d in %s %d", ErrMalformedDescriptor, descriptor, endDay, month, year)
	}

	shows := make([]ManualShow, 0, endDay-startDay+1)
	for day := startDay; day <= endDay; day++ {
		name := artist
		if endDay != startDay {
			name = fmt.Sprintf("%s (Day %d)", artist, day-startDay+1)
		}
		shows = append(shows, ManualShow{Artist: name, Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)})
	}
	return shows, nil
}

// ExpandManualShows expands a batch, reporting and skipping bad lines.
func ExpandManualShows(descriptors []string, year int) ([]ManualShow, []error) {
	var (
		shows []ManualShow
		errs  []error
	)
	for _, d := range descriptors {
		expanded, err := ExpandManualShow(d, year)
		if err != nil {
			printVerbosely(1, "  ❗️ Skipping manual show: %v\n", err)
			errs = append(errs, err)
			continue
		}
		shows = append(shows, expanded...)
	}
	return shows, errs
}

// Normalized places the show at hour:minute wall-clock time in loc. The
// summary gets suffix appended, e.g. " at Ruoff Music Center".
func (s ManualShow) Normalized(hour, minute int, loc *time.Location, suffix string) NormalizedShow {
	start := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), hour, minute, 0, 0, loc)
	return NormalizedShow{
		Title:   s.Artist + suffix,
		RawText: s.Date.Format("2006-01-02"),
		Instant: start,
	}
}
