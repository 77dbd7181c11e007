package main

import (
	"fmt"
	"strings"
	"time"
)

const showKeySeparator = "|"

// RawShow is a single listing as it appears on the venue page.
type RawShow struct {
	Title        string
	DateTimeText string
}

// Key returns the change-tracking identity of the listing.
func (s RawShow) Key() ShowKey {
	return ShowKey{Title: s.Title, RawText: s.DateTimeText}
}

// ShowKey identifies a show across runs by its title and the unparsed date
// text. The normalized instant is deliberately not part of the key.
type ShowKey struct {
	Title   string
	RawText string
}

func (k ShowKey) String() string {
	return k.Title + showKeySeparator + k.RawText
}

// ParseShowKey is the inverse of ShowKey.String. It splits on the last
// separator, since titles may contain "|" but scraped date text does not;
// the scraper replaces any "|" it finds in date text.
func ParseShowKey(s string) (ShowKey, error) {
	i := strings.LastIndex(s, showKeySeparator)
	if i < 0 {
		return ShowKey{}, fmt.Errorf("invalid show key %q: missing %q", s, showKeySeparator)
	}
	return ShowKey{Title: s[:i], RawText: s[i+len(showKeySeparator):]}, nil
}

func (k ShowKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShowKey) UnmarshalText(text []byte) error {
	parsed, err := ParseShowKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NormalizedShow is a RawShow with its date text resolved. Instant is the
// zero time when the text could not be parsed.
type NormalizedShow struct {
	Title   string
	RawText string
	Instant time.Time
}

func (s NormalizedShow) Key() ShowKey {
	return ShowKey{Title: s.Title, RawText: s.RawText}
}

func (s NormalizedShow) HasInstant() bool {
	return !s.Instant.IsZero()
}
