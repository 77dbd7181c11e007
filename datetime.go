package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrUnparseableDate = errors.New("unparseable date")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

var (
	separatorGlyphs = strings.NewReplacer("\u25aa\ufe0e", " ", "\u25aa", " ", "\u2022", " ", "\ufe0e", " ")
	whitespaceRun   = regexp.MustCompile(`\s+`)
	clockPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(AM|PM)\b`)
	trailingJunk    = regexp.MustCompile(`[,-]$`)
	yearPattern     = regexp.MustCompile(`\b\d{4}\b`)
	slashDate       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
	ordinalSuffix   = regexp.MustCompile(`(?i)^(\d{1,2})(st|nd|rd|th)$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var weekdayNames = map[string]bool{
	"mon": true, "monday": true,
	"tue": true, "tues": true, "tuesday": true,
	"wed": true, "wednesday": true,
	"thu": true, "thur": true, "thurs": true, "thursday": true,
	"fri": true, "friday": true,
	"sat": true, "saturday": true,
	"sun": true, "sunday": true,
}

// lookupMonth resolves an English month name or abbreviation, with or
// without a trailing period.
func lookupMonth(s string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSuffix(s, "."))]
	return m, ok
}

// NormalizeShowTime turns scraped date text such as "Tue Jun 10, 2025 ▪︎ 7PM"
// or "Jul 4 ▪︎ 8:00 PM" into an instant in the named zone. The wall-clock
// numbers are taken as local time in tzName.
//
// When the text carries no 4-digit year, referenceYear is assumed, and a
// result that falls before now is moved one year ahead. An explicit year is
// kept as written, even when it lies in the past.
func NormalizeShowTime(text string, referenceYear int, tzName string, now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, tzName)
	}

	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(separatorGlyphs.Replace(text), " "))
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("%w: empty text", ErrUnparseableDate)
	}

	hour, minute := 0, 0
	datePart := cleaned
	if m := clockPattern.FindStringSubmatch(cleaned); m != nil {
		hour, minute, err = parseClock(m[1], m[2], m[3])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, text, err)
		}
		datePart = strings.TrimSpace(strings.ReplaceAll(cleaned, m[0], ""))
		datePart = strings.TrimSpace(trailingJunk.ReplaceAllString(datePart, ""))
	}

	if datePart == "" || weekdayNames[strings.ToLower(strings.TrimSuffix(datePart, ","))] ||
		!strings.ContainsAny(datePart, "0123456789") {
		return time.Time{}, fmt.Errorf("%w: no date in %q", ErrUnparseableDate, text)
	}

	explicitYear := yearPattern.MatchString(text)
	if !explicitYear {
		datePart += fmt.Sprintf(", %d", referenceYear)
	}

	year, month, day, err := parseDatePhrase(datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, text, err)
	}
	if !validDate(year, month, day) {
		return time.Time{}, fmt.Errorf("%w: %q: day %d out of range for %s %d", ErrUnparseableDate, text, day, month, year)
	}

	if !explicitYear {
		// Compare wall clocks in the venue zone, ignoring offsets.
		wall := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
		nowLocal := now.In(loc)
		nowWall := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
			nowLocal.Hour(), nowLocal.Minute(), nowLocal.Second(), nowLocal.Nanosecond(), time.UTC)
		if wall.Before(nowWall) {
			year++
			if !validDate(year, month, day) {
				return time.Time{}, fmt.Errorf("%w: %q: %s %d does not exist in %d", ErrUnparseableDate, text, month, day, year)
			}
		}
	}

	return time.Date(year, month, day, hour, minute, 0, 0, loc), nil
}

func parseClock(h, m, meridiem string) (int, int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("invalid hour %q", h)
	}
	minute := 0
	if m != "" {
		minute, err = strconv.Atoi(m)
		if err != nil || minute > 59 {
			return 0, 0, fmt.Errorf("invalid minute %q", m)
		}
	}
	hour %= 12
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	}
	return hour, minute, nil
}

// parseDatePhrase hands a date phrase to dateparse. Weekday names are
// dropped without being checked, month names are cut to their three-letter
// form and ordinal suffixes removed, so "Saturday, August 2nd, 2025" reaches
// the parser as "Aug 2, 2025". Phrases in any other shape go to dateparse
// as they are.
func parseDatePhrase(s string) (int, time.Month, int, error) {
	var (
		month, day, year, slash string
		kept, rest              []string
	)
	for _, f := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if weekdayNames[strings.ToLower(strings.TrimSuffix(f, "."))] {
			continue
		}
		kept = append(kept, f)
		if m, ok := lookupMonth(f); ok && month == "" {
			month = m.String()[:3]
			continue
		}
		switch {
		case ordinalSuffix.MatchString(f) && day == "":
			day = ordinalSuffix.FindStringSubmatch(f)[1]
		case slashDate.MatchString(f) && slash == "":
			slash = f
		case allDigits(f) && len(f) == 4 && year == "":
			year = f
		case allDigits(f) && len(f) <= 2 && day == "":
			day = f
		default:
			rest = append(rest, f)
		}
	}

	phrase := strings.Join(kept, " ")
	switch {
	case len(rest) > 0:
		// unfamiliar shape, e.g. ISO dates
	case month != "" && day != "" && year != "" && slash == "":
		phrase = fmt.Sprintf("%s %s, %s", month, day, year)
	case slash != "" && month == "" && day == "":
		phrase = slash
		if strings.Count(slash, "/") == 1 {
			if year == "" {
				return 0, 0, 0, fmt.Errorf("no year in %q", s)
			}
			phrase += "/" + year
		}
	}

	t, err := dateparse.ParseIn(phrase, time.UTC, dateparse.PreferMonthFirst(true))
	if err != nil {
		return 0, 0, 0, err
	}
	return t.Year(), t.Month(), t.Day(), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func validDate(year int, month time.Month, day int) bool {
	if day < 1 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}
