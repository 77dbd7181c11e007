package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandManualShowSingleDay(t *testing.T) {
	tests := []struct {
		descriptor string
		want       ManualShow
	}{
		{"May 23: 21 Savage", ManualShow{Artist: "21 Savage", Date: day(2024, time.May, 23)}},
		{"June 1: HARDY", ManualShow{Artist: "HARDY", Date: day(2024, time.June, 1)}},
		{"Sept. 7: Luke Bryan", ManualShow{Artist: "Luke Bryan", Date: day(2024, time.September, 7)}},
		{"Aug. 10: Creed", ManualShow{Artist: "Creed", Date: day(2024, time.August, 10)}},
		{"July 12: Bret Michaels – Parti Gras 2024", ManualShow{Artist: "Bret Michaels – Parti Gras 2024", Date: day(2024, time.July, 12)}},
		{"  oct 4 :  Meghan Trainor ", ManualShow{Artist: "Meghan Trainor", Date: day(2024, time.October, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got, err := ExpandManualShow(tt.descriptor, 2024)
			require.NoError(t, err)
			assert.Equal(t, []ManualShow{tt.want}, got)
		})
	}
}

func TestExpandManualShowRange(t *testing.T) {
	got, err := ExpandManualShow("Aug. 2-4: Phish", 2024)
	require.NoError(t, err)
	assert.Equal(t, []ManualShow{
		{Artist: "Phish (Day 1)", Date: day(2024, time.August, 2)},
		{Artist: "Phish (Day 2)", Date: day(2024, time.August, 3)},
		{Artist: "Phish (Day 3)", Date: day(2024, time.August, 4)},
	}, got)

	got, err = ExpandManualShow("June 28 - 29: Dave Matthews Band", 2024)
	require.NoError(t, err)
	assert.Equal(t, []ManualShow{
		{Artist: "Dave Matthews Band (Day 1)", Date: day(2024, time.June, 28)},
		{Artist: "Dave Matthews Band (Day 2)", Date: day(2024, time.June, 29)},
	}, got)
}

func TestExpandManualShowDegenerateRange(t *testing.T) {
	got, err := ExpandManualShow("Aug. 2-2: Phish", 2024)
	require.NoError(t, err)
	assert.Equal(t, []ManualShow{{Artist: "Phish", Date: day(2024, time.August, 2)}}, got)
}

func TestExpandManualShowRejectsMonthCrossing(t *testing.T) {
	for _, d := range []string{
		"Dec 30 - Jan 2: New Year's Run",
		"Aug 30-3: Somebody",
	} {
		_, err := ExpandManualShow(d, 2024)
		assert.ErrorIs(t, err, ErrUnsupportedRange, d)
	}

	got, err := ExpandManualShow("Aug 2 - Aug 3: Same Month", 2024)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestExpandManualShowMalformed(t *testing.T) {
	for _, d := range []string{
		"Aug 2 Phish",
		"Smarch 2: Phish",
		"Aug two: Phish",
		"Aug 2:",
		"Feb 30: Nobody",
		"Aug 30-32: Nobody",
	} {
		_, err := ExpandManualShow(d, 2024)
		assert.ErrorIs(t, err, ErrMalformedDescriptor, d)
	}
}

func TestExpandManualShowsSkipsBadLines(t *testing.T) {
	shows, errs := ExpandManualShows([]string{
		"May 28: Hozier",
		"no colon here",
		"Aug. 2-3: Phish",
	}, 2024)

	assert.Len(t, errs, 1)
	require.Len(t, shows, 3)
	assert.Equal(t, "Hozier", shows[0].Artist)
	assert.Equal(t, "Phish (Day 2)", shows[2].Artist)
}

func TestManualShowNormalized(t *testing.T) {
	ny := mustLoad(t, testZone)
	show := ManualShow{Artist: "Phish (Day 1)", Date: day(2024, time.August, 2)}

	n := show.Normalized(19, 0, ny, " at Ruoff Music Center")

	assert.Equal(t, "Phish (Day 1) at Ruoff Music Center", n.Title)
	assert.Equal(t, "2024-08-02", n.RawText)
	assert.True(t, time.Date(2024, 8, 2, 19, 0, 0, 0, ny).Equal(n.Instant))
}
