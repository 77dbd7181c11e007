package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[general]
verbosity_level = 3
timezone = "America/Chicago"

[venue]
name = "Ruoff Music Center"
url = "https://www.livenation.com/venue/KovZpvEk7A/ruoff-music-center-events"

[files]
shows_csv = "ruoff_shows.csv"
report_copy = "ruoff_shows.html"

[calendar]
provider = "CalDAV"
calendar_id = "https://dav.example.com/calendars/me/shows/"
caldav_server = "home"
duplicate_policy = "wide"
event_duration = "2h30m"
insert_delay = "1s"

[caldavs.home]
name = "Home server"
server_url = "https://dav.example.com"
username = "me"
password = "secret"

[manual]
year = 2024
show_time = "19:30"
shows = ["May 23: 21 Savage", "Aug. 2-4: Phish"]
`

func TestParseConfig(t *testing.T) {
	config, err := parseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 3, config.General.VerbosityLevel)
	assert.Equal(t, "America/Chicago", config.Location().String())
	assert.Equal(t, "caldav", config.Calendar.Provider)
	assert.Equal(t, PolicyWide, config.Calendar.DuplicatePolicy)
	assert.Equal(t, 150*time.Minute, config.Calendar.eventDuration)
	assert.Equal(t, time.Second, config.Calendar.insertDelay)
	assert.Equal(t, "https://dav.example.com", config.CalDAVs["home"].ServerURL)
	assert.Equal(t, []string{"May 23: 21 Savage", "Aug. 2-4: Phish"}, config.Manual.Shows)

	hour, minute, err := config.Manual.showClock()
	require.NoError(t, err)
	assert.Equal(t, []int{19, 30}, []int{hour, minute})

	assert.Equal(t, "ruoff_shows.csv", config.Files.ShowsCSV)
	assert.Equal(t, "last_known_shows.txt", config.Files.KnownShows)
	assert.Equal(t, []string{"2025 Premium Season Ticket Priority List"}, config.Venue.ExcludeTitles)
}

func TestParseConfigDefaults(t *testing.T) {
	config, err := parseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", config.General.Timezone)
	assert.Equal(t, "google", config.Calendar.Provider)
	assert.Equal(t, "default", config.Calendar.AccountName)
	assert.Equal(t, PolicyNarrow, config.Calendar.DuplicatePolicy)
	assert.Equal(t, defaultEventDuration, config.Calendar.eventDuration)
	assert.Equal(t, defaultInsertDelay, config.Calendar.insertDelay)
	assert.Equal(t, filepath.Join("docs", "index.html"), config.Files.Report)
	assert.Equal(t, ".venuewatch.db", config.Files.Database)
	assert.Equal(t, defaultShowTime, config.Manual.ShowTime)
}

func TestParseConfigRejects(t *testing.T) {
	tests := map[string]string{
		"unknown timezone": "[general]\ntimezone = \"Mars/Olympus_Mons\"",
		"unknown policy":   "[calendar]\nduplicate_policy = \"fuzzy\"",
		"unknown provider": "[calendar]\nprovider = \"outlook\"",
		"bad duration":     "[calendar]\nevent_duration = \"three hours\"",
		"bad show time":    "[manual]\nshow_time = \"7pm\"",
		"bad toml":         "[calendar\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig([]byte(data))
			assert.Error(t, err)
		})
	}

	_, err := parseConfig([]byte(tests["unknown timezone"]))
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestReadConfigResolvesPathsAgainstHomeConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "venuewatch")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "venuewatch-test.toml"), []byte(sampleConfig), 0o600))
	t.Cleanup(func() { verbosityLevel = 0 })

	config, err := readConfig("venuewatch-test.toml")
	require.NoError(t, err)

	assert.Equal(t, 3, verbosityLevel)
	assert.Equal(t, filepath.Join(dir, "ruoff_shows.csv"), config.path(config.Files.ShowsCSV))
	assert.Equal(t, "/var/lib/shows.db", config.path("/var/lib/shows.db"))
}
