package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	configFileName       = ".venuewatch.toml"
	defaultEventDuration = 3 * time.Hour
	defaultInsertDelay   = 600 * time.Millisecond
	defaultShowTime      = "19:00"
)

type Config struct {
	General  GeneralConfig           `toml:"general"`
	Venue    VenueConfig             `toml:"venue"`
	Files    FilesConfig             `toml:"files"`
	Calendar CalendarConfig          `toml:"calendar"`
	CalDAVs  map[string]CalDAVConfig `toml:"caldavs"`
	Manual   ManualConfig            `toml:"manual"`

	// dir is where the config file was found; relative paths resolve
	// against it.
	dir string
}

type GeneralConfig struct {
	VerbosityLevel int    `toml:"verbosity_level"`
	Timezone       string `toml:"timezone"`
}

type VenueConfig struct {
	Name          string   `toml:"name"`
	URL           string   `toml:"url"`
	ExcludeTitles []string `toml:"exclude_titles"`
}

type FilesConfig struct {
	ShowsCSV   string `toml:"shows_csv"`
	KnownShows string `toml:"known_shows"`
	AddTimes   string `toml:"add_times"`
	Report     string `toml:"report"`
	ReportCopy string `toml:"report_copy"`
	Database   string `toml:"database"`
}

type CalendarConfig struct {
	Provider           string          `toml:"provider"`
	CalendarID         string          `toml:"calendar_id"`
	AccountName        string          `toml:"account_name"`
	ClientID           string          `toml:"client_id"`
	ClientSecret       string          `toml:"client_secret"`
	ServiceAccountFile string          `toml:"service_account_file"`
	CalDAVServer       string          `toml:"caldav_server"`
	DuplicatePolicy    DuplicatePolicy `toml:"duplicate_policy"`
	EventDuration      string          `toml:"event_duration"`
	InsertDelay        string          `toml:"insert_delay"`

	eventDuration time.Duration
	insertDelay   time.Duration
}

type CalDAVConfig struct {
	Name      string `toml:"name"`
	ServerURL string `toml:"server_url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

type ManualConfig struct {
	Year          int      `toml:"year"`
	ShowTime      string   `toml:"show_time"`
	SummarySuffix string   `toml:"summary_suffix"`
	Shows         []string `toml:"shows"`
}

var verbosityLevel int

// readConfig looks for filename in the current directory, then in
// $HOME/.config/venuewatch/.
func readConfig(filename string) (*Config, error) {
	dir := "."
	data, err := os.ReadFile(filename)
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config", "venuewatch")
		data, err = os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return nil, err
		}
	}

	config, err := parseConfig(data)
	if err != nil {
		return nil, err
	}
	config.dir = dir
	verbosityLevel = config.General.VerbosityLevel
	return config, nil
}

func parseConfig(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate fills in defaults and rejects settings the run cannot work with.
func (c *Config) Validate() error {
	if c.General.Timezone == "" {
		c.General.Timezone = "America/New_York"
	}
	if _, err := time.LoadLocation(c.General.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTimezone, c.General.Timezone)
	}

	if len(c.Venue.ExcludeTitles) == 0 {
		c.Venue.ExcludeTitles = []string{"2025 Premium Season Ticket Priority List"}
	}

	setDefault(&c.Files.ShowsCSV, "shows.csv")
	setDefault(&c.Files.KnownShows, "last_known_shows.txt")
	setDefault(&c.Files.AddTimes, "show_add_times.json")
	setDefault(&c.Files.Report, filepath.Join("docs", "index.html"))
	setDefault(&c.Files.Database, ".venuewatch.db")

	c.Calendar.Provider = strings.ToLower(c.Calendar.Provider)
	setDefault(&c.Calendar.Provider, "google")
	if c.Calendar.Provider != "google" && c.Calendar.Provider != "caldav" {
		return fmt.Errorf("unsupported provider type: %s (must be 'google' or 'caldav')", c.Calendar.Provider)
	}
	setDefault(&c.Calendar.AccountName, "default")
	if c.Calendar.DuplicatePolicy == "" {
		c.Calendar.DuplicatePolicy = PolicyNarrow
	}
	if !c.Calendar.DuplicatePolicy.Valid() {
		return fmt.Errorf("unknown duplicate_policy %q (must be %q or %q)", c.Calendar.DuplicatePolicy, PolicyNarrow, PolicyWide)
	}

	var err error
	if c.Calendar.eventDuration, err = parseDurationOr(c.Calendar.EventDuration, defaultEventDuration); err != nil {
		return fmt.Errorf("event_duration: %w", err)
	}
	if c.Calendar.insertDelay, err = parseDurationOr(c.Calendar.InsertDelay, defaultInsertDelay); err != nil {
		return fmt.Errorf("insert_delay: %w", err)
	}

	setDefault(&c.Manual.ShowTime, defaultShowTime)
	if _, _, err := c.Manual.showClock(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, _ := time.LoadLocation(c.General.Timezone)
	return loc
}

// path resolves a configured file name against the config directory.
func (c *Config) path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.dir == "" {
		return name
	}
	return filepath.Join(c.dir, name)
}

func (m ManualConfig) showClock() (int, int, error) {
	t, err := time.Parse("15:04", m.ShowTime)
	if err != nil {
		return 0, 0, fmt.Errorf("manual show_time %q: want HH:MM", m.ShowTime)
	}
	return t.Hour(), t.Minute(), nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func parseDurationOr(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
