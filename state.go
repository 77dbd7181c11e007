package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// loadKnownShows reads the one-key-per-line file written by saveKnownShows.
// A missing file is an empty set.
func loadKnownShows(path string) (KeySet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KeySet{}, nil
		}
		return nil, err
	}
	defer f.Close()

	known := KeySet{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, err := ParseShowKey(line)
		if err != nil {
			printVerbosely(2, "  ⚠️ Ignoring malformed line in %s: %v\n", path, err)
			continue
		}
		known[key] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return known, nil
}

// saveKnownShows replaces the known-shows file with keys.
func saveKnownShows(path string, keys KeySet) error {
	var b strings.Builder
	for _, k := range keys.Sorted() {
		b.WriteString(k.String())
		b.WriteByte('\n')
	}
	return writeFileAtomic(path, []byte(b.String()))
}

// loadShowAddTimes reads the add-times JSON. A missing or corrupt file
// yields an empty map so the run can still proceed.
func loadShowAddTimes(path string) AddTimes {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			printVerbosely(1, "  ⚠️ Could not read %s: %v\n", path, err)
		}
		return AddTimes{}
	}
	addTimes := AddTimes{}
	if err := json.Unmarshal(data, &addTimes); err != nil {
		printVerbosely(1, "  ⚠️ Ignoring corrupt %s: %v\n", path, err)
		return AddTimes{}
	}
	return addTimes
}

func saveShowAddTimes(path string, addTimes AddTimes) error {
	data, err := json.MarshalIndent(addTimes, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// saveShowsToCSV writes the scraped listings in scrape order.
func saveShowsToCSV(path string, shows []RawShow) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "date_time_str"}); err != nil {
		return err
	}
	for _, show := range shows {
		if err := w.Write([]string{show.Title, show.DateTimeText}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// writeFileAtomic writes through a temp file in the same directory so a
// crash never leaves a half-written state file behind.
func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
