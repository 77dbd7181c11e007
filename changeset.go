package main

import "sort"

// KeySet is an unordered set of show identities.
type KeySet map[ShowKey]struct{}

func NewKeySet(keys ...ShowKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// KeysOf collects the identities of the scraped listings.
func KeysOf(shows []RawShow) KeySet {
	s := make(KeySet, len(shows))
	for _, show := range shows {
		s[show.Key()] = struct{}{}
	}
	return s
}

func (s KeySet) Has(k ShowKey) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keys ordered by title, then raw text.
func (s KeySet) Sorted() []ShowKey {
	keys := make([]ShowKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Title != keys[j].Title {
			return keys[i].Title < keys[j].Title
		}
		return keys[i].RawText < keys[j].RawText
	})
	return keys
}

// Diff returns the keys present only in current (added) and only in known
// (removed).
func Diff(current, known KeySet) (added, removed KeySet) {
	added, removed = KeySet{}, KeySet{}
	for k := range current {
		if !known.Has(k) {
			added[k] = struct{}{}
		}
	}
	for k := range known {
		if !current.Has(k) {
			removed[k] = struct{}{}
		}
	}
	return added, removed
}

// AddTimes maps a show to the timestamp it was first seen. Entries are
// never overwritten or removed.
type AddTimes map[ShowKey]string

// RecordFirstSeen stamps every current key missing from addTimes with now.
// A nil addTimes yields a fresh map.
func RecordFirstSeen(addTimes AddTimes, current KeySet, now string) AddTimes {
	if addTimes == nil {
		addTimes = AddTimes{}
	}
	for k := range current {
		if _, ok := addTimes[k]; !ok {
			addTimes[k] = now
		}
	}
	return addTimes
}
