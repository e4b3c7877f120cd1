// Package history keeps resume positions of played files.
package history

import (
	"sort"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/where"
	"github.com/metafates/gache"
)

// Positions this close to either end are not worth resuming.
const (
	MinResume  = 5 * time.Second
	EndPadding = 10 * time.Second
)

var cacher = gache.New[map[string]*Entry](filesystem.GacheOptions(where.History(), 0))

var now = time.Now

// Get returns every saved entry keyed by media key.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Recent returns the entries, most recently updated first.
func Recent() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// Save records position for path. A position near the start or the end
// removes the entry instead.
func Save(path string, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := &Entry{Path: path, Position: position, Duration: duration, UpdatedAt: now()}
	if !resumable(position, duration) {
		delete(saved, entry.encode())
	} else {
		saved[entry.encode()] = entry
	}

	return cacher.Set(saved)
}

// Position returns where path was left, if anywhere.
func Position(path string) (float64, bool) {
	saved, err := Get()
	if err != nil {
		return 0, false
	}

	entry, ok := saved[cache.MediaKey(path)]
	if !ok {
		return 0, false
	}
	return entry.Position, true
}

// Remove deletes the entry of path.
func Remove(path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, cache.MediaKey(path))
	return cacher.Set(saved)
}

func resumable(position, duration float64) bool {
	if position < MinResume.Seconds() {
		return false
	}
	return duration <= 0 || position < duration-EndPadding.Seconds()
}
