// Package seen remembers which posting titles this process has already
// promoted to the log.
package seen

import (
	"strings"
	"sync"
)

// Tracker is the process-lifetime set of seen titles. The key is the
// trimmed title compared byte for byte; titles differing only in case or
// inner whitespace count as different postings.
type Tracker struct {
	mu     sync.Mutex
	titles map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{titles: make(map[string]struct{})}
}

// Key returns the dedup key for title.
func Key(title string) string {
	return strings.TrimSpace(title)
}

// IsNew reports whether title has not been seen before and marks it seen
// in the same step. Empty titles are never new.
func (t *Tracker) IsNew(title string) bool {
	key := Key(title)
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.titles[key]; ok {
		return false
	}
	t.titles[key] = struct{}{}
	return true
}

// Seed marks titles as seen without reporting them and returns how many
// were added.
func (t *Tracker) Seed(titles []string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	added := 0
	for _, title := range titles {
		key := Key(title)
		if key == "" {
			continue
		}
		if _, ok := t.titles[key]; ok {
			continue
		}
		t.titles[key] = struct{}{}
		added++
	}
	return added
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.titles)
}
