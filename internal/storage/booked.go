package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/example/rinkwatch/internal/session"
	"go.uber.org/zap"
)

type bookedDocument struct {
	BookedSessions []string  `json:"booked_sessions"`
	LastUpdated    time.Time `json:"last_updated"`
}

// BookedRegistry is the set of slots the user has booked themselves.
// Membership checks are fuzzy, so the wording copied from a notification and
// the wording the site uses next scrape both hit the same entry. Mutations
// persist immediately; reads load the file fresh each call.
type BookedRegistry struct {
	path   string
	logger *zap.Logger
}

func NewBookedRegistry(path string, logger *zap.Logger) *BookedRegistry {
	return &BookedRegistry{path: path, logger: logger}
}

// IsBooked reports whether dateTime fuzzily matches any stored entry.
func (r *BookedRegistry) IsBooked(dateTime string) bool {
	for _, e := range r.load() {
		if session.Matches(e, dateTime) {
			return true
		}
	}
	return false
}

// Add stores the trimmed string. Adding an existing entry only refreshes
// last_updated.
func (r *BookedRegistry) Add(dateTime string) error {
	return r.save(append(r.load(), strings.TrimSpace(dateTime)))
}

// Remove deletes every entry the query identifies (case-insensitive
// equality, the query contained in the entry, or a fuzzy date match) and
// returns what was removed. Partial-match deletion is deliberate: "Nov 4"
// clears "Monday, November 4 - 8:00pm" without retyping the whole line.
func (r *BookedRegistry) Remove(dateTime string) ([]string, error) {
	query := strings.ToLower(strings.TrimSpace(dateTime))

	var kept, removed []string
	for _, e := range r.load() {
		norm := strings.ToLower(strings.TrimSpace(e))
		if norm == query || strings.Contains(norm, query) || session.Matches(e, dateTime) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	return removed, r.save(kept)
}

// List returns all entries, lexicographically sorted.
func (r *BookedRegistry) List() []string {
	entries := r.load()
	sort.Strings(entries)
	return entries
}

func (r *BookedRegistry) load() []string {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("could not read booked sessions file, treating as empty",
				zap.String("path", r.path), zap.Error(err))
		}
		return nil
	}
	var doc bookedDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		r.logger.Warn("malformed booked sessions file, treating as empty",
			zap.String("path", r.path), zap.Error(err))
		return nil
	}
	return doc.BookedSessions
}

func (r *BookedRegistry) save(entries []string) error {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	sorted := make([]string, 0, len(set))
	for e := range set {
		sorted = append(sorted, e)
	}
	sort.Strings(sorted)

	b, err := json.MarshalIndent(bookedDocument{BookedSessions: sorted, LastUpdated: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("booked registry: encode: %w", err)
	}
	return writeAtomic(r.path, b)
}
