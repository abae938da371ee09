package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/example/rinkwatch/internal/session"
	"go.uber.org/zap"
)

// StatusRecord is the persisted last-known state of one slot identity.
type StatusRecord struct {
	Status      session.Status  `json:"status"`
	Info        session.Session `json:"info"`
	LastUpdated time.Time       `json:"last_updated"`
}

type statusDocument struct {
	Sessions map[string]StatusRecord `json:"sessions"`
}

// StatusStore is the durable map from slot identity to last-known status,
// the system's memory across cycles. Every operation reloads the backing
// file so edits made between cycles (by the CLI or by hand) are observed.
// A missing or malformed file degrades to an empty store; it never fails
// the caller.
type StatusStore struct {
	path   string
	logger *zap.Logger
}

func NewStatusStore(path string, logger *zap.Logger) *StatusStore {
	return &StatusStore{path: path, logger: logger}
}

// Get returns the stored status for an identity, if any.
func (s *StatusStore) Get(identity string) (session.Status, bool) {
	rec, ok := s.load()[identity]
	if !ok {
		return "", false
	}
	return rec.Status, true
}

// Changed reports whether identity is unseen or its stored status differs
// from newStatus.
func (s *StatusStore) Changed(identity string, newStatus session.Status) bool {
	prev, seen := s.Get(identity)
	return !seen || prev != newStatus
}

// Update overwrites the record for identity unconditionally and refreshes
// last_updated. It runs for every scraped slot every cycle, changed or not,
// so the snapshot stays current.
func (s *StatusStore) Update(identity string, status session.Status, info session.Session) error {
	sessions := s.load()
	sessions[identity] = StatusRecord{Status: status, Info: info, LastUpdated: time.Now()}
	return s.save(sessions)
}

// All returns every stored record keyed by identity.
func (s *StatusStore) All() map[string]StatusRecord {
	return s.load()
}

// ForgetMatching deletes every record whose observed date/time fuzzily
// matches dateTime and returns the forgotten identities. Used when the user
// removes a booking: the next cycle then re-classifies the slot from scratch
// instead of suppressing it as unchanged.
func (s *StatusStore) ForgetMatching(dateTime string) ([]string, error) {
	sessions := s.load()
	var forgotten []string
	for id, rec := range sessions {
		if session.Matches(rec.Info.DateTime, dateTime) {
			forgotten = append(forgotten, id)
			delete(sessions, id)
		}
	}
	if len(forgotten) == 0 {
		return nil, nil
	}
	return forgotten, s.save(sessions)
}

// Prune drops records not updated within maxAge. Zero disables pruning.
func (s *StatusStore) Prune(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	sessions := s.load()
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, rec := range sessions {
		if rec.LastUpdated.Before(cutoff) {
			delete(sessions, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(sessions)
}

func (s *StatusStore) load() map[string]StatusRecord {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not read status file, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return map[string]StatusRecord{}
	}
	var doc statusDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		s.logger.Warn("malformed status file, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return map[string]StatusRecord{}
	}
	if doc.Sessions == nil {
		return map[string]StatusRecord{}
	}
	return doc.Sessions
}

func (s *StatusStore) save(sessions map[string]StatusRecord) error {
	b, err := json.MarshalIndent(statusDocument{Sessions: sessions}, "", "  ")
	if err != nil {
		return fmt.Errorf("status store: encode: %w", err)
	}
	return writeAtomic(s.path, b)
}
