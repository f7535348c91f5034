package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/session"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// SessionStore owns the local session and is the only writer of its durable keys.
// The in-memory value is updated before the durable write, so a failed write
// never undoes a local change.
type SessionStore struct {
	kv     session.KV
	logger *logging.Logger

	mu    sync.RWMutex
	state session.Session
}

// LoadSessionStore reads every key independently; a missing or unreadable key
// leaves its field unset.
func LoadSessionStore(kv session.KV, logger *logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.Default()
	}
	s := &SessionStore{
		kv:     kv,
		logger: logger,
	}

	if name, ok := s.read(session.KeyPlayerName); ok {
		s.state.Name = &name
	}
	if raw, ok := s.read(session.KeyCourtID); ok {
		courtID, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || courtID <= 0 {
			s.logger.Warn("ignore stored court id", "value", raw)
		} else {
			s.state.CourtID = courtID
		}
	}
	if raw, ok := s.read(session.KeyCheckInTime); ok {
		at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
		if err != nil {
			s.logger.Warn("ignore stored check-in time", "value", raw, "error", err)
		} else {
			s.state.CheckedInAt = &at
		}
	}
	if id, ok := s.read(session.KeyRecordID); ok {
		s.state.RecordID = strings.TrimSpace(id)
	}

	return s
}

// Snapshot returns a detached copy of the session.
func (s *SessionStore) Snapshot() session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// SetName stores the trimmed name. An empty name is a valid, deliberate choice.
func (s *SessionStore) SetName(name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	s.state.Name = &name
	s.mu.Unlock()

	if err := s.kv.Set(session.KeyPlayerName, name); err != nil {
		return fmt.Errorf("persist player name: %w", err)
	}
	return nil
}

// BeginCheckIn marks courtID as the active court and forgets any previous record ID.
func (s *SessionStore) BeginCheckIn(courtID int, at time.Time) error {
	s.mu.Lock()
	s.state.CourtID = courtID
	s.state.CheckedInAt = &at
	s.state.RecordID = ""
	s.mu.Unlock()

	return errors.Join(
		s.write(session.KeyCourtID, strconv.Itoa(courtID)),
		s.write(session.KeyCheckInTime, at.Format(time.RFC3339Nano)),
		s.remove(session.KeyRecordID),
	)
}

func (s *SessionStore) SetRecordID(id string) error {
	s.mu.Lock()
	s.state.RecordID = id
	s.mu.Unlock()

	return s.write(session.KeyRecordID, id)
}

// ClearCheckIn drops the active court, its timestamp and record ID.
func (s *SessionStore) ClearCheckIn() error {
	s.mu.Lock()
	s.state.CourtID = 0
	s.state.CheckedInAt = nil
	s.state.RecordID = ""
	s.mu.Unlock()

	return errors.Join(
		s.remove(session.KeyCourtID),
		s.remove(session.KeyCheckInTime),
		s.remove(session.KeyRecordID),
	)
}

func (s *SessionStore) read(key string) (string, bool) {
	value, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn("read session key failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (s *SessionStore) write(key, value string) error {
	if err := s.kv.Set(key, value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) remove(key string) error {
	if err := s.kv.Remove(key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
