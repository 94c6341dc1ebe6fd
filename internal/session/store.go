// Package session holds per-conversation memory. All state is
// process-lifetime and in-memory; nothing here survives a restart, which
// is a deliberate boundary of the system.
package session

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skanderbz/tutord/internal/logging"
)

// Store owns all session records. It is safe for concurrent use; a single
// mutex serializes mutation so an append and its cap-eviction are atomic
// relative to concurrent appends to the same id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      *logging.Logger
}

// NewStore creates a conversation store with the given idle TTL.
func NewStore(ttl time.Duration, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      log.Component("store"),
	}
}

// Create allocates a fresh session and returns its id. Never fails.
func (s *Store) Create() string {
	id := uuid.New().String()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Context:      make(map[string]any),
	}
	s.log.Info().Str("session", id).Msg("created session")
	return id
}

// GetHistory returns a copy of the session's history and refreshes its
// last-activity stamp. An unknown id yields an empty history; read-only
// probes never materialize sessions (unlike Append).
func (s *Store) GetHistory(id string) []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Warn().Str("session", id).Msg("history requested for unknown session")
		return nil
	}
	sess.LastActivity = s.now()

	history := make([]Exchange, len(sess.History))
	copy(history, sess.History)
	return history
}

// Append records one exchange. If the id is unknown the session is created
// under that exact id: the write path heals missing sessions while the read
// path does not. A typo'd id therefore becomes a live session, which is
// preserved observed behavior.
func (s *Store) Append(id, userText, aiText string) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Warn().Str("session", id).Msg("append to unknown session, creating it")
		sess = &Session{
			ID:        id,
			CreatedAt: now,
			Context:   make(map[string]any),
		}
		s.sessions[id] = sess
	}

	sess.History = append(sess.History, Exchange{
		Timestamp: now,
		UserText:  userText,
		AIText:    aiText,
	})
	if len(sess.History) > MaxHistory {
		sess.History = sess.History[len(sess.History)-MaxHistory:]
	}
	sess.LastActivity = now
}

// Clear deletes the session if present. Clearing an absent id is a logged
// no-op, never an error.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		s.log.Warn().Str("session", id).Msg("clear of unknown session")
		return
	}
	delete(s.sessions, id)
	s.log.Info().Str("session", id).Msg("cleared session")
}

// GetContext returns a copy of the session's free-form metadata bag.
func (s *Store) GetContext(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(sess.Context))
	for k, v := range sess.Context {
		out[k] = v
	}
	return out
}

// UpdateContext merges keys into the session's metadata bag. Unknown ids
// are ignored with a warning.
func (s *Store) UpdateContext(id string, ctx map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Warn().Str("session", id).Msg("context update for unknown session")
		return
	}
	for k, v := range ctx {
		sess.Context[k] = v
	}
	sess.LastActivity = s.now()
}

// List expires idle sessions, then snapshots the rest sorted by creation
// time (oldest first) for stable output.
func (s *Store) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	infos := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, Info{
			ID:           sess.ID,
			CreatedAt:    sess.CreatedAt,
			LastActivity: sess.LastActivity,
			MessageCount: len(sess.History),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// GetStats aggregates over all live sessions after an expiry sweep. The
// average is 0 when no sessions exist.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	st := Stats{TotalSessions: len(s.sessions)}
	for _, sess := range s.sessions {
		st.TotalMessages += len(sess.History)
	}
	if st.TotalSessions > 0 {
		avg := float64(st.TotalMessages) / float64(st.TotalSessions)
		st.AvgMessagesPerSession = math.Round(avg*100) / 100
	}
	return st
}

// sweepLocked drops sessions idle longer than the TTL. Sweeps only run
// opportunistically on store access, so staleness is bounded by "at most
// one idle period since the last access" and no better; there is no
// background clock.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	var expired []string
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
		s.log.Info().Str("session", id).Msg("expired session")
	}
}
