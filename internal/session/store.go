package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store holds every live session, keyed by session ID. Sessions exist only
// in process memory; a restart discards all of them and invalidates every
// outstanding token with them.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	log      zerolog.Logger
}

// NewStore creates a Store that evicts sessions idle longer than ttl.
func NewStore(ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		log:      log.With().Str("component", "session_store").Logger(),
	}
}

// Create registers a fresh session and returns it.
func (st *Store) Create() *Session {
	sess := newSession()
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()

	st.log.Debug().Str("session_id", sess.id.String()).Msg("Session created")
	return sess
}

// Get looks up a session by ID and refreshes its activity timestamp.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		sess.Touch()
	}
	return sess, ok
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweeper runs periodic TTL eviction until ctx is cancelled.
func (st *Store) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	st.log.Info().Dur("ttl", st.ttl).Msg("Session sweeper started")
	for {
		select {
		case <-ctx.Done():
			st.log.Info().Msg("Session sweeper stopped")
			return
		case <-ticker.C:
			st.evictStale(time.Now())
		}
	}
}

// evictStale removes sessions whose last activity is older than the TTL.
func (st *Store) evictStale(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, sess := range st.sessions {
		sess.mu.Lock()
		stale := now.Sub(sess.lastSeen) > st.ttl
		sess.mu.Unlock()
		if stale {
			delete(st.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		st.log.Info().Int("evicted", evicted).Int("remaining", len(st.sessions)).Msg("Stale sessions evicted")
	}
}
