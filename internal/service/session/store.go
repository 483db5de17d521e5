package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yuzuhub/answerphone/internal/model/flow"
)

// sweepInterval is how often the idle sweeper scans the store.
const sweepInterval = time.Minute

// Store keeps per-call state in memory. A single mutex guards the whole map;
// call volume is low enough that fine-grained locking buys nothing, and one
// lock keeps the atomicity story simple. All reads copy the record out so
// callers never alias locked state.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*flow.Session
	maxMessages int
}

// NewStore returns an empty store capping each session at maxMessages
// utterances.
func NewStore(maxMessages int) *Store {
	return &Store{
		sessions:    make(map[string]*flow.Session),
		maxMessages: maxMessages,
	}
}

// Get returns a copy of the session, if present.
func (s *Store) Get(id string) (flow.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return flow.Session{}, false
	}
	return snapshot(sess), true
}

// GetOrCreate returns the session for id, creating it with the given caller
// if absent. The caller identity is set once at creation and never
// overwritten by later events. Reports whether a new record was created.
func (s *Store) GetOrCreate(id, caller string) (flow.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &flow.Session{
			ID:       id,
			Caller:   caller,
			Messages: make([]string, 0, 4),
			LastSeen: time.Now(),
		}
		s.sessions[id] = sess
		return snapshot(sess), true
	}

	sess.LastSeen = time.Now()
	return snapshot(sess), false
}

// Update runs fn on the live record under the store lock, so a
// read-then-mutate decision is atomic with respect to concurrent events for
// the same call. Reports false if the session is gone (e.g. removed by a
// racing session_end), in which case fn is not called.
func (s *Store) Update(id string, fn func(*flow.Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	fn(sess)
	sess.LastSeen = time.Now()
	return true
}

// AppendMessage appends one caller utterance, preserving arrival order.
// Reports false when the session is gone or the per-session cap is reached;
// capped appends drop the new utterance, never the collected ones.
func (s *Store) AppendMessage(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	sess.LastSeen = time.Now()
	if len(sess.Messages) >= s.maxMessages {
		return false
	}

	sess.Messages = append(sess.Messages, text)
	return true
}

// Remove pops the session and returns its final state. Once removed an id is
// gone for good; a later event for it starts a fresh record.
func (s *Store) Remove(id string) (flow.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return flow.Session{}, false
	}

	delete(s.sessions, id)
	return snapshot(sess), true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes every session idle longer than ttl and returns their
// final states.
func (s *Store) EvictIdle(ttl time.Duration) []flow.Session {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []flow.Session
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			evicted = append(evicted, snapshot(sess))
			delete(s.sessions, id)
		}
	}
	return evicted
}

// RunSweeper periodically evicts idle sessions until ctx is cancelled,
// passing each evicted session to onEvict outside the store lock. Covers
// calls whose session_end never arrives.
func (s *Store) RunSweeper(ctx context.Context, ttl time.Duration, onEvict func(flow.Session)) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, sess := range s.EvictIdle(ttl) {
				log.Printf("[session] evicted idle session %s (caller=%s, %d messages)",
					sess.ID, sess.Caller, len(sess.Messages))
				if onEvict != nil {
					onEvict(sess)
				}
			}
		}
	}
}

// snapshot copies a record so callers cannot mutate store state. Caller must
// hold the lock.
func snapshot(sess *flow.Session) flow.Session {
	copied := *sess
	copied.Messages = make([]string, len(sess.Messages))
	copy(copied.Messages, sess.Messages)
	return copied
}
