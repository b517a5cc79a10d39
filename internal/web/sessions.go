package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/darc-project/darc/internal/form"
	"github.com/google/uuid"
)

// sessionIdleTTL is how long an untouched dashboard form is kept
const sessionIdleTTL = 30 * time.Minute

type session struct {
	state form.State
	seen  time.Time
}

// sessions keeps one dashboard form per browser, in memory only. Forms idle
// for longer than ttl are dropped.
type sessions struct {
	mu        sync.Mutex
	entries   map[string]session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newSessions() *sessions {
	return &sessions{
		entries: make(map[string]session),
		ttl:     sessionIdleTTL,
		now:     time.Now,
	}
}

// identify returns the caller's session id, issuing a new cookie if needed
func (s *sessions) identify(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *sessions) get(id string) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(id, s.now())
}

// update applies fn to the stored state atomically and returns the result
func (s *sessions) update(id string, fn func(form.State) form.State) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	state := fn(s.load(id, now))
	s.entries[id] = session{state: state, seen: now}
	return state
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// load returns the live state for id, or a fresh form. Caller holds mu.
func (s *sessions) load(id string, now time.Time) form.State {
	e, ok := s.entries[id]
	if !ok || now.Sub(e.seen) > s.ttl {
		return form.New()
	}
	return e.state
}

// sweep drops expired forms, at most once per ttl. Caller holds mu.
func (s *sessions) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, e := range s.entries {
		if now.Sub(e.seen) > s.ttl {
			delete(s.entries, id)
		}
	}
}
