package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bddview/pkg/pipeline"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "bddview_session"

// DefaultSessionTTL is how long an idle session keeps its surface.
const DefaultSessionTTL = 24 * time.Hour

// session is the per-browser surface state. The size is threaded from one
// submission into the next, exactly as a single on-screen canvas would be.
type session struct {
	ID          string
	Size        pipeline.Size
	Input       string
	SVG         []byte
	Diagnostics []string
	Updated     time.Time
}

// sessionStore maps session ids to their state. Values are copied in and out
// so no caller holds a reference into the map.
type sessionStore struct {
	mu  sync.Mutex
	m   map[string]session
	ttl time.Duration
	now func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionStore{m: make(map[string]session), ttl: ttl, now: time.Now}
}

// get returns the session for id. Expired sessions are reported missing.
func (s *sessionStore) get(id string) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return session{}, false
	}
	if s.now().Sub(sess.Updated) > s.ttl {
		delete(s.m, id)
		return session{}, false
	}
	return sess, true
}

// create stores a fresh session with the given starting state and returns it.
func (s *sessionStore) create(init session) session {
	init.ID = uuid.NewString()
	s.put(init)
	return init
}

func (s *sessionStore) put(sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Updated = s.now()
	s.m[sess.ID] = sess
}

// cleanup drops expired sessions and returns how many were removed.
func (s *sessionStore) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.m {
		if now.Sub(sess.Updated) > s.ttl {
			delete(s.m, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
