package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TobiSchelling/trendboard/internal/metrics"
	"github.com/TobiSchelling/trendboard/internal/navigator"
)

const sessionCookie = "trendboard_session"

// session is one browser's navigation state.
type session struct {
	id  string
	nav *navigator.Navigator

	mu    sync.Mutex
	flash string
}

func (s *session) setFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// takeFlash returns and clears the pending message.
func (s *session) takeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

// sessionStore keeps the most recently used sessions. Evicted browsers start over.
type sessionStore struct {
	cache  *lru.Cache[string, *session]
	newNav func() *navigator.Navigator
}

func newSessionStore(capacity int, newNav func() *navigator.Navigator) (*sessionStore, error) {
	cache, err := lru.NewWithEvict[string, *session](capacity, func(string, *session) {
		metrics.Sessions.Dec()
	})
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	return &sessionStore{cache: cache, newNav: newNav}, nil
}

// get returns the session named by the request cookie, creating one and setting
// the cookie when there is none.
func (st *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := st.cache.Get(c.Value); ok {
			return sess
		}
	}

	sess := &session{id: uuid.NewString(), nav: st.newNav()}
	st.cache.Add(sess.id, sess)
	metrics.Sessions.Inc()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (st *sessionStore) len() int { return st.cache.Len() }
