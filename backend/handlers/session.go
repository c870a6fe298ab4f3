package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionCookieName = "session_token"
	sessionDuration   = 24 * time.Hour
	cleanupInterval   = 1 * time.Hour
)

var errNoSession = errors.New("no valid session")

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

func (s Session) expired() bool {
	return s.ExpiresAt.Before(time.Now())
}

// SessionStore holds login sessions in memory, one per user. Logging
// in again replaces any earlier session for the same user.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Run prunes expired sessions until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.prune()
		}
	}
}

func (s *SessionStore) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.expired() {
			delete(s.sessions, token)
		}
	}
}

// Create issues a session for userID and sets the cookie.
func (s *SessionStore) Create(w http.ResponseWriter, userID string) Session {
	sess := Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	s.mu.Lock()
	for token, existing := range s.sessions {
		if existing.UserID == userID {
			delete(s.sessions, token)
		}
	}
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Get returns the request's session, or errNoSession.
func (s *SessionStore) Get(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return Session{}, errNoSession
	}

	s.mu.RLock()
	sess, ok := s.sessions[cookie.Value]
	s.mu.RUnlock()
	if !ok {
		return Session{}, errNoSession
	}
	if sess.expired() {
		s.mu.Lock()
		delete(s.sessions, sess.Token)
		s.mu.Unlock()
		return Session{}, errNoSession
	}
	return sess, nil
}

// Delete drops the request's session and clears the cookie.
func (s *SessionStore) Delete(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
