// Package auth keeps track of the user signed in to a client process.
package auth

import (
	"sync"

	"github.com/d3ce1t/areyouin-events/logger"
)

// Session implements api.Authenticator for a single client.
type Session struct {
	mutex  sync.RWMutex
	userID string
}

func NewSession() *Session {
	return &Session{}
}

// NewSessionFor returns a session already signed in as userID.
func NewSessionFor(userID string) *Session {
	return &Session{userID: userID}
}

func (s *Session) Login(userID string) {
	s.mutex.Lock()
	s.userID = userID
	s.mutex.Unlock()
	logger.LogIf("Session: %v signed in", userID)
}

func (s *Session) Logout() {
	s.mutex.Lock()
	userID := s.userID
	s.userID = ""
	s.mutex.Unlock()
	if userID != "" {
		logger.LogIf("Session: %v signed out", userID)
	}
}

func (s *Session) CurrentUserID() (string, bool) {
	defer s.mutex.RUnlock()
	s.mutex.RLock()
	return s.userID, s.userID != ""
}
