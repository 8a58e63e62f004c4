package client

import (
	"sync"

	"registration-tracker/models"
)

// Session holds client-side auth state: the bearer token and the current
// user. Any 401 from the server purges both, so callers always see a
// consistent logged-out state after an expired or revoked token.
type Session struct {
	mu     sync.Mutex
	client *Client
	user   *models.User
}

// NewSession wraps a client with session state and wires its 401 hook.
func NewSession(c *Client) *Session {
	s := &Session{client: c}
	c.OnUnauthorized = s.clear
	return s
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.SetToken("")
	s.user = nil
}

// Login authenticates and stores the user and token.
func (s *Session) Login(email, password string) (*models.User, error) {
	user, err := s.client.Login(email, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Register creates an account and logs the session in.
func (s *Session) Register(firstName, lastName, email, password string) (*models.User, error) {
	user, err := s.client.RegisterUser(firstName, lastName, email, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Logout acknowledges server-side and discards local state regardless of
// the server's answer.
func (s *Session) Logout() error {
	err := s.client.Logout()
	s.clear()
	return err
}

// CurrentUser returns the logged-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether the session holds a token and user.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.client.Token() != ""
}

// Client returns the underlying API client.
func (s *Session) Client() *Client {
	return s.client
}
