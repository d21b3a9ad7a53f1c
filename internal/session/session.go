// Package session holds the signed-in user's context: who they are, their
// token and the groups they belong to. A Session is created on sign-in and
// is unusable after SignOut.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mmynk/groupswipe/pkg/api"
)

var ErrSignedOut = errors.New("signed out")

// Backend is the account side of the API.
type Backend interface {
	Register(ctx context.Context, email, username, password string) (api.User, string, error)
	Login(ctx context.Context, email, password string) (api.User, string, error)
	ListMyGroups(ctx context.Context) ([]api.Group, error)
	// SetToken authenticates later calls. An empty token signs out.
	SetToken(token string)
}

type Session struct {
	backend Backend

	mu        sync.RWMutex
	user      api.User
	token     string
	groups    []api.Group
	signedOut bool
}

// SignIn logs in and loads the user's groups.
func SignIn(ctx context.Context, backend Backend, email, password string) (*Session, error) {
	user, token, err := backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return start(ctx, backend, user, token)
}

// Register creates an account and signs in as it.
func Register(ctx context.Context, backend Backend, email, username, password string) (*Session, error) {
	user, token, err := backend.Register(ctx, email, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	return start(ctx, backend, user, token)
}

// Resume restores a session from a stored token.
func Resume(ctx context.Context, backend Backend, user api.User, token string) (*Session, error) {
	return start(ctx, backend, user, token)
}

func start(ctx context.Context, backend Backend, user api.User, token string) (*Session, error) {
	backend.SetToken(token)
	s := &Session{backend: backend, user: user, token: token}
	if _, err := s.RefreshGroups(ctx); err != nil {
		backend.SetToken("")
		return nil, err
	}
	return s, nil
}

func (s *Session) User() (api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signedOut {
		return api.User{}, ErrSignedOut
	}
	return s.user, nil
}

func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signedOut {
		return "", ErrSignedOut
	}
	return s.token, nil
}

// Groups returns the groups from the last refresh.
func (s *Session) Groups() ([]api.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signedOut {
		return nil, ErrSignedOut
	}
	out := make([]api.Group, len(s.groups))
	copy(out, s.groups)
	return out, nil
}

// Group looks up one of the user's groups by id.
func (s *Session) Group(groupID string) (api.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.ID == groupID {
			return g, true
		}
	}
	return api.Group{}, false
}

// RefreshGroups reloads the user's groups.
func (s *Session) RefreshGroups(ctx context.Context) ([]api.Group, error) {
	s.mu.RLock()
	signedOut := s.signedOut
	s.mu.RUnlock()
	if signedOut {
		return nil, ErrSignedOut
	}

	groups, err := s.backend.ListMyGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signedOut {
		return nil, ErrSignedOut
	}
	s.groups = groups
	out := make([]api.Group, len(groups))
	copy(out, groups)
	return out, nil
}

// SignOut clears the session and the backend token.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signedOut {
		return
	}
	s.signedOut = true
	s.user = api.User{}
	s.token = ""
	s.groups = nil
	s.backend.SetToken("")
}
