package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/mmynk/groupswipe/internal/client"
	"github.com/mmynk/groupswipe/internal/session"
	"github.com/mmynk/groupswipe/pkg/api"
)

var errNotSignedIn = errors.New("not signed in; run `groupswipe login` first")

// storedSession is what survives between invocations.
type storedSession struct {
	Server string   `json:"server"`
	User   api.User `json:"user"`
	Token  string   `json:"token"`
}

func loadState(path string) (*storedSession, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var st storedSession
	if err := sonic.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &st, nil
}

func saveState(path string, st storedSession) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func newClient(c *cli.Command) *client.Client {
	return client.New(http.DefaultClient, c.String("server"))
}

// resume restores the stored session against the server it was created on.
func resume(ctx context.Context, c *cli.Command) (*client.Client, *session.Session, error) {
	st, err := loadState(c.String("state"))
	if err != nil {
		return nil, nil, err
	}
	cl := client.New(http.DefaultClient, st.Server)
	s, err := session.Resume(ctx, cl, st.User, st.Token)
	if err != nil {
		return nil, nil, err
	}
	return cl, s, nil
}

func persist(c *cli.Command, s *session.Session) error {
	user, err := s.User()
	if err != nil {
		return err
	}
	token, err := s.Token()
	if err != nil {
		return err
	}
	return saveState(c.String("state"), storedSession{
		Server: c.String("server"),
		User:   user,
		Token:  token,
	})
}
