package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	if alice.id == "" || alice.token == "" {
		t.Fatal("expected user id and token")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice2",
			Password: "password123",
		}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:    "carol@example.com",
			Password: "password123",
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != alice.id {
			t.Errorf("expected user %s, got %s", alice.id, resp.Msg.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestCurrentUserAndProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	t.Run("anonymous", func(t *testing.T) {
		_, err := env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("update profile", func(t *testing.T) {
		resp, err := alice.auth.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{
			Username:  "Alice A.",
			AvatarURL: "https://example.com/alice.png",
		}))
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if resp.Msg.User.Username != "Alice A." {
			t.Errorf("username: expected 'Alice A.', got %q", resp.Msg.User.Username)
		}

		current, err := alice.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if current.Msg.User.AvatarURL != "https://example.com/alice.png" {
			t.Errorf("avatar: got %q", current.Msg.User.AvatarURL)
		}
	})

	t.Run("push token", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := alice.auth.RegisterPushToken(ctx, connect.NewRequest(&api.RegisterPushTokenRequest{
				Token: "ExponentPushToken[alice]",
			}))
			if err != nil {
				t.Fatalf("RegisterPushToken failed: %v", err)
			}
		}
		tokens, err := env.store.ListPushTokens(ctx, []string{alice.id})
		if err != nil {
			t.Fatalf("ListPushTokens failed: %v", err)
		}
		if len(tokens) != 1 {
			t.Errorf("expected 1 token, got %d", len(tokens))
		}
	})
}
