package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/auth"
	"github.com/mmynk/groupswipe/internal/middleware"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
)

var (
	// ErrForbidden is returned when the caller does not belong to the group
	// (or match) the request is about.
	ErrForbidden = errors.New("caller is not a member")

	// ErrNotOwner is returned when an owner-only operation is attempted by
	// another member.
	ErrNotOwner = errors.New("only the group owner can do this")
)

// toConnectError maps store and service errors to Connect status codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrUniqueViolation):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrNotMutual):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// requireUser returns the authenticated caller set by the auth interceptor.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// requireMember fails with ErrForbidden unless userID belongs to groupID.
func requireMember(ctx context.Context, store storage.GroupStore, groupID, userID string) error {
	ok, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, ErrForbidden)
	}
	return nil
}

// requireMemberOfAny fails with ErrForbidden unless userID belongs to at
// least one of the groups.
func requireMemberOfAny(ctx context.Context, store storage.GroupStore, userID string, groupIDs ...string) error {
	for _, groupID := range groupIDs {
		ok, err := store.IsMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("groups %v: %w", groupIDs, ErrForbidden)
}

// requireParticipant loads the match and checks the caller belongs to one of
// its two groups.
func requireParticipant(ctx context.Context, store storage.Store, matchID int64, userID string) (*models.Match, error) {
	match, err := store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireMemberOfAny(ctx, store, userID, match.Group1, match.Group2); err != nil {
		return nil, err
	}
	return match, nil
}
