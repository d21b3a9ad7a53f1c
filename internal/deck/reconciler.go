package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrMatchExists is returned by MatchBackend.CreateMatch when the
	// unordered pair already has a match.
	ErrMatchExists = errors.New("match already exists")
	// ErrNoMatch is returned by MatchBackend.FindMatch when the pair has no
	// match.
	ErrNoMatch = errors.New("match not found")
)

// MatchBackend is the part of the backend the reconciler needs.
type MatchBackend interface {
	QuerySwipe(ctx context.Context, swiperGroupID, swipedGroupID string, liked bool) (bool, error)
	CreateMatch(ctx context.Context, group1, group2 string) (int64, error)
	FindMatch(ctx context.Context, groupA, groupB string) (int64, error)
}

// Outcome is the result of reconciling a like.
type Outcome struct {
	Matched bool
	MatchID int64
	// Created is true when this call created the match, false when it was
	// created concurrently by the other group and looked up afterwards.
	Created bool
}

// Reconciler turns a like into a match once the other group liked back.
type Reconciler struct {
	backend MatchBackend
	logger  *slog.Logger
}

func NewReconciler(backend MatchBackend, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{backend: backend, logger: logger}
}

// Reconcile is called after swiping liked swiped. Both groups may discover
// the mutual like at the same time; the loser of the creation race resolves
// to the winner's match.
func (r *Reconciler) Reconcile(ctx context.Context, swipingGroupID, swipedGroupID string) (Outcome, error) {
	likedBack, err := r.backend.QuerySwipe(ctx, swipedGroupID, swipingGroupID, true)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check for a like back: %w", err)
	}
	if !likedBack {
		return Outcome{}, nil
	}

	matchID, err := r.backend.CreateMatch(ctx, swipingGroupID, swipedGroupID)
	switch {
	case err == nil:
		r.logger.Info("Match created", "match_id", matchID, "group_1", swipingGroupID, "group_2", swipedGroupID)
		return Outcome{Matched: true, MatchID: matchID, Created: true}, nil
	case errors.Is(err, ErrMatchExists):
		matchID, err = r.backend.FindMatch(ctx, swipingGroupID, swipedGroupID)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to find existing match: %w", err)
		}
		r.logger.Debug("Match already created by the other group", "match_id", matchID)
		return Outcome{Matched: true, MatchID: matchID}, nil
	default:
		return Outcome{}, fmt.Errorf("failed to create a match record: %w", err)
	}
}
