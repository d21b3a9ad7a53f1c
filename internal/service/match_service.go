package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/metrics"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
	"github.com/mmynk/groupswipe/pkg/api"
)

// MatchService implements the Connect MatchService.
type MatchService struct {
	store storage.Store
}

// NewMatchService creates a new MatchService with the given storage backend.
func NewMatchService(store storage.Store) *MatchService {
	return &MatchService{store: store}
}

// CreateMatch inserts the match for a mutually liked pair. When the other
// side already created it the call fails with CodeAlreadyExists and the
// caller is expected to look the match up with FindMatch.
func (s *MatchService) CreateMatch(ctx context.Context, req *connect.Request[api.CreateMatchRequest]) (*connect.Response[api.CreateMatchResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreateMatch request received", "group_1", msg.Group1, "group_2", msg.Group2)

	if msg.Group1 == "" || msg.Group2 == "" {
		return nil, invalidArgument("both group ids are required")
	}
	if msg.Group1 == msg.Group2 {
		return nil, invalidArgument("a group cannot match itself")
	}
	if err := requireMemberOfAny(ctx, s.store, userID, msg.Group1, msg.Group2); err != nil {
		return nil, toConnectError(err)
	}

	match := &models.Match{Group1: msg.Group1, Group2: msg.Group2}
	err = s.store.CreateMatch(ctx, match)
	if errors.Is(err, storage.ErrUniqueViolation) {
		metrics.MatchConflicts.Inc()
		slog.Info("CreateMatch lost race", "group_1", msg.Group1, "group_2", msg.Group2)
		return nil, toConnectError(err)
	}
	if err != nil {
		slog.Error("CreateMatch failed", "error", err)
		return nil, toConnectError(err)
	}
	metrics.MatchesCreated.Inc()

	slog.Info("Match created", "match_id", match.ID)
	return connect.NewResponse(&api.CreateMatchResponse{MatchID: match.ID}), nil
}

// FindMatch looks up the match of a pair in either ordering.
func (s *MatchService) FindMatch(ctx context.Context, req *connect.Request[api.FindMatchRequest]) (*connect.Response[api.FindMatchResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("FindMatch request received", "group_a", req.Msg.GroupA, "group_b", req.Msg.GroupB)

	if err := requireMemberOfAny(ctx, s.store, userID, req.Msg.GroupA, req.Msg.GroupB); err != nil {
		return nil, toConnectError(err)
	}
	match, err := s.store.FindMatch(ctx, req.Msg.GroupA, req.Msg.GroupB)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.FindMatchResponse{MatchID: match.ID}), nil
}

// GetMatchListDetails returns the caller's matches with last message previews.
func (s *MatchService) GetMatchListDetails(ctx context.Context, req *connect.Request[api.GetMatchListDetailsRequest]) (*connect.Response[api.GetMatchListDetailsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetMatchListDetails request received", "user_id", userID)

	summaries, err := s.store.ListMatchSummaries(ctx, userID)
	if err != nil {
		slog.Error("GetMatchListDetails failed", "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetMatchListDetailsResponse{Matches: make([]api.MatchSummary, 0, len(summaries))}
	for i := range summaries {
		resp.Matches = append(resp.Matches, toAPIMatchSummary(&summaries[i]))
	}

	slog.Info("GetMatchListDetails successful", "count", len(resp.Matches))
	return connect.NewResponse(resp), nil
}

// GetMatchDetails returns both groups of a match. Participants only.
func (s *MatchService) GetMatchDetails(ctx context.Context, req *connect.Request[api.GetMatchDetailsRequest]) (*connect.Response[api.GetMatchDetailsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetMatchDetails request received", "match_id", req.Msg.MatchID)

	if _, err := requireParticipant(ctx, s.store, req.Msg.MatchID, userID); err != nil {
		return nil, toConnectError(err)
	}
	details, err := s.store.GetMatchDetails(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetMatchDetailsResponse{
		MatchID:   details.Match.ID,
		Group1:    toAPIIdentity(details.Group1),
		Group2:    toAPIIdentity(details.Group2),
		CreatedAt: details.Match.CreatedAt,
	}), nil
}
