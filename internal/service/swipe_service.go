package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/metrics"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
	"github.com/mmynk/groupswipe/pkg/api"
)

// SwipeService implements the Connect SwipeService.
type SwipeService struct {
	store storage.Store
}

// NewSwipeService creates a new SwipeService with the given storage backend.
func NewSwipeService(store storage.Store) *SwipeService {
	return &SwipeService{store: store}
}

// GetGroupsForSwiping returns the deck of the swiping group: every other
// group that is active right now and that the swiping group has not swiped on.
func (s *SwipeService) GetGroupsForSwiping(ctx context.Context, req *connect.Request[api.GetGroupsForSwipingRequest]) (*connect.Response[api.GetGroupsForSwipingResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.SwipingGroupID
	slog.Info("GetGroupsForSwiping request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("swiping group id is required")
	}
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	candidates, err := s.store.ListCandidates(ctx, groupID, time.Now().UnixMilli())
	if err != nil {
		slog.Error("GetGroupsForSwiping failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupsForSwipingResponse{Candidates: make([]api.Candidate, 0, len(candidates))}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, api.Candidate{
			ID:       c.ID,
			Name:     c.Name,
			Bio:      c.Bio,
			PhotoURL: c.PhotoURL,
		})
	}

	slog.Info("GetGroupsForSwiping successful", "group_id", groupID, "count", len(resp.Candidates))
	return connect.NewResponse(resp), nil
}

// CreateSwipe records a like or pass. Repeating a swipe keeps the first decision.
func (s *SwipeService) CreateSwipe(ctx context.Context, req *connect.Request[api.CreateSwipeRequest]) (*connect.Response[api.CreateSwipeResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreateSwipe request received",
		"swiper_group_id", msg.SwiperGroupID,
		"swiped_group_id", msg.SwipedGroupID,
		"liked", msg.Liked,
	)

	if msg.SwiperGroupID == "" || msg.SwipedGroupID == "" {
		return nil, invalidArgument("both group ids are required")
	}
	if msg.SwiperGroupID == msg.SwipedGroupID {
		return nil, invalidArgument("a group cannot swipe on itself")
	}
	if err := requireMember(ctx, s.store, msg.SwiperGroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.store.GetGroup(ctx, msg.SwipedGroupID); err != nil {
		return nil, toConnectError(err)
	}

	swipe := &models.Swipe{
		SwiperGroupID: msg.SwiperGroupID,
		SwipedGroupID: msg.SwipedGroupID,
		Liked:         msg.Liked,
	}
	if err := s.store.CreateSwipe(ctx, swipe); err != nil {
		slog.Error("CreateSwipe failed", "error", err)
		return nil, toConnectError(err)
	}
	metrics.SwipesTotal.WithLabelValues(metrics.Decision(msg.Liked)).Inc()

	return connect.NewResponse(&api.CreateSwipeResponse{}), nil
}

// QuerySwipe reports whether a swipe with the given decision exists. The
// caller must belong to one of the two groups.
func (s *SwipeService) QuerySwipe(ctx context.Context, req *connect.Request[api.QuerySwipeRequest]) (*connect.Response[api.QuerySwipeResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("QuerySwipe request received",
		"swiper_group_id", msg.SwiperGroupID,
		"swiped_group_id", msg.SwipedGroupID,
	)

	if err := requireMemberOfAny(ctx, s.store, userID, msg.SwiperGroupID, msg.SwipedGroupID); err != nil {
		return nil, toConnectError(err)
	}
	exists, err := s.store.HasSwiped(ctx, msg.SwiperGroupID, msg.SwipedGroupID, msg.Liked)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.QuerySwipeResponse{Exists: exists}), nil
}
