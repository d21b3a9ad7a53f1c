package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
	"github.com/mmynk/groupswipe/pkg/api"
)

// DefaultActivationWindow is how long a group stays discoverable after
// ActivateGroup.
const DefaultActivationWindow = 4 * time.Hour

// inviteAttempts bounds retries when a generated invite code collides.
const inviteAttempts = 5

// GroupService implements the Connect GroupService.
type GroupService struct {
	store            storage.Store
	activationWindow time.Duration
}

// NewGroupService creates a new GroupService with the given storage backend.
// A non-positive activationWindow selects DefaultActivationWindow.
func NewGroupService(store storage.Store, activationWindow time.Duration) *GroupService {
	if activationWindow <= 0 {
		activationWindow = DefaultActivationWindow
	}
	return &GroupService{store: store, activationWindow: activationWindow}
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group := &models.Group{
		Name:    name,
		Bio:     strings.TrimSpace(req.Msg.Bio),
		OwnerID: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	details, err := s.groupDetails(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: *details}), nil
}

// GetGroup retrieves a group with its roster, photos and matches. Members only.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	details, err := s.groupDetails(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: *details}), nil
}

// ListMyGroups retrieves every group the caller belongs to.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListMyGroups request received", "user_id", userID)

	summaries, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListMyGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	groups := make([]api.Group, 0, len(summaries))
	for i := range summaries {
		groups = append(groups, toAPIGroupSummary(&summaries[i]))
	}

	slog.Info("ListMyGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: groups}), nil
}

// UpdateGroup edits name, bio and cover photo. Owner only.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group, err := s.ownedGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	group.Name = name
	group.Bio = strings.TrimSpace(req.Msg.Bio)
	group.PhotoURL = req.Msg.PhotoURL

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	updated, err := s.groupDetails(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: *updated}), nil
}

// ActivateGroup makes the group discoverable for the activation window.
func (s *GroupService) ActivateGroup(ctx context.Context, req *connect.Request[api.ActivateGroupRequest]) (*connect.Response[api.ActivateGroupResponse], error) {
	group, err := s.setActive(ctx, req.Msg.GroupID, true)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ActivateGroupResponse{Group: *group}), nil
}

// DeactivateGroup hides the group from other groups' decks.
func (s *GroupService) DeactivateGroup(ctx context.Context, req *connect.Request[api.DeactivateGroupRequest]) (*connect.Response[api.DeactivateGroupResponse], error) {
	group, err := s.setActive(ctx, req.Msg.GroupID, false)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DeactivateGroupResponse{Group: *group}), nil
}

func (s *GroupService) setActive(ctx context.Context, groupID string, active bool) (*api.Group, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetGroupActive request received", "group_id", groupID, "active", active)

	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	var activeUntil int64
	if active {
		activeUntil = time.Now().Add(s.activationWindow).UnixMilli()
	}
	if err := s.store.SetGroupActive(ctx, groupID, active, activeUntil); err != nil {
		slog.Error("SetGroupActive failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group activation changed", "group_id", groupID, "active", active, "active_until", activeUntil)
	return s.groupDetails(ctx, groupID)
}

// CreateInvite issues a shareable join code. Owner only.
func (s *GroupService) CreateInvite(ctx context.Context, req *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateInvite request received", "group_id", req.Msg.GroupID)

	if _, err := s.ownedGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	for attempt := 0; attempt < inviteAttempts; attempt++ {
		invite := &models.GroupInvite{
			Code:      newInviteCode(),
			GroupID:   req.Msg.GroupID,
			CreatedBy: userID,
		}
		err := s.store.CreateInvite(ctx, invite)
		if errors.Is(err, storage.ErrUniqueViolation) {
			continue
		}
		if err != nil {
			slog.Error("CreateInvite failed", "group_id", req.Msg.GroupID, "error", err)
			return nil, toConnectError(err)
		}
		slog.Info("Invite created", "group_id", req.Msg.GroupID, "code", invite.Code)
		return connect.NewResponse(&api.CreateInviteResponse{Code: invite.Code}), nil
	}

	return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("could not allocate a unique invite code"))
}

// JoinGroup adds the caller to the group behind an invite code.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	code := normalizeInviteCode(req.Msg.Code)
	slog.Info("JoinGroup request received", "code", code, "user_id", userID)

	if code == "" {
		return nil, invalidArgument("invite code is required")
	}
	invite, err := s.store.GetInvite(ctx, code)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.AddMember(ctx, invite.GroupID, userID); err != nil {
		slog.Error("JoinGroup failed", "group_id", invite.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.groupDetails(ctx, invite.GroupID)
	if err != nil {
		return nil, err
	}
	slog.Info("User joined group", "group_id", invite.GroupID, "user_id", userID)
	return connect.NewResponse(&api.JoinGroupResponse{Group: *group}), nil
}

// LeaveGroup removes the caller from a group. The owner must delete the
// group instead.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LeaveGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.OwnerID == userID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("the owner cannot leave; delete the group instead"))
	}
	if err := s.store.RemoveMember(ctx, group.ID, userID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("User left group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}

// DeleteGroup removes a group and everything attached to it. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if _, err := s.ownedGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddGroupPhoto appends a photo URL to the group's gallery. Members only.
func (s *GroupService) AddGroupPhoto(ctx context.Context, req *connect.Request[api.AddGroupPhotoRequest]) (*connect.Response[api.AddGroupPhotoResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddGroupPhoto request received", "group_id", req.Msg.GroupID)

	if strings.TrimSpace(req.Msg.PhotoURL) == "" {
		return nil, invalidArgument("photo url is required")
	}
	if err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	photo := &models.GroupPhoto{GroupID: req.Msg.GroupID, PhotoURL: strings.TrimSpace(req.Msg.PhotoURL)}
	if err := s.store.AddGroupPhoto(ctx, photo); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.groupDetails(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.AddGroupPhotoResponse{Group: *group}), nil
}

// RemoveGroupPhoto deletes a photo from the group's gallery. Members only.
func (s *GroupService) RemoveGroupPhoto(ctx context.Context, req *connect.Request[api.RemoveGroupPhotoRequest]) (*connect.Response[api.RemoveGroupPhotoResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveGroupPhoto request received", "group_id", req.Msg.GroupID)

	if err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.RemoveGroupPhoto(ctx, req.Msg.GroupID, req.Msg.PhotoURL); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.groupDetails(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.RemoveGroupPhotoResponse{Group: *group}), nil
}

func (s *GroupService) ownedGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return group, nil
}

func (s *GroupService) groupDetails(ctx context.Context, groupID string) (*api.Group, error) {
	details, err := s.store.GetGroupDetails(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if details.Matches, err = s.store.ListGroupMatches(ctx, groupID); err != nil {
		return nil, toConnectError(err)
	}
	group := toAPIGroupDetails(details)
	return &group, nil
}
