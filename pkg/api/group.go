package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const GroupServiceName = "groupswipe.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure      = "/groupswipe.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure         = "/groupswipe.v1.GroupService/GetGroup"
	GroupServiceListMyGroupsProcedure     = "/groupswipe.v1.GroupService/ListMyGroups"
	GroupServiceUpdateGroupProcedure      = "/groupswipe.v1.GroupService/UpdateGroup"
	GroupServiceActivateGroupProcedure    = "/groupswipe.v1.GroupService/ActivateGroup"
	GroupServiceDeactivateGroupProcedure  = "/groupswipe.v1.GroupService/DeactivateGroup"
	GroupServiceCreateInviteProcedure     = "/groupswipe.v1.GroupService/CreateInvite"
	GroupServiceJoinGroupProcedure        = "/groupswipe.v1.GroupService/JoinGroup"
	GroupServiceLeaveGroupProcedure       = "/groupswipe.v1.GroupService/LeaveGroup"
	GroupServiceDeleteGroupProcedure      = "/groupswipe.v1.GroupService/DeleteGroup"
	GroupServiceAddGroupPhotoProcedure    = "/groupswipe.v1.GroupService/AddGroupPhoto"
	GroupServiceRemoveGroupPhotoProcedure = "/groupswipe.v1.GroupService/RemoveGroupPhoto"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[ListMyGroupsRequest]) (*connect.Response[ListMyGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	ActivateGroup(context.Context, *connect.Request[ActivateGroupRequest]) (*connect.Response[ActivateGroupResponse], error)
	DeactivateGroup(context.Context, *connect.Request[DeactivateGroupRequest]) (*connect.Response[DeactivateGroupResponse], error)
	CreateInvite(context.Context, *connect.Request[CreateInviteRequest]) (*connect.Response[CreateInviteResponse], error)
	JoinGroup(context.Context, *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[LeaveGroupRequest]) (*connect.Response[LeaveGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	AddGroupPhoto(context.Context, *connect.Request[AddGroupPhotoRequest]) (*connect.Response[AddGroupPhotoResponse], error)
	RemoveGroupPhoto(context.Context, *connect.Request[RemoveGroupPhotoRequest]) (*connect.Response[RemoveGroupPhotoResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		GroupServiceCreateGroupProcedure:      connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:         connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListMyGroupsProcedure:     connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...),
		GroupServiceUpdateGroupProcedure:      connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceActivateGroupProcedure:    connect.NewUnaryHandler(GroupServiceActivateGroupProcedure, svc.ActivateGroup, opts...),
		GroupServiceDeactivateGroupProcedure:  connect.NewUnaryHandler(GroupServiceDeactivateGroupProcedure, svc.DeactivateGroup, opts...),
		GroupServiceCreateInviteProcedure:     connect.NewUnaryHandler(GroupServiceCreateInviteProcedure, svc.CreateInvite, opts...),
		GroupServiceJoinGroupProcedure:        connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...),
		GroupServiceLeaveGroupProcedure:       connect.NewUnaryHandler(GroupServiceLeaveGroupProcedure, svc.LeaveGroup, opts...),
		GroupServiceDeleteGroupProcedure:      connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceAddGroupPhotoProcedure:    connect.NewUnaryHandler(GroupServiceAddGroupPhotoProcedure, svc.AddGroupPhoto, opts...),
		GroupServiceRemoveGroupPhotoProcedure: connect.NewUnaryHandler(GroupServiceRemoveGroupPhotoProcedure, svc.RemoveGroupPhoto, opts...),
	}
	return "/" + GroupServiceName + "/", router(routes)
}

// GroupServiceClient is a client for GroupService.
type GroupServiceClient struct {
	createGroup      *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup         *connect.Client[GetGroupRequest, GetGroupResponse]
	listMyGroups     *connect.Client[ListMyGroupsRequest, ListMyGroupsResponse]
	updateGroup      *connect.Client[UpdateGroupRequest, UpdateGroupResponse]
	activateGroup    *connect.Client[ActivateGroupRequest, ActivateGroupResponse]
	deactivateGroup  *connect.Client[DeactivateGroupRequest, DeactivateGroupResponse]
	createInvite     *connect.Client[CreateInviteRequest, CreateInviteResponse]
	joinGroup        *connect.Client[JoinGroupRequest, JoinGroupResponse]
	leaveGroup       *connect.Client[LeaveGroupRequest, LeaveGroupResponse]
	deleteGroup      *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	addGroupPhoto    *connect.Client[AddGroupPhotoRequest, AddGroupPhotoResponse]
	removeGroupPhoto *connect.Client[RemoveGroupPhotoRequest, RemoveGroupPhotoResponse]
}

func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup:      connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:         connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listMyGroups:     connect.NewClient[ListMyGroupsRequest, ListMyGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		updateGroup:      connect.NewClient[UpdateGroupRequest, UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		activateGroup:    connect.NewClient[ActivateGroupRequest, ActivateGroupResponse](httpClient, baseURL+GroupServiceActivateGroupProcedure, opts...),
		deactivateGroup:  connect.NewClient[DeactivateGroupRequest, DeactivateGroupResponse](httpClient, baseURL+GroupServiceDeactivateGroupProcedure, opts...),
		createInvite:     connect.NewClient[CreateInviteRequest, CreateInviteResponse](httpClient, baseURL+GroupServiceCreateInviteProcedure, opts...),
		joinGroup:        connect.NewClient[JoinGroupRequest, JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		leaveGroup:       connect.NewClient[LeaveGroupRequest, LeaveGroupResponse](httpClient, baseURL+GroupServiceLeaveGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		addGroupPhoto:    connect.NewClient[AddGroupPhotoRequest, AddGroupPhotoResponse](httpClient, baseURL+GroupServiceAddGroupPhotoProcedure, opts...),
		removeGroupPhoto: connect.NewClient[RemoveGroupPhotoRequest, RemoveGroupPhotoResponse](httpClient, baseURL+GroupServiceRemoveGroupPhotoProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[ListMyGroupsRequest]) (*connect.Response[ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ActivateGroup(ctx context.Context, req *connect.Request[ActivateGroupRequest]) (*connect.Response[ActivateGroupResponse], error) {
	return c.activateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeactivateGroup(ctx context.Context, req *connect.Request[DeactivateGroupRequest]) (*connect.Response[DeactivateGroupResponse], error) {
	return c.deactivateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CreateInvite(ctx context.Context, req *connect.Request[CreateInviteRequest]) (*connect.Response[CreateInviteResponse], error) {
	return c.createInvite.CallUnary(ctx, req)
}

func (c *GroupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[LeaveGroupRequest]) (*connect.Response[LeaveGroupResponse], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddGroupPhoto(ctx context.Context, req *connect.Request[AddGroupPhotoRequest]) (*connect.Response[AddGroupPhotoResponse], error) {
	return c.addGroupPhoto.CallUnary(ctx, req)
}

func (c *GroupServiceClient) RemoveGroupPhoto(ctx context.Context, req *connect.Request[RemoveGroupPhotoRequest]) (*connect.Response[RemoveGroupPhotoResponse], error) {
	return c.removeGroupPhoto.CallUnary(ctx, req)
}
