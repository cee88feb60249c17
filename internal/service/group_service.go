package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/membership"
	"github.com/mmynk/birthdays/pkg/api"
	"github.com/mmynk/birthdays/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	manager *membership.Manager
	dir     *identity.Directory
}

// NewGroupService creates a new GroupService.
func NewGroupService(manager *membership.Manager, dir *identity.Directory) *GroupService {
	return &GroupService{manager: manager, dir: dir}
}

// CreateGroup creates a public group with the caller as admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	group, err := s.manager.CreateGroup(ctx, userID, req.Msg.Name)
	if err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		return nil, toConnectError("create group", err)
	}

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group, nil)}), nil
}

// JoinGroup adds the caller to the group the invite code belongs to.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinGroup request received", "user_id", userID)

	group, err := s.manager.JoinByInviteCode(ctx, userID, req.Msg.InviteCode)
	if err != nil {
		slog.Warn("JoinGroup failed", "user_id", userID, "error", err)
		return nil, toConnectError("join group", err)
	}

	return connect.NewResponse(&api.JoinGroupResponse{Group: toAPIGroup(group, nil)}), nil
}

// AddMember lets a group admin add a registered user by mobile number.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMember request received", "user_id", userID, "group_id", req.Msg.GroupID)

	group, err := s.manager.AddMemberByMobile(ctx, userID, req.Msg.GroupID, req.Msg.Mobile)
	if err != nil {
		slog.Warn("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("add member", err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group, nil)}), nil
}

// LeaveGroup removes the caller from a group.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LeaveGroup request received", "user_id", userID, "group_id", req.Msg.GroupID)

	deleted, err := s.manager.Leave(ctx, userID, req.Msg.GroupID)
	if err != nil {
		slog.Warn("LeaveGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("leave group", err)
	}

	return connect.NewResponse(&api.LeaveGroupResponse{GroupDeleted: deleted}), nil
}

// GetGroup returns a group with its members' profiles.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, members, err := s.manager.GroupDetails(ctx, userID, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("get group", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group, members)}), nil
}

// ListGroups returns the caller's public groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.manager.ListGroups(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError("list groups", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g, nil)
	}
	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// RepairMemberships rebuilds the caller's group_ids from the member lists.
func (s *GroupService) RepairMemberships(ctx context.Context, req *connect.Request[api.RepairMembershipsRequest]) (*connect.Response[api.RepairMembershipsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.manager.RepairUserGroups(ctx, userID); err != nil {
		slog.Error("RepairMemberships failed", "user_id", userID, "error", err)
		return nil, toConnectError("repair memberships", err)
	}
	user, err := s.dir.UserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError("get user", err)
	}

	slog.Info("Memberships repaired", "user_id", userID, "groups", len(user.GroupIDs))
	return connect.NewResponse(&api.RepairMembershipsResponse{User: toAPIUser(user)}), nil
}
