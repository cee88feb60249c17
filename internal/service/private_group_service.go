package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/membership"
	"github.com/mmynk/birthdays/pkg/api"
	"github.com/mmynk/birthdays/pkg/api/apiconnect"
)

var _ apiconnect.PrivateGroupServiceHandler = (*PrivateGroupService)(nil)

// PrivateGroupService implements the Connect PrivateGroupService.
type PrivateGroupService struct {
	manager *membership.Manager
}

// NewPrivateGroupService creates a new PrivateGroupService.
func NewPrivateGroupService(manager *membership.Manager) *PrivateGroupService {
	return &PrivateGroupService{manager: manager}
}

func (s *PrivateGroupService) CreatePrivateGroup(ctx context.Context, req *connect.Request[api.CreatePrivateGroupRequest]) (*connect.Response[api.CreatePrivateGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreatePrivateGroup request received", "user_id", userID, "name", req.Msg.Name)

	group, err := s.manager.CreatePrivateGroup(ctx, userID, req.Msg.Name)
	if err != nil {
		slog.Error("CreatePrivateGroup failed", "user_id", userID, "error", err)
		return nil, toConnectError("create private group", err)
	}
	return connect.NewResponse(&api.CreatePrivateGroupResponse{Group: toAPIPrivateGroup(group, nil)}), nil
}

func (s *PrivateGroupService) AddPrivateMember(ctx context.Context, req *connect.Request[api.AddPrivateMemberRequest]) (*connect.Response[api.AddPrivateMemberResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddPrivateMember request received",
		"group_id", req.Msg.GroupID,
		"contact_id", req.Msg.ContactID,
	)

	group, err := s.manager.AddPrivateMember(ctx, userID, req.Msg.GroupID, req.Msg.ContactID)
	if err != nil {
		slog.Warn("AddPrivateMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("add private member", err)
	}
	return connect.NewResponse(&api.AddPrivateMemberResponse{Group: toAPIPrivateGroup(group, nil)}), nil
}

func (s *PrivateGroupService) RemovePrivateMember(ctx context.Context, req *connect.Request[api.RemovePrivateMemberRequest]) (*connect.Response[api.RemovePrivateMemberResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemovePrivateMember request received",
		"group_id", req.Msg.GroupID,
		"contact_id", req.Msg.ContactID,
	)

	group, err := s.manager.RemovePrivateMember(ctx, userID, req.Msg.GroupID, req.Msg.ContactID)
	if err != nil {
		slog.Warn("RemovePrivateMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("remove private member", err)
	}
	return connect.NewResponse(&api.RemovePrivateMemberResponse{Group: toAPIPrivateGroup(group, nil)}), nil
}

// GetPrivateGroup returns one of the caller's private groups with its contacts.
func (s *PrivateGroupService) GetPrivateGroup(ctx context.Context, req *connect.Request[api.GetPrivateGroupRequest]) (*connect.Response[api.GetPrivateGroupResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	group, contacts, err := s.manager.PrivateGroupDetails(ctx, userID, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetPrivateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError("get private group", err)
	}
	return connect.NewResponse(&api.GetPrivateGroupResponse{Group: toAPIPrivateGroup(group, contacts)}), nil
}

func (s *PrivateGroupService) ListPrivateGroups(ctx context.Context, req *connect.Request[api.ListPrivateGroupsRequest]) (*connect.Response[api.ListPrivateGroupsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.manager.ListPrivateGroups(ctx, userID)
	if err != nil {
		slog.Error("ListPrivateGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError("list private groups", err)
	}

	out := make([]*api.PrivateGroup, len(groups))
	for i, g := range groups {
		out[i] = toAPIPrivateGroup(g, nil)
	}
	return connect.NewResponse(&api.ListPrivateGroupsResponse{Groups: out}), nil
}
