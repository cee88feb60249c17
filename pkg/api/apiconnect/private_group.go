package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/pkg/api"
)

// PrivateGroupServiceName is the fully-qualified name of the PrivateGroupService.
const PrivateGroupServiceName = "birthdays.v1.PrivateGroupService"

const (
	PrivateGroupServiceCreatePrivateGroupProcedure  = "/" + PrivateGroupServiceName + "/CreatePrivateGroup"
	PrivateGroupServiceAddPrivateMemberProcedure    = "/" + PrivateGroupServiceName + "/AddPrivateMember"
	PrivateGroupServiceRemovePrivateMemberProcedure = "/" + PrivateGroupServiceName + "/RemovePrivateMember"
	PrivateGroupServiceGetPrivateGroupProcedure     = "/" + PrivateGroupServiceName + "/GetPrivateGroup"
	PrivateGroupServiceListPrivateGroupsProcedure   = "/" + PrivateGroupServiceName + "/ListPrivateGroups"
)

// PrivateGroupServiceClient is a client for the PrivateGroupService.
type PrivateGroupServiceClient interface {
	CreatePrivateGroup(context.Context, *connect.Request[api.CreatePrivateGroupRequest]) (*connect.Response[api.CreatePrivateGroupResponse], error)
	AddPrivateMember(context.Context, *connect.Request[api.AddPrivateMemberRequest]) (*connect.Response[api.AddPrivateMemberResponse], error)
	RemovePrivateMember(context.Context, *connect.Request[api.RemovePrivateMemberRequest]) (*connect.Response[api.RemovePrivateMemberResponse], error)
	GetPrivateGroup(context.Context, *connect.Request[api.GetPrivateGroupRequest]) (*connect.Response[api.GetPrivateGroupResponse], error)
	ListPrivateGroups(context.Context, *connect.Request[api.ListPrivateGroupsRequest]) (*connect.Response[api.ListPrivateGroupsResponse], error)
}

// NewPrivateGroupServiceClient returns a client for the PrivateGroupService served at baseURL.
func NewPrivateGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PrivateGroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &privateGroupServiceClient{
		createPrivateGroup:  connect.NewClient[api.CreatePrivateGroupRequest, api.CreatePrivateGroupResponse](httpClient, baseURL+PrivateGroupServiceCreatePrivateGroupProcedure, opts...),
		addPrivateMember:    connect.NewClient[api.AddPrivateMemberRequest, api.AddPrivateMemberResponse](httpClient, baseURL+PrivateGroupServiceAddPrivateMemberProcedure, opts...),
		removePrivateMember: connect.NewClient[api.RemovePrivateMemberRequest, api.RemovePrivateMemberResponse](httpClient, baseURL+PrivateGroupServiceRemovePrivateMemberProcedure, opts...),
		getPrivateGroup:     connect.NewClient[api.GetPrivateGroupRequest, api.GetPrivateGroupResponse](httpClient, baseURL+PrivateGroupServiceGetPrivateGroupProcedure, opts...),
		listPrivateGroups:   connect.NewClient[api.ListPrivateGroupsRequest, api.ListPrivateGroupsResponse](httpClient, baseURL+PrivateGroupServiceListPrivateGroupsProcedure, opts...),
	}
}

type privateGroupServiceClient struct {
	createPrivateGroup  *connect.Client[api.CreatePrivateGroupRequest, api.CreatePrivateGroupResponse]
	addPrivateMember    *connect.Client[api.AddPrivateMemberRequest, api.AddPrivateMemberResponse]
	removePrivateMember *connect.Client[api.RemovePrivateMemberRequest, api.RemovePrivateMemberResponse]
	getPrivateGroup     *connect.Client[api.GetPrivateGroupRequest, api.GetPrivateGroupResponse]
	listPrivateGroups   *connect.Client[api.ListPrivateGroupsRequest, api.ListPrivateGroupsResponse]
}

func (c *privateGroupServiceClient) CreatePrivateGroup(ctx context.Context, req *connect.Request[api.CreatePrivateGroupRequest]) (*connect.Response[api.CreatePrivateGroupResponse], error) {
	return c.createPrivateGroup.CallUnary(ctx, req)
}

func (c *privateGroupServiceClient) AddPrivateMember(ctx context.Context, req *connect.Request[api.AddPrivateMemberRequest]) (*connect.Response[api.AddPrivateMemberResponse], error) {
	return c.addPrivateMember.CallUnary(ctx, req)
}

func (c *privateGroupServiceClient) RemovePrivateMember(ctx context.Context, req *connect.Request[api.RemovePrivateMemberRequest]) (*connect.Response[api.RemovePrivateMemberResponse], error) {
	return c.removePrivateMember.CallUnary(ctx, req)
}

func (c *privateGroupServiceClient) GetPrivateGroup(ctx context.Context, req *connect.Request[api.GetPrivateGroupRequest]) (*connect.Response[api.GetPrivateGroupResponse], error) {
	return c.getPrivateGroup.CallUnary(ctx, req)
}

func (c *privateGroupServiceClient) ListPrivateGroups(ctx context.Context, req *connect.Request[api.ListPrivateGroupsRequest]) (*connect.Response[api.ListPrivateGroupsResponse], error) {
	return c.listPrivateGroups.CallUnary(ctx, req)
}

// PrivateGroupServiceHandler is the server side of the PrivateGroupService,
// which manages owner-curated groups of contacts.
type PrivateGroupServiceHandler interface {
	CreatePrivateGroup(context.Context, *connect.Request[api.CreatePrivateGroupRequest]) (*connect.Response[api.CreatePrivateGroupResponse], error)
	AddPrivateMember(context.Context, *connect.Request[api.AddPrivateMemberRequest]) (*connect.Response[api.AddPrivateMemberResponse], error)
	RemovePrivateMember(context.Context, *connect.Request[api.RemovePrivateMemberRequest]) (*connect.Response[api.RemovePrivateMemberResponse], error)
	GetPrivateGroup(context.Context, *connect.Request[api.GetPrivateGroupRequest]) (*connect.Response[api.GetPrivateGroupResponse], error)
	ListPrivateGroups(context.Context, *connect.Request[api.ListPrivateGroupsRequest]) (*connect.Response[api.ListPrivateGroupsResponse], error)
}

// NewPrivateGroupServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewPrivateGroupServiceHandler(svc PrivateGroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PrivateGroupServiceName + "/", route(map[string]http.Handler{
		PrivateGroupServiceCreatePrivateGroupProcedure:  connect.NewUnaryHandler(PrivateGroupServiceCreatePrivateGroupProcedure, svc.CreatePrivateGroup, opts...),
		PrivateGroupServiceAddPrivateMemberProcedure:    connect.NewUnaryHandler(PrivateGroupServiceAddPrivateMemberProcedure, svc.AddPrivateMember, opts...),
		PrivateGroupServiceRemovePrivateMemberProcedure: connect.NewUnaryHandler(PrivateGroupServiceRemovePrivateMemberProcedure, svc.RemovePrivateMember, opts...),
		PrivateGroupServiceGetPrivateGroupProcedure:     connect.NewUnaryHandler(PrivateGroupServiceGetPrivateGroupProcedure, svc.GetPrivateGroup, opts...),
		PrivateGroupServiceListPrivateGroupsProcedure:   connect.NewUnaryHandler(PrivateGroupServiceListPrivateGroupsProcedure, svc.ListPrivateGroups, opts...),
	})
}
