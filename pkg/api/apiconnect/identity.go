package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/pkg/api"
)

// IdentityServiceName is the fully-qualified name of the IdentityService.
const IdentityServiceName = "birthdays.v1.IdentityService"

const (
	IdentityServiceGetProfileProcedure    = "/" + IdentityServiceName + "/GetProfile"
	IdentityServiceUpdateProfileProcedure = "/" + IdentityServiceName + "/UpdateProfile"
	IdentityServiceAddContactProcedure    = "/" + IdentityServiceName + "/AddContact"
	IdentityServiceFindContactProcedure   = "/" + IdentityServiceName + "/FindContact"
	IdentityServiceUpdateContactProcedure = "/" + IdentityServiceName + "/UpdateContact"
	IdentityServiceDeleteContactProcedure = "/" + IdentityServiceName + "/DeleteContact"
	IdentityServiceListContactsProcedure  = "/" + IdentityServiceName + "/ListContacts"
)

// IdentityServiceClient is a client for the IdentityService.
type IdentityServiceClient interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	AddContact(context.Context, *connect.Request[api.AddContactRequest]) (*connect.Response[api.AddContactResponse], error)
	FindContact(context.Context, *connect.Request[api.FindContactRequest]) (*connect.Response[api.FindContactResponse], error)
	UpdateContact(context.Context, *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error)
	ListContacts(context.Context, *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error)
}

// NewIdentityServiceClient returns a client for the IdentityService served at baseURL.
func NewIdentityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) IdentityServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &identityServiceClient{
		getProfile:    connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+IdentityServiceGetProfileProcedure, opts...),
		updateProfile: connect.NewClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL+IdentityServiceUpdateProfileProcedure, opts...),
		addContact:    connect.NewClient[api.AddContactRequest, api.AddContactResponse](httpClient, baseURL+IdentityServiceAddContactProcedure, opts...),
		findContact:   connect.NewClient[api.FindContactRequest, api.FindContactResponse](httpClient, baseURL+IdentityServiceFindContactProcedure, opts...),
		updateContact: connect.NewClient[api.UpdateContactRequest, api.UpdateContactResponse](httpClient, baseURL+IdentityServiceUpdateContactProcedure, opts...),
		deleteContact: connect.NewClient[api.DeleteContactRequest, api.DeleteContactResponse](httpClient, baseURL+IdentityServiceDeleteContactProcedure, opts...),
		listContacts:  connect.NewClient[api.ListContactsRequest, api.ListContactsResponse](httpClient, baseURL+IdentityServiceListContactsProcedure, opts...),
	}
}

type identityServiceClient struct {
	getProfile    *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	updateProfile *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
	addContact    *connect.Client[api.AddContactRequest, api.AddContactResponse]
	findContact   *connect.Client[api.FindContactRequest, api.FindContactResponse]
	updateContact *connect.Client[api.UpdateContactRequest, api.UpdateContactResponse]
	deleteContact *connect.Client[api.DeleteContactRequest, api.DeleteContactResponse]
	listContacts  *connect.Client[api.ListContactsRequest, api.ListContactsResponse]
}

func (c *identityServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *identityServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *identityServiceClient) AddContact(ctx context.Context, req *connect.Request[api.AddContactRequest]) (*connect.Response[api.AddContactResponse], error) {
	return c.addContact.CallUnary(ctx, req)
}

func (c *identityServiceClient) FindContact(ctx context.Context, req *connect.Request[api.FindContactRequest]) (*connect.Response[api.FindContactResponse], error) {
	return c.findContact.CallUnary(ctx, req)
}

func (c *identityServiceClient) UpdateContact(ctx context.Context, req *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error) {
	return c.updateContact.CallUnary(ctx, req)
}

func (c *identityServiceClient) DeleteContact(ctx context.Context, req *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error) {
	return c.deleteContact.CallUnary(ctx, req)
}

func (c *identityServiceClient) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	return c.listContacts.CallUnary(ctx, req)
}

// IdentityServiceHandler is the server side of the IdentityService: the
// caller's profile and private contacts.
type IdentityServiceHandler interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	AddContact(context.Context, *connect.Request[api.AddContactRequest]) (*connect.Response[api.AddContactResponse], error)
	FindContact(context.Context, *connect.Request[api.FindContactRequest]) (*connect.Response[api.FindContactResponse], error)
	UpdateContact(context.Context, *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error)
	ListContacts(context.Context, *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error)
}

// NewIdentityServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewIdentityServiceHandler(svc IdentityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + IdentityServiceName + "/", route(map[string]http.Handler{
		IdentityServiceGetProfileProcedure:    connect.NewUnaryHandler(IdentityServiceGetProfileProcedure, svc.GetProfile, opts...),
		IdentityServiceUpdateProfileProcedure: connect.NewUnaryHandler(IdentityServiceUpdateProfileProcedure, svc.UpdateProfile, opts...),
		IdentityServiceAddContactProcedure:    connect.NewUnaryHandler(IdentityServiceAddContactProcedure, svc.AddContact, opts...),
		IdentityServiceFindContactProcedure:   connect.NewUnaryHandler(IdentityServiceFindContactProcedure, svc.FindContact, opts...),
		IdentityServiceUpdateContactProcedure: connect.NewUnaryHandler(IdentityServiceUpdateContactProcedure, svc.UpdateContact, opts...),
		IdentityServiceDeleteContactProcedure: connect.NewUnaryHandler(IdentityServiceDeleteContactProcedure, svc.DeleteContact, opts...),
		IdentityServiceListContactsProcedure:  connect.NewUnaryHandler(IdentityServiceListContactsProcedure, svc.ListContacts, opts...),
	})
}
