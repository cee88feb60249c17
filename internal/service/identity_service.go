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

var _ apiconnect.IdentityServiceHandler = (*IdentityService)(nil)

// IdentityService implements the IdentityService RPC interface.
type IdentityService struct {
	dir     *identity.Directory
	manager *membership.Manager
	logger  *slog.Logger
}

// NewIdentityService creates the profile and contacts service. Deleting a
// contact goes through manager so private groups are cleaned up with it.
func NewIdentityService(dir *identity.Directory, manager *membership.Manager, logger *slog.Logger) *IdentityService {
	return &IdentityService{dir: dir, manager: manager, logger: logger}
}

// GetProfile returns the caller.
func (s *IdentityService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.dir.UserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError("get profile", err)
	}
	return connect.NewResponse(&api.GetProfileResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile changes the caller's name, mobile or date of birth.
func (s *IdentityService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateProfile request", "user_id", userID)

	user, err := s.dir.UpdateProfile(ctx, userID, req.Msg.Name, req.Msg.Mobile, req.Msg.DOB)
	if err != nil {
		s.logger.Warn("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError("update profile", err)
	}
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}

// AddContact creates a private contact owned by the caller.
func (s *IdentityService) AddContact(ctx context.Context, req *connect.Request[api.AddContactRequest]) (*connect.Response[api.AddContactResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddContact request", "user_id", userID)

	contact, err := s.dir.AddContact(ctx, userID, req.Msg.Name, req.Msg.Mobile, req.Msg.DOB)
	if err != nil {
		s.logger.Warn("AddContact failed", "user_id", userID, "error", err)
		return nil, toConnectError("add contact", err)
	}
	return connect.NewResponse(&api.AddContactResponse{Contact: toAPIContact(contact)}), nil
}

// FindContact looks up one of the caller's contacts by mobile.
func (s *IdentityService) FindContact(ctx context.Context, req *connect.Request[api.FindContactRequest]) (*connect.Response[api.FindContactResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.dir.FindContact(ctx, userID, req.Msg.Mobile)
	if err != nil {
		return nil, toConnectError("find contact", err)
	}
	return connect.NewResponse(&api.FindContactResponse{Contact: toAPIContact(contact)}), nil
}

// UpdateContact edits one of the caller's contacts.
func (s *IdentityService) UpdateContact(ctx context.Context, req *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateContact request", "user_id", userID, "contact_id", req.Msg.ContactID)

	contact, err := s.dir.UpdateContact(ctx, userID, req.Msg.ContactID, req.Msg.Name, req.Msg.Mobile, req.Msg.DOB)
	if err != nil {
		s.logger.Warn("UpdateContact failed", "contact_id", req.Msg.ContactID, "error", err)
		return nil, toConnectError("update contact", err)
	}
	return connect.NewResponse(&api.UpdateContactResponse{Contact: toAPIContact(contact)}), nil
}

// DeleteContact deletes a contact and removes it from the caller's private groups.
func (s *IdentityService) DeleteContact(ctx context.Context, req *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteContact request", "user_id", userID, "contact_id", req.Msg.ContactID)

	if err := s.manager.DeleteContact(ctx, userID, req.Msg.ContactID); err != nil {
		s.logger.Warn("DeleteContact failed", "contact_id", req.Msg.ContactID, "error", err)
		return nil, toConnectError("delete contact", err)
	}
	return connect.NewResponse(&api.DeleteContactResponse{}), nil
}

// ListContacts returns the caller's contacts.
func (s *IdentityService) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := s.dir.ListContacts(ctx, userID)
	if err != nil {
		return nil, toConnectError("list contacts", err)
	}

	out := make([]*api.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = toAPIContact(c)
	}
	return connect.NewResponse(&api.ListContactsResponse{Contacts: out}), nil
}
