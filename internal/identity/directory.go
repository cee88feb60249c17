// Package identity resolves and registers users and their private contacts.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage"
)

// Store is the persistence the directory needs.
type Store interface {
	storage.UserStore
	CreatePrivateUser(ctx context.Context, contact *models.PrivateUser) error
	GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error)
	GetPrivateUserByMobile(ctx context.Context, mobile, createdBy string) (*models.PrivateUser, error)
	ListPrivateUsers(ctx context.Context, createdBy string) ([]*models.PrivateUser, error)
	UpdatePrivateUser(ctx context.Context, contact *models.PrivateUser) error
}

// Directory owns User and PrivateUser records.
type Directory struct {
	store  Store
	logger *slog.Logger
}

// NewDirectory creates a directory backed by store.
func NewDirectory(store Store, logger *slog.Logger) *Directory {
	return &Directory{store: store, logger: logger}
}

// Signup registers a new user. The mobile number must not be registered yet.
func (d *Directory) Signup(ctx context.Context, name, mobile, dob string) (*models.User, error) {
	name, mobile = strings.TrimSpace(name), strings.TrimSpace(mobile)
	if name == "" {
		return nil, errs.InvalidInput("name is required")
	}
	if mobile == "" {
		return nil, errs.InvalidInput("mobile is required")
	}
	date, err := ParseDOB(dob)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(name, mobile, date)
	if err := d.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errs.Conflict("mobile %s is already registered", mobile)
		}
		return nil, errs.Storage("create user", err)
	}

	d.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// UserByMobile resolves a user by mobile number.
func (d *Directory) UserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	user, err := d.store.GetUserByMobile(ctx, strings.TrimSpace(mobile))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("no user with mobile %s", mobile)
	}
	if err != nil {
		return nil, errs.Storage("get user by mobile", err)
	}
	return user, nil
}

// UserByID resolves a user by ID.
func (d *Directory) UserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, errs.InvalidInput("user id is required")
	}
	user, err := d.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, errs.Storage("get user", err)
	}
	return user, nil
}

// UpdateProfile changes a user's name, mobile and date of birth.
// Empty arguments keep the current value.
func (d *Directory) UpdateProfile(ctx context.Context, userID, name, mobile, dob string) (*models.User, error) {
	user, err := d.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if mobile = strings.TrimSpace(mobile); mobile != "" {
		user.Mobile = mobile
	}
	if strings.TrimSpace(dob) != "" {
		if user.DOB, err = ParseDOB(dob); err != nil {
			return nil, err
		}
	}

	if err := d.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errs.Conflict("mobile %s is already registered", user.Mobile)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NotFound("user %s not found", userID)
		}
		return nil, errs.Storage("update user", err)
	}
	return user, nil
}

// AddContact creates a private contact owned by ownerID.
// Mobile is optional but unique among the owner's contacts.
func (d *Directory) AddContact(ctx context.Context, ownerID, name, mobile, dob string) (*models.PrivateUser, error) {
	if _, err := d.UserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	name, mobile = strings.TrimSpace(name), strings.TrimSpace(mobile)
	if name == "" {
		return nil, errs.InvalidInput("name is required")
	}
	date, err := parseOptionalDOB(dob)
	if err != nil {
		return nil, err
	}

	contact := models.NewPrivateUser(name, mobile, date, ownerID)
	if err := d.store.CreatePrivateUser(ctx, contact); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errs.Conflict("you already have a contact with mobile %s", mobile)
		}
		return nil, errs.Storage("create private user", err)
	}

	d.logger.Info("Private contact added", "contact_id", contact.ID, "owner_id", ownerID)
	return contact, nil
}

// FindContact looks up one of ownerID's contacts by mobile.
func (d *Directory) FindContact(ctx context.Context, ownerID, mobile string) (*models.PrivateUser, error) {
	contact, err := d.store.GetPrivateUserByMobile(ctx, strings.TrimSpace(mobile), ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("no contact with mobile %s", mobile)
	}
	if err != nil {
		return nil, errs.Storage("get private user by mobile", err)
	}
	return contact, nil
}

// Contact returns a contact if ownerID created it.
func (d *Directory) Contact(ctx context.Context, ownerID, contactID string) (*models.PrivateUser, error) {
	contact, err := d.store.GetPrivateUser(ctx, contactID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("contact %s not found", contactID)
	}
	if err != nil {
		return nil, errs.Storage("get private user", err)
	}
	if contact.CreatedBy != ownerID {
		return nil, errs.Forbidden("contact %s belongs to another user", contactID)
	}
	return contact, nil
}

// ListContacts returns ownerID's contacts, oldest first.
func (d *Directory) ListContacts(ctx context.Context, ownerID string) ([]*models.PrivateUser, error) {
	contacts, err := d.store.ListPrivateUsers(ctx, ownerID)
	if err != nil {
		return nil, errs.Storage("list private users", err)
	}
	return contacts, nil
}

// UpdateContact edits one of ownerID's contacts. Empty arguments keep the current value.
func (d *Directory) UpdateContact(ctx context.Context, ownerID, contactID, name, mobile, dob string) (*models.PrivateUser, error) {
	contact, err := d.Contact(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		contact.Name = name
	}
	if mobile = strings.TrimSpace(mobile); mobile != "" {
		contact.Mobile = mobile
	}
	if strings.TrimSpace(dob) != "" {
		if contact.DOB, err = ParseDOB(dob); err != nil {
			return nil, err
		}
	}

	if err := d.store.UpdatePrivateUser(ctx, contact); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errs.Conflict("you already have a contact with mobile %s", contact.Mobile)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NotFound("contact %s not found", contactID)
		}
		return nil, errs.Storage("update private user", err)
	}
	return contact, nil
}

// ParseDOB validates a required date of birth.
func ParseDOB(s string) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, errs.InvalidInput("invalid date of birth %q, want YYYY-MM-DD or --MM-DD", s).Wrap(err)
	}
	return d, nil
}

func parseOptionalDOB(s string) (models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return models.Date{}, nil
	}
	return ParseDOB(s)
}
