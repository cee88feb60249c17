// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/birthdays/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")

	// ErrStaleVersion is returned when an aggregate changed since it was read.
	ErrStaleVersion = errors.New("stale version")
)

// UserStore persists registered users and their group back-references.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the mobile is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByMobile returns ErrNotFound if no user has the mobile.
	GetUserByMobile(ctx context.Context, mobile string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdateUser overwrites name, mobile and date of birth.
	UpdateUser(ctx context.Context, user *models.User) error

	// AddUserGroup and RemoveUserGroup maintain User.GroupIDs. Both are idempotent.
	AddUserGroup(ctx context.Context, userID, groupID string) error
	RemoveUserGroup(ctx context.Context, userID, groupID string) error
}

// GroupStore persists public groups.
type GroupStore interface {
	// CreateGroup persists the group and its initial members.
	// group.Version is set to 1.
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, id string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember returns every group listing userID as a member.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// SaveGroupMembers replaces the member list if group.Version still matches
	// the stored version, then increments group.Version.
	// Returns ErrStaleVersion on mismatch and ErrNotFound if the group is gone.
	SaveGroupMembers(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group if its stored version equals version.
	DeleteGroup(ctx context.Context, id string, version int64) error
}

// ContactStore persists private contacts and private groups.
type ContactStore interface {
	// CreatePrivateUser returns ErrDuplicate if the creator already has the mobile.
	CreatePrivateUser(ctx context.Context, contact *models.PrivateUser) error

	GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error)
	GetPrivateUserByMobile(ctx context.Context, mobile, createdBy string) (*models.PrivateUser, error)
	ListPrivateUsers(ctx context.Context, createdBy string) ([]*models.PrivateUser, error)
	GetPrivateUsersByIDs(ctx context.Context, ids []string) (map[string]*models.PrivateUser, error)
	UpdatePrivateUser(ctx context.Context, contact *models.PrivateUser) error

	// DeletePrivateUser removes the contact and every private group reference to it
	// in a single transaction. Returns ErrNotFound if the contact does not exist.
	DeletePrivateUser(ctx context.Context, id string) error

	CreatePrivateGroup(ctx context.Context, group *models.PrivateGroup) error
	GetPrivateGroup(ctx context.Context, id string) (*models.PrivateGroup, error)
	ListPrivateGroups(ctx context.Context, createdBy string) ([]*models.PrivateGroup, error)

	// SavePrivateGroupMembers has the same version semantics as SaveGroupMembers.
	// Returns ErrNotFound if a referenced contact no longer exists.
	SavePrivateGroupMembers(ctx context.Context, group *models.PrivateGroup) error
}

// Store is the full persistence surface used by the service.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ContactStore

	// Close releases any resources held by the store.
	Close() error
}
