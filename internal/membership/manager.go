// Package membership enforces the rules for joining, leaving and curating groups.
//
// Every member-list change is a read-modify-write of one group aggregate,
// written back with the version that was read. A concurrent change makes the
// write fail with a Conflict instead of silently dropping either update.
// When a change touches a user's GroupIDs as well, the group is written first:
// member lists are the source of truth and GroupIDs can be rebuilt from them.
package membership

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/metrics"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage"
)

// Manager applies membership changes to public and private groups.
type Manager struct {
	store   storage.Store
	dir     *identity.Directory
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewManager creates a Manager. m may be nil.
func NewManager(store storage.Store, dir *identity.Directory, logger *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		dir:     dir,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (m *Manager) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = errs.KindOf(err).String()
	}
	m.metrics.MembershipChanged(op, outcome)
}

// group loads a public group, translating store errors.
func (m *Manager) group(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errs.InvalidInput("group id is required")
	}
	group, err := m.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("group %s not found", groupID)
	}
	if err != nil {
		return nil, errs.Storage("get group", err)
	}
	return group, nil
}

// saveMembers writes a modified member list back with its read version.
func (m *Manager) saveMembers(ctx context.Context, group *models.Group) error {
	err := m.store.SaveGroupMembers(ctx, group)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrStaleVersion):
		return errs.Conflict("group %s was changed by another request, try again", group.ID).Wrap(err)
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("group %s not found", group.ID)
	case errors.Is(err, storage.ErrDuplicate):
		return errs.Conflict("user is already a member of this group")
	default:
		return errs.Storage("save group members", err)
	}
}

// linkUser and unlinkUser keep User.GroupIDs in step after the group write.
// A failure here leaves the group correct, so it is logged rather than returned;
// RepairUserGroups rebuilds the back-references.
func (m *Manager) linkUser(ctx context.Context, userID, groupID string) {
	if err := m.store.AddUserGroup(ctx, userID, groupID); err != nil {
		m.logger.Warn("Failed to add group back-reference", "user_id", userID, "group_id", groupID, "error", err)
	}
}

func (m *Manager) unlinkUser(ctx context.Context, userID, groupID string) {
	if err := m.store.RemoveUserGroup(ctx, userID, groupID); err != nil {
		m.logger.Warn("Failed to remove group back-reference", "user_id", userID, "group_id", groupID, "error", err)
	}
}

// RepairUserGroups rebuilds a user's GroupIDs from the group member lists.
func (m *Manager) RepairUserGroups(ctx context.Context, userID string) error {
	user, err := m.dir.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	groups, err := m.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return errs.Storage("list groups by member", err)
	}

	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g.ID] = true
		if !user.InGroup(g.ID) {
			if err := m.store.AddUserGroup(ctx, userID, g.ID); err != nil {
				return errs.Storage("add user group", err)
			}
		}
	}
	for _, id := range user.GroupIDs {
		if !want[id] {
			if err := m.store.RemoveUserGroup(ctx, userID, id); err != nil {
				return errs.Storage("remove user group", err)
			}
		}
	}
	return nil
}
