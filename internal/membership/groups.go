package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage"
)

// CreateGroup creates a public group with the creator as its admin.
func (m *Manager) CreateGroup(ctx context.Context, creatorID, name string) (group *models.Group, err error) {
	defer func() { m.record("create_group", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.InvalidInput("group name is required")
	}
	creator, err := m.dir.UserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	group = models.NewGroup(name, creator.ID)
	if err := m.store.CreateGroup(ctx, group); err != nil {
		return nil, errs.Storage("create group", err)
	}
	m.linkUser(ctx, creator.ID, group.ID)

	m.logger.Info("Group created", "group_id", group.ID, "created_by", creator.ID)
	return group, nil
}

// JoinByInviteCode adds userID to the group the code belongs to.
func (m *Manager) JoinByInviteCode(ctx context.Context, userID, code string) (group *models.Group, err error) {
	defer func() { m.record("join", err) }()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.InvalidInput("invite code is required")
	}
	user, err := m.dir.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	group, err = m.store.GetGroupByInviteCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("invite code is not valid")
	}
	if err != nil {
		return nil, errs.Storage("get group by invite code", err)
	}

	if _, ok := group.Member(user.ID); ok {
		return nil, errs.Conflict("you are already a member of %s", group.Name)
	}
	group.Members = append(group.Members, models.GroupMember{
		UserID:   user.ID,
		Role:     models.RoleMember,
		JoinedAt: m.now().Unix(),
	})
	if err := m.saveMembers(ctx, group); err != nil {
		return nil, err
	}
	m.linkUser(ctx, user.ID, group.ID)

	m.logger.Info("User joined group", "group_id", group.ID, "user_id", user.ID)
	return group, nil
}

// AddMemberByMobile lets an admin add a registered user to the group.
func (m *Manager) AddMemberByMobile(ctx context.Context, actorID, groupID, mobile string) (group *models.Group, err error) {
	defer func() { m.record("admin_add", err) }()

	if strings.TrimSpace(mobile) == "" {
		return nil, errs.InvalidInput("mobile is required")
	}
	group, err = m.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, errs.Forbidden("only group admins can add members")
	}

	target, err := m.dir.UserByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if _, ok := group.Member(target.ID); ok {
		return nil, errs.Conflict("%s is already a member of %s", target.Name, group.Name)
	}

	group.Members = append(group.Members, models.GroupMember{
		UserID:   target.ID,
		Role:     models.RoleMember,
		JoinedAt: m.now().Unix(),
	})
	if err := m.saveMembers(ctx, group); err != nil {
		return nil, err
	}
	m.linkUser(ctx, target.ID, group.ID)

	m.logger.Info("Member added by admin", "group_id", group.ID, "user_id", target.ID, "added_by", actorID)
	return group, nil
}

// Leave removes userID from the group. The owner may only leave once alone,
// and the last member leaving deletes the group. deleted reports the latter.
func (m *Manager) Leave(ctx context.Context, userID, groupID string) (deleted bool, err error) {
	defer func() { m.record("leave", err) }()

	group, err := m.group(ctx, groupID)
	if err != nil {
		return false, err
	}
	if _, ok := group.Member(userID); !ok {
		return false, errs.NotFound("you are not a member of %s", group.Name)
	}
	if userID == group.CreatedBy && len(group.Members) > 1 {
		return false, errs.Forbidden("the group owner cannot leave while other members remain")
	}

	group.RemoveMember(userID)
	if len(group.Members) == 0 {
		if err := m.deleteGroup(ctx, group); err != nil {
			return false, err
		}
		deleted = true
	} else if err := m.saveMembers(ctx, group); err != nil {
		return false, err
	}
	m.unlinkUser(ctx, userID, group.ID)

	m.logger.Info("User left group", "group_id", group.ID, "user_id", userID, "group_deleted", deleted)
	return deleted, nil
}

func (m *Manager) deleteGroup(ctx context.Context, group *models.Group) error {
	err := m.store.DeleteGroup(ctx, group.ID, group.Version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrStaleVersion):
		return errs.Conflict("group %s was changed by another request, try again", group.ID).Wrap(err)
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("group %s not found", group.ID)
	default:
		return errs.Storage("delete group", err)
	}
}

// GroupDetails returns a group and its members' profiles in member order.
// Only members may see a group, since it carries the invite code.
func (m *Manager) GroupDetails(ctx context.Context, actorID, groupID string) (*models.Group, []*models.User, error) {
	group, err := m.group(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := group.Member(actorID); !ok {
		return nil, nil, errs.Forbidden("only members can view %s", group.Name)
	}

	byID, err := m.store.GetUsersByIDs(ctx, group.MemberIDs())
	if err != nil {
		return nil, nil, errs.Storage("get group members", err)
	}
	users := make([]*models.User, 0, len(group.Members))
	for _, member := range group.Members {
		if u, ok := byID[member.UserID]; ok {
			users = append(users, u)
		}
	}
	return group, users, nil
}

// ListGroups returns the public groups userID belongs to.
func (m *Manager) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := m.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, errs.Storage("list groups", err)
	}
	return groups, nil
}
