package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage"
)

// CreatePrivateGroup creates an empty private group owned by ownerID.
func (m *Manager) CreatePrivateGroup(ctx context.Context, ownerID, name string) (group *models.PrivateGroup, err error) {
	defer func() { m.record("create_private_group", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.InvalidInput("group name is required")
	}
	if _, err := m.dir.UserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	group = models.NewPrivateGroup(name, ownerID)
	if err := m.store.CreatePrivateGroup(ctx, group); err != nil {
		return nil, errs.Storage("create private group", err)
	}

	m.logger.Info("Private group created", "group_id", group.ID, "created_by", ownerID)
	return group, nil
}

// privateGroup loads a private group and checks that ownerID owns it.
func (m *Manager) privateGroup(ctx context.Context, ownerID, groupID string) (*models.PrivateGroup, error) {
	if groupID == "" {
		return nil, errs.InvalidInput("group id is required")
	}
	group, err := m.store.GetPrivateGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("private group %s not found", groupID)
	}
	if err != nil {
		return nil, errs.Storage("get private group", err)
	}
	if group.CreatedBy != ownerID {
		return nil, errs.Forbidden("private group %s belongs to another user", groupID)
	}
	return group, nil
}

func (m *Manager) savePrivateMembers(ctx context.Context, group *models.PrivateGroup) error {
	err := m.store.SavePrivateGroupMembers(ctx, group)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrStaleVersion):
		return errs.Conflict("private group %s was changed by another request, try again", group.ID).Wrap(err)
	case errors.Is(err, storage.ErrNotFound):
		// Either the group or a contact it references was deleted meanwhile.
		return errs.NotFound("private group or contact no longer exists").Wrap(err)
	case errors.Is(err, storage.ErrDuplicate):
		return errs.Conflict("contact is already in this group")
	default:
		return errs.Storage("save private group members", err)
	}
}

// AddPrivateMember puts one of the owner's contacts into their private group.
func (m *Manager) AddPrivateMember(ctx context.Context, ownerID, groupID, contactID string) (group *models.PrivateGroup, err error) {
	defer func() { m.record("add_private_member", err) }()

	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return nil, errs.InvalidInput("contact id is required")
	}
	group, err = m.privateGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	// Contact checks the contact shares the group's owner.
	contact, err := m.dir.Contact(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(contact.ID) {
		return nil, errs.Conflict("%s is already in %s", contact.Name, group.Name)
	}

	group.Members = append(group.Members, contact.ID)
	if err := m.savePrivateMembers(ctx, group); err != nil {
		return nil, err
	}

	m.logger.Info("Contact added to private group", "group_id", group.ID, "contact_id", contact.ID)
	return group, nil
}

// RemovePrivateMember takes a contact out of a private group without deleting it.
func (m *Manager) RemovePrivateMember(ctx context.Context, ownerID, groupID, contactID string) (group *models.PrivateGroup, err error) {
	defer func() { m.record("remove_private_member", err) }()

	group, err = m.privateGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.RemoveMember(strings.TrimSpace(contactID)) {
		return nil, errs.NotFound("contact %s is not in %s", contactID, group.Name)
	}
	if err := m.savePrivateMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// PrivateGroupDetails returns a private group and its contacts in member order.
func (m *Manager) PrivateGroupDetails(ctx context.Context, ownerID, groupID string) (*models.PrivateGroup, []*models.PrivateUser, error) {
	group, err := m.privateGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, nil, err
	}

	byID, err := m.store.GetPrivateUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, nil, errs.Storage("get private group members", err)
	}
	contacts := make([]*models.PrivateUser, 0, len(group.Members))
	for _, id := range group.Members {
		if c, ok := byID[id]; ok {
			contacts = append(contacts, c)
		}
	}
	return group, contacts, nil
}

// ListPrivateGroups returns the private groups ownerID created.
func (m *Manager) ListPrivateGroups(ctx context.Context, ownerID string) ([]*models.PrivateGroup, error) {
	groups, err := m.store.ListPrivateGroups(ctx, ownerID)
	if err != nil {
		return nil, errs.Storage("list private groups", err)
	}
	return groups, nil
}

// DeleteContact deletes one of ownerID's contacts and removes it from every
// private group in the same transaction.
func (m *Manager) DeleteContact(ctx context.Context, ownerID, contactID string) (err error) {
	defer func() { m.record("delete_contact", err) }()

	contact, err := m.dir.Contact(ctx, ownerID, contactID)
	if err != nil {
		return err
	}

	err = m.store.DeletePrivateUser(ctx, contact.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NotFound("contact %s not found", contactID)
	}
	if err != nil {
		return errs.Storage("delete private user", err)
	}

	m.logger.Info("Private contact deleted", "contact_id", contact.ID, "owner_id", ownerID)
	return nil
}
