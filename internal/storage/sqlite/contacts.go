package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage"
)

const privateUserColumns = "id, name, mobile, dob, created_by, created_at"

func scanPrivateUser(row rowScanner) (*models.PrivateUser, error) {
	contact := &models.PrivateUser{}
	var mobile, dob sql.NullString
	if err := row.Scan(&contact.ID, &contact.Name, &mobile, &dob, &contact.CreatedBy, &contact.CreatedAt); err != nil {
		return nil, err
	}
	contact.Mobile = mobile.String
	contact.DOB = parseStoredDate(dob, "private_users", contact.ID)
	return contact, nil
}

// CreatePrivateUser persists a new contact.
func (s *SQLiteStore) CreatePrivateUser(ctx context.Context, contact *models.PrivateUser) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.CreatedAt == 0 {
		contact.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO private_users (id, name, mobile, dob, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		contact.ID, contact.Name, nullString(contact.Mobile), nullDate(contact.DOB), contact.CreatedBy, contact.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contact mobile %s: %w", contact.Mobile, storage.ErrDuplicate)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("creator %s: %w", contact.CreatedBy, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create private user: %w", err)
	}
	return nil
}

// GetPrivateUser retrieves a contact by ID.
func (s *SQLiteStore) GetPrivateUser(ctx context.Context, id string) (*models.PrivateUser, error) {
	contact, err := scanPrivateUser(s.db.QueryRowContext(ctx,
		"SELECT "+privateUserColumns+" FROM private_users WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("private user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get private user: %w", err)
	}
	return contact, nil
}

// GetPrivateUserByMobile looks a contact up within its creator's namespace.
func (s *SQLiteStore) GetPrivateUserByMobile(ctx context.Context, mobile, createdBy string) (*models.PrivateUser, error) {
	contact, err := scanPrivateUser(s.db.QueryRowContext(ctx,
		"SELECT "+privateUserColumns+" FROM private_users WHERE mobile = ? AND created_by = ?",
		mobile, createdBy,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("private user with mobile %s: %w", mobile, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get private user by mobile: %w", err)
	}
	return contact, nil
}

// ListPrivateUsers returns the contacts created by createdBy, oldest first.
func (s *SQLiteStore) ListPrivateUsers(ctx context.Context, createdBy string) ([]*models.PrivateUser, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+privateUserColumns+" FROM private_users WHERE created_by = ? ORDER BY created_at, id",
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list private users: %w", err)
	}
	defer rows.Close()

	var contacts []*models.PrivateUser
	for rows.Next() {
		contact, err := scanPrivateUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan private user: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate private users: %w", err)
	}
	return contacts, nil
}

// GetPrivateUsersByIDs returns the contacts that exist, keyed by ID.
func (s *SQLiteStore) GetPrivateUsersByIDs(ctx context.Context, ids []string) (map[string]*models.PrivateUser, error) {
	contacts := make(map[string]*models.PrivateUser, len(ids))
	if len(ids) == 0 {
		return contacts, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+privateUserColumns+" FROM private_users WHERE id IN ("+placeholders(len(ids))+")",
		toArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get private users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		contact, err := scanPrivateUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan private user: %w", err)
		}
		contacts[contact.ID] = contact
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate private users: %w", err)
	}
	return contacts, nil
}

// UpdatePrivateUser overwrites a contact's name, mobile and date of birth.
func (s *SQLiteStore) UpdatePrivateUser(ctx context.Context, contact *models.PrivateUser) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE private_users SET name = ?, mobile = ?, dob = ? WHERE id = ?",
		contact.Name, nullString(contact.Mobile), nullDate(contact.DOB), contact.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contact mobile %s: %w", contact.Mobile, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to update private user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("private user %s: %w", contact.ID, storage.ErrNotFound)
	}
	return nil
}

// DeletePrivateUser removes a contact and prunes it from every private group.
// Affected groups get a new version, so a concurrent writer holding the old
// member list cannot put the reference back.
func (s *SQLiteStore) DeletePrivateUser(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE private_groups SET version = version + 1
			 WHERE id IN (SELECT group_id FROM private_group_members WHERE private_user_id = ?)`,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to bump private group versions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM private_group_members WHERE private_user_id = ?", id); err != nil {
			return fmt.Errorf("failed to prune private group members: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM private_users WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete private user: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("private user %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
}

// CreatePrivateGroup persists a new private group and any initial members.
func (s *SQLiteStore) CreatePrivateGroup(ctx context.Context, group *models.PrivateGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO private_groups (id, name, created_by, version, created_at) VALUES (?, ?, ?, 1, ?)",
			group.ID, group.Name, group.CreatedBy, group.CreatedAt,
		)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("creator %s: %w", group.CreatedBy, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to insert private group: %w", err)
		}
		return insertPrivateGroupMembers(ctx, tx, group)
	})
	if err != nil {
		return err
	}

	group.Version = 1
	return nil
}

// GetPrivateGroup retrieves a private group with its member references.
func (s *SQLiteStore) GetPrivateGroup(ctx context.Context, id string) (*models.PrivateGroup, error) {
	group := &models.PrivateGroup{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, version, created_at FROM private_groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.Version, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("private group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get private group: %w", err)
	}

	if group.Members, err = s.privateGroupMembers(ctx, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListPrivateGroups returns the private groups owned by createdBy, oldest first.
func (s *SQLiteStore) ListPrivateGroups(ctx context.Context, createdBy string) ([]*models.PrivateGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_by, version, created_at FROM private_groups WHERE created_by = ? ORDER BY created_at, id",
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list private groups: %w", err)
	}

	var groups []*models.PrivateGroup
	for rows.Next() {
		group := &models.PrivateGroup{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.Version, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan private group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate private groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = s.privateGroupMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// SavePrivateGroupMembers replaces the member list of a private group whose
// version is unchanged.
func (s *SQLiteStore) SavePrivateGroupMembers(ctx context.Context, group *models.PrivateGroup) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bumpVersion(ctx, tx, "private_groups", group.ID, group.Version); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM private_group_members WHERE group_id = ?", group.ID); err != nil {
			return fmt.Errorf("failed to clear private group members: %w", err)
		}
		return insertPrivateGroupMembers(ctx, tx, group)
	})
	if err != nil {
		return err
	}

	group.Version++
	return nil
}

func insertPrivateGroupMembers(ctx context.Context, tx *sql.Tx, group *models.PrivateGroup) error {
	for i, contactID := range group.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO private_group_members (group_id, private_user_id, position) VALUES (?, ?, ?)",
			group.ID, contactID, i,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("private member %s: %w", contactID, storage.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("private user %s: %w", contactID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to insert private group member: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) privateGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT private_user_id FROM private_group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get private group members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan private group member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate private group members: %w", err)
	}
	return ids, nil
}
