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

const userColumns = "id, name, mobile, dob, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var dob sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.Mobile, &dob, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.DOB = parseStoredDate(dob, "users", user.ID)
	return user, nil
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, mobile, dob, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Mobile, nullDate(user.DOB), user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("mobile %s: %w", user.Mobile, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user and their group back-references.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	if user.GroupIDs, err = s.userGroupIDs(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByMobile retrieves a user by their mobile number.
func (s *SQLiteStore) GetUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE mobile = ?", mobile,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with mobile %s: %w", mobile, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by mobile: %w", err)
	}

	if user.GroupIDs, err = s.userGroupIDs(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted. GroupIDs are not loaded.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+")",
		toArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateUser overwrites the user's profile fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, mobile = ?, dob = ? WHERE id = ?",
		user.Name, user.Mobile, nullDate(user.DOB), user.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("mobile %s: %w", user.Mobile, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrNotFound)
	}
	return nil
}

// AddUserGroup records groupID in the user's back-references.
func (s *SQLiteStore) AddUserGroup(ctx context.Context, userID, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_groups (user_id, group_id, added_at) VALUES (?, ?, ?)",
		userID, groupID, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to add user group: %w", err)
	}
	return nil
}

// RemoveUserGroup drops groupID from the user's back-references.
func (s *SQLiteStore) RemoveUserGroup(ctx context.Context, userID, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_groups WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove user group: %w", err)
	}
	return nil
}

func (s *SQLiteStore) userGroupIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id FROM user_groups WHERE user_id = ? ORDER BY added_at, group_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user group: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user groups: %w", err)
	}
	return ids, nil
}
