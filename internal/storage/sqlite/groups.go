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

const groupColumns = "id, name, created_by, invite_code, version, created_at"

// CreateGroup persists a new group with its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.InviteCode == "" {
		group.InviteCode = uuid.NewString()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, created_by, invite_code, version, created_at) VALUES (?, ?, ?, ?, 1, ?)",
			group.ID, group.Name, group.CreatedBy, group.InviteCode, group.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertGroupMembers(ctx, tx, group)
	})
	if err != nil {
		return err
	}

	group.Version = 1
	return nil
}

// GetGroup retrieves a group by ID, including its member list.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return getGroup(ctx, s.db, "id", id)
}

// GetGroupByInviteCode retrieves the group an invite code belongs to.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return getGroup(ctx, s.db, "invite_code", code)
}

// ListGroupsByMember returns the groups whose member list contains userID,
// oldest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by member: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	// Rows must be closed before loading each group: the pool has one connection.
	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := getGroup(ctx, s.db, "id", id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// SaveGroupMembers replaces the member list of a group whose version is unchanged.
func (s *SQLiteStore) SaveGroupMembers(ctx context.Context, group *models.Group) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bumpVersion(ctx, tx, "groups", group.ID, group.Version); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
			return fmt.Errorf("failed to clear group members: %w", err)
		}
		return insertGroupMembers(ctx, tx, group)
	})
	if err != nil {
		return err
	}

	group.Version++
	return nil
}

// DeleteGroup removes a group whose version is unchanged. Members cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string, version int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ? AND version = ?", id, version)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return missingOrStale(ctx, tx, "groups", id)
		}
		return nil
	})
}

func insertGroupMembers(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for i, m := range group.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, role, joined_at, position) VALUES (?, ?, ?, ?, ?)",
			group.ID, m.UserID, string(m.Role), m.JoinedAt, i,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("member %s: %w", m.UserID, storage.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("member %s: %w", m.UserID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

func getGroup(ctx context.Context, q queryer, column, value string) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE "+column+" = ?", value,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.InviteCode, &group.Version, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s %s: %w", column, value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT user_id, role, joined_at FROM group_members WHERE group_id = ? ORDER BY position",
		group.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.GroupMember
		var role string
		if err := rows.Scan(&m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		m.Role = models.Role(role)
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}
