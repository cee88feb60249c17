package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within a public group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// GroupMember is one entry of a public group's member list.
type GroupMember struct {
	UserID   string
	Role     Role
	JoinedAt int64
}

// Group represents a public group joinable through its invite code.
// A group exists only while it has at least one member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Friends", "Office").
	Name string

	// CreatedBy is the owning user's ID. Never changes.
	CreatedBy string

	// InviteCode is the opaque token other users join with (UUID format).
	InviteCode string

	// Members is the ordered member list. A user ID appears at most once.
	Members []GroupMember

	// Version is incremented on every member-list write.
	Version int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// NewGroup creates a group with the creator enrolled as its only admin.
func NewGroup(name, creatorID string) *Group {
	now := time.Now().Unix()
	return &Group{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedBy:  creatorID,
		InviteCode: uuid.NewString(),
		Members: []GroupMember{
			{UserID: creatorID, Role: RoleAdmin, JoinedAt: now},
		},
		CreatedAt: now,
	}
}

// Member returns the member entry for userID, if present.
func (g *Group) Member(userID string) (GroupMember, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return GroupMember{}, false
}

// IsAdmin reports whether userID holds the admin role.
func (g *Group) IsAdmin(userID string) bool {
	m, ok := g.Member(userID)
	return ok && m.Role == RoleAdmin
}

// RemoveMember drops userID from the member list and reports whether it was present.
func (g *Group) RemoveMember(userID string) bool {
	for i, m := range g.Members {
		if m.UserID == userID {
			g.Members = append(g.Members[:i:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// MemberIDs returns the member user IDs in list order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// PrivateGroup is an owner-only list of the owner's contacts.
// There is no invite mechanism; only the owner adds or removes members.
type PrivateGroup struct {
	ID        string
	Name      string
	CreatedBy string

	// Members holds PrivateUser IDs, each created by CreatedBy.
	Members []string

	Version   int64
	CreatedAt int64
}

// NewPrivateGroup creates an empty private group owned by createdBy.
func NewPrivateGroup(name, createdBy string) *PrivateGroup {
	return &PrivateGroup{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}
}

// HasMember reports whether privateUserID is already in the group.
func (g *PrivateGroup) HasMember(privateUserID string) bool {
	for _, id := range g.Members {
		if id == privateUserID {
			return true
		}
	}
	return false
}

// RemoveMember drops privateUserID and reports whether it was present.
func (g *PrivateGroup) RemoveMember(privateUserID string) bool {
	for i, id := range g.Members {
		if id == privateUserID {
			g.Members = append(g.Members[:i:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}
