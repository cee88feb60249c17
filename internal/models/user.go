package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Users log in with their mobile number and date of birth.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Mobile is the user's mobile number (unique across all users).
	Mobile string

	// DOB is the user's date of birth. The year may be a placeholder.
	DOB Date

	// GroupIDs lists the public groups the user belongs to.
	// Derived from group membership; group member lists win on disagreement.
	GroupIDs []string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(name, mobile string, dob Date) *User {
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Mobile:    mobile,
		DOB:       dob,
		CreatedAt: time.Now().Unix(),
	}
}

// InGroup reports whether groupID is among the user's group back-references.
func (u *User) InGroup(groupID string) bool {
	for _, id := range u.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// PrivateUser is a contact created by a User for their own reminders.
// Mobile numbers are only unique per creator.
type PrivateUser struct {
	ID        string
	Name      string
	Mobile    string
	DOB       Date
	CreatedBy string
	CreatedAt int64
}

// NewPrivateUser creates a contact owned by createdBy.
func NewPrivateUser(name, mobile string, dob Date, createdBy string) *PrivateUser {
	return &PrivateUser{
		ID:        uuid.NewString(),
		Name:      name,
		Mobile:    mobile,
		DOB:       dob,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}
}
