// Package auth establishes who is calling: it checks login credentials and
// issues the session tokens later requests carry.
package auth

import (
	"context"
	"errors"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/models"
)

// ErrInvalidCredentials is returned for any failed login, so callers cannot
// tell an unknown mobile from a wrong date of birth.
var ErrInvalidCredentials = errors.New("invalid mobile or date of birth")

// Authenticator verifies a login attempt.
// Implementations can be swapped (one-time codes, passkeys) without touching the service layer.
type Authenticator interface {
	Register(ctx context.Context, name, mobile, dob string) (*models.User, error)
	Authenticate(ctx context.Context, mobile, credential string) (*models.User, error)
}

// DOBAuthenticator logs users in with their mobile number and date of birth.
type DOBAuthenticator struct {
	dir *identity.Directory
}

// NewDOBAuthenticator creates an authenticator backed by dir.
func NewDOBAuthenticator(dir *identity.Directory) *DOBAuthenticator {
	return &DOBAuthenticator{dir: dir}
}

// Register creates the account.
func (a *DOBAuthenticator) Register(ctx context.Context, name, mobile, dob string) (*models.User, error) {
	return a.dir.Signup(ctx, name, mobile, dob)
}

// Authenticate returns the user whose mobile and date of birth match.
// Storage failures pass through; every other failure is ErrInvalidCredentials.
func (a *DOBAuthenticator) Authenticate(ctx context.Context, mobile, dob string) (*models.User, error) {
	given, err := models.ParseDate(dob)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := a.dir.UserByMobile(ctx, mobile)
	if errs.Is(err, errs.KindStorage) {
		return nil, err
	}
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.DOB.IsZero() || !sameBirthday(user.DOB, given) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// sameBirthday compares day and month, and the year when both sides know it.
func sameBirthday(stored, given models.Date) bool {
	if stored.Month != given.Month || stored.Day != given.Day {
		return false
	}
	return !stored.HasYear() || !given.HasYear() || stored.Year == given.Year
}
