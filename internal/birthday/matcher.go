// Package birthday finds whose birthday falls on a given calendar day.
package birthday

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/metrics"
	"github.com/mmynk/birthdays/internal/models"
)

// Day is a calendar day without a year.
type Day struct {
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	return Day{Month: t.Month(), Day: t.Day()}
}

// NewDay validates month and day. February 29 is accepted.
func NewDay(month, day int) (Day, error) {
	if !models.ValidMonthDay(time.Month(month), day) {
		return Day{}, errs.InvalidInput("%d/%d is not a calendar day", month, day)
	}
	return Day{Month: time.Month(month), Day: day}, nil
}

// Store is the read-only persistence the matcher needs.
type Store interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	ListPrivateUsers(ctx context.Context, createdBy string) ([]*models.PrivateUser, error)
}

// Matcher computes birthday lists for a user.
type Matcher struct {
	store    Store
	dir      *identity.Directory
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	location *time.Location
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

// WithLocation sets the timezone "today" is computed in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(m *Matcher) { m.location = loc }
}

// WithMetrics records match counts.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = mt }
}

// NewMatcher creates a Matcher.
func NewMatcher(store Store, dir *identity.Directory, logger *slog.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		store:    store,
		dir:      dir,
		logger:   logger,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Today returns the current calendar day in the matcher's timezone.
func (m *Matcher) Today() Day {
	return DayOf(m.now().In(m.location))
}

// TodayFor lists the birthdays visible to userID today, along with the day used.
func (m *Matcher) TodayFor(ctx context.Context, userID string) (Day, *models.BirthdayList, error) {
	day := m.Today()
	list, err := m.On(ctx, userID, day)
	return day, list, err
}

// On lists the birthdays on day visible to userID: first co-members of the
// user's public groups (the user included), then the user's own contacts.
// People with a missing or malformed date of birth are skipped.
func (m *Matcher) On(ctx context.Context, userID string, day Day) (*models.BirthdayList, error) {
	user, err := m.dir.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	public, err := m.publicMatches(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	private, err := m.privateMatches(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}

	m.metrics.BirthdaysMatched(string(models.SourcePublic), len(public))
	m.metrics.BirthdaysMatched(string(models.SourcePrivate), len(private))
	m.logger.Debug("Birthdays matched",
		"user_id", user.ID,
		"month", int(day.Month),
		"day", day.Day,
		"public", len(public),
		"private", len(private),
	)

	birthdays := append(public, private...)
	return &models.BirthdayList{Count: len(birthdays), Birthdays: birthdays}, nil
}

func (m *Matcher) publicMatches(ctx context.Context, userID string, day Day) ([]models.Birthday, error) {
	groups, err := m.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, errs.Storage("list groups by member", err)
	}

	pool := candidatePool(groups)
	users, err := m.store.GetUsersByIDs(ctx, pool)
	if err != nil {
		return nil, errs.Storage("get users by IDs", err)
	}

	matches := make([]models.Birthday, 0)
	for _, id := range pool {
		u, ok := users[id]
		if !ok {
			continue
		}
		if u.DOB.IsZero() {
			m.logger.Debug("Skipping user without valid date of birth", "user_id", u.ID)
			continue
		}
		if u.DOB.OnDay(day.Month, day.Day) {
			matches = append(matches, models.Birthday{
				ID:     u.ID,
				Name:   u.Name,
				Mobile: u.Mobile,
				DOB:    u.DOB,
				Source: models.SourcePublic,
			})
		}
	}
	return matches, nil
}

func (m *Matcher) privateMatches(ctx context.Context, userID string, day Day) ([]models.Birthday, error) {
	contacts, err := m.store.ListPrivateUsers(ctx, userID)
	if err != nil {
		return nil, errs.Storage("list private users", err)
	}

	matches := make([]models.Birthday, 0)
	for _, c := range contacts {
		if c.DOB.OnDay(day.Month, day.Day) {
			matches = append(matches, models.Birthday{
				ID:     c.ID,
				Name:   c.Name,
				Mobile: c.Mobile,
				DOB:    c.DOB,
				Source: models.SourcePrivate,
			})
		}
	}
	return matches, nil
}

// candidatePool returns the member IDs of all groups, first occurrence wins.
func candidatePool(groups []*models.Group) []string {
	seen := make(map[string]bool)
	var pool []string
	for _, g := range groups {
		for _, member := range g.Members {
			if seen[member.UserID] {
				continue
			}
			seen[member.UserID] = true
			pool = append(pool, member.UserID)
		}
	}
	return pool
}
