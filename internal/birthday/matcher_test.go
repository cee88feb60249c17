package birthday

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/membership"
	"github.com/mmynk/birthdays/internal/metrics"
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/internal/storage/sqlite"
)

type fixture struct {
	dbPath  string
	store   *sqlite.SQLiteStore
	dir     *identity.Directory
	mgr     *membership.Manager
	logger  *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := identity.NewDirectory(store, logger)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	return &fixture{
		dbPath:  dbPath,
		store:   store,
		dir:     dir,
		mgr:     membership.NewManager(store, dir, logger, m),
		logger:  logger,
		reg:     reg,
		metrics: m,
	}
}

func (f *fixture) matcher(now time.Time, opts ...Option) *Matcher {
	opts = append([]Option{WithClock(func() time.Time { return now }), WithLocation(time.UTC), WithMetrics(f.metrics)}, opts...)
	return NewMatcher(f.store, f.dir, f.logger, opts...)
}

func (f *fixture) signup(t *testing.T, name, mobile, dob string) *models.User {
	t.Helper()
	user, err := f.dir.Signup(context.Background(), name, mobile, dob)
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", name, err)
	}
	return user
}

// corruptDOB writes a value no date parser accepts, as legacy rows might hold.
func (f *fixture) corruptDOB(t *testing.T, table, id string) {
	t.Helper()
	db, err := sql.Open("sqlite", f.dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("UPDATE "+table+" SET dob = 'not-a-date' WHERE id = ?", id); err != nil {
		t.Fatalf("failed to corrupt dob: %v", err)
	}
}

// counter returns the value of a counter series, or 0 if it was never written.
func (f *fixture) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue series
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func names(list *models.BirthdayList) []string {
	out := make([]string, 0, len(list.Birthdays))
	for _, b := range list.Birthdays {
		out = append(out, b.Name)
	}
	return out
}

func TestNewDay(t *testing.T) {
	if _, err := NewDay(2, 29); err != nil {
		t.Errorf("expected Feb 29 to be valid, got %v", err)
	}
	for _, tt := range [][2]int{{2, 30}, {13, 1}, {0, 10}, {4, 31}, {6, 0}} {
		if _, err := NewDay(tt[0], tt[1]); !errs.Is(err, errs.KindInvalidInput) {
			t.Errorf("NewDay(%d, %d): expected InvalidInput, got %v", tt[0], tt[1], err)
		}
	}
}

func TestTodayUsesLocation(t *testing.T) {
	f := setup(t)
	// 23:30 UTC on May 19 is already May 20 in Kolkata.
	now := time.Date(2026, time.May, 19, 23, 30, 0, 0, time.UTC)
	kolkata := time.FixedZone("IST", 5*60*60+30*60)

	if got := f.matcher(now).Today(); got != (Day{Month: time.May, Day: 19}) {
		t.Errorf("UTC: expected May 19, got %v", got)
	}
	if got := f.matcher(now, WithLocation(kolkata)).Today(); got != (Day{Month: time.May, Day: 20}) {
		t.Errorf("IST: expected May 20, got %v", got)
	}
}

func TestTodayFor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	asha := f.signup(t, "Asha", "111", "2000-05-20")
	ravi := f.signup(t, "Ravi", "222", "1995-05-20")
	group, _ := f.mgr.CreateGroup(ctx, asha.ID, "Friends")
	if _, err := f.mgr.JoinByInviteCode(ctx, ravi.ID, group.InviteCode); err != nil {
		t.Fatalf("JoinByInviteCode failed: %v", err)
	}

	m := f.matcher(time.Date(2026, time.May, 20, 9, 0, 0, 0, time.UTC))
	day, list, err := m.TodayFor(ctx, asha.ID)
	if err != nil {
		t.Fatalf("TodayFor failed: %v", err)
	}
	if day != (Day{Month: time.May, Day: 20}) {
		t.Errorf("expected May 20, got %v", day)
	}

	if list.Count != 2 || len(list.Birthdays) != 2 {
		t.Fatalf("expected 2 birthdays, got %d: %v", list.Count, names(list))
	}
	for _, b := range list.Birthdays {
		if b.Source != models.SourcePublic {
			t.Errorf("%s: expected public source, got %s", b.Name, b.Source)
		}
	}
	if got := names(list); got[0] != "Asha" || got[1] != "Ravi" {
		t.Errorf("expected [Asha Ravi], got %v", got)
	}

	if got := f.counter(t, "birthdays_birthday_matches_total", map[string]string{"source": "public"}); got != 2 {
		t.Errorf("expected 2 public matches recorded, got %v", got)
	}

	if _, _, err := m.TodayFor(ctx, "nonexistent-id"); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("expected NotFound for unknown user, got %v", err)
	}
}

func TestOnIgnoresYear(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	asha := f.signup(t, "Asha", "111", "1990-03-14")
	m := f.matcher(time.Now())

	tests := []struct {
		month, day int
		want       int
	}{
		{3, 14, 1},
		{3, 15, 0},
		{4, 14, 0},
	}
	for _, tt := range tests {
		day, _ := NewDay(tt.month, tt.day)
		list, err := m.On(ctx, asha.ID, day)
		if err != nil {
			t.Fatalf("On failed: %v", err)
		}
		// Asha belongs to no group yet, so only her contacts could match.
		if list.Count != 0 {
			t.Errorf("%d/%d: expected no matches without groups, got %v", tt.month, tt.day, names(list))
		}
	}

	f.mgr.CreateGroup(ctx, asha.ID, "Solo")
	for _, tt := range tests {
		day, _ := NewDay(tt.month, tt.day)
		list, err := m.On(ctx, asha.ID, day)
		if err != nil {
			t.Fatalf("On failed: %v", err)
		}
		if list.Count != tt.want {
			t.Errorf("%d/%d: expected %d matches, got %v", tt.month, tt.day, tt.want, names(list))
		}
	}
}

func TestOnCombinesGroupsAndContacts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	asha := f.signup(t, "Asha", "111", "2000-01-01")
	ravi := f.signup(t, "Ravi", "222", "1995-05-20")
	meena := f.signup(t, "Meena", "333", "1993-05-20")
	stranger := f.signup(t, "Stranger", "444", "1980-05-20")

	friends, _ := f.mgr.CreateGroup(ctx, asha.ID, "Friends")
	office, _ := f.mgr.CreateGroup(ctx, asha.ID, "Office")
	f.mgr.JoinByInviteCode(ctx, ravi.ID, friends.InviteCode)
	f.mgr.JoinByInviteCode(ctx, ravi.ID, office.InviteCode)
	f.mgr.JoinByInviteCode(ctx, meena.ID, office.InviteCode)

	f.dir.AddContact(ctx, asha.ID, "Mom", "900", "1970-05-20")
	f.dir.AddContact(ctx, asha.ID, "Dad", "901", "1968-11-02")
	f.dir.AddContact(ctx, asha.ID, "Cousin", "902", "")
	f.dir.AddContact(ctx, stranger.ID, "Not Asha's", "903", "1970-05-20")

	day, _ := NewDay(5, 20)
	list, err := f.matcher(time.Now()).On(ctx, asha.ID, day)
	if err != nil {
		t.Fatalf("On failed: %v", err)
	}

	want := []struct {
		name   string
		source models.Source
	}{
		{"Ravi", models.SourcePublic},
		{"Meena", models.SourcePublic},
		{"Mom", models.SourcePrivate},
	}
	if list.Count != len(want) {
		t.Fatalf("expected %d birthdays, got %v", len(want), names(list))
	}
	for i, w := range want {
		if list.Birthdays[i].Name != w.name || list.Birthdays[i].Source != w.source {
			t.Errorf("birthday %d: expected %s (%s), got %s (%s)",
				i, w.name, w.source, list.Birthdays[i].Name, list.Birthdays[i].Source)
		}
	}
}

func TestOnSkipsMalformedDates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	asha := f.signup(t, "Asha", "111", "2000-05-20")
	ravi := f.signup(t, "Ravi", "222", "1995-05-20")
	group, _ := f.mgr.CreateGroup(ctx, asha.ID, "Friends")
	f.mgr.JoinByInviteCode(ctx, ravi.ID, group.InviteCode)
	mom, _ := f.dir.AddContact(ctx, asha.ID, "Mom", "900", "1970-05-20")

	f.corruptDOB(t, "users", ravi.ID)
	f.corruptDOB(t, "private_users", mom.ID)

	day, _ := NewDay(5, 20)
	list, err := f.matcher(time.Now()).On(ctx, asha.ID, day)
	if err != nil {
		t.Fatalf("On failed: %v", err)
	}
	if got := names(list); len(got) != 1 || got[0] != "Asha" {
		t.Errorf("expected only Asha, got %v", got)
	}
}

func TestLeapDayMatchesExactly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	leap := f.signup(t, "Leap", "111", "2000-02-29")
	f.mgr.CreateGroup(ctx, leap.ID, "Leaplings")
	m := f.matcher(time.Now())

	feb28, _ := NewDay(2, 28)
	feb29, _ := NewDay(2, 29)
	if list, _ := m.On(ctx, leap.ID, feb28); list.Count != 0 {
		t.Errorf("Feb 28: expected no match, got %v", names(list))
	}
	if list, _ := m.On(ctx, leap.ID, feb29); list.Count != 1 {
		t.Errorf("Feb 29: expected 1 match, got %v", names(list))
	}
}

func TestCandidatePool(t *testing.T) {
	groups := []*models.Group{
		{Members: []models.GroupMember{{UserID: "a"}, {UserID: "b"}}},
		{Members: []models.GroupMember{{UserID: "b"}, {UserID: "c"}, {UserID: "a"}}},
	}
	got := candidatePool(groups)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
