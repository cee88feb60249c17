package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/birthdays/internal/auth"
	"github.com/mmynk/birthdays/internal/birthday"
	"github.com/mmynk/birthdays/internal/errs"
	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/membership"
	"github.com/mmynk/birthdays/internal/middleware"
	"github.com/mmynk/birthdays/internal/storage/sqlite"
	"github.com/mmynk/birthdays/pkg/api"
	"github.com/mmynk/birthdays/pkg/api/apiconnect"
)

// today is the fixed clock every test server runs on.
var today = time.Date(2026, time.May, 20, 9, 0, 0, 0, time.UTC)

type testServer struct {
	url  string
	auth apiconnect.AuthServiceClient
}

// setupTestServer starts all services over httptest, wired like main.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := identity.NewDirectory(store, logger)
	manager := membership.NewManager(store, dir, logger, nil)
	matcher := birthday.NewMatcher(store, dir, logger,
		birthday.WithClock(func() time.Time { return today }),
		birthday.WithLocation(time.UTC),
	)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	public := connect.WithInterceptors(middleware.LoggingInterceptor(logger))
	authenticated := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(auth.NewDOBAuthenticator(dir), jwtManager, logger), public))
	mux.Handle(apiconnect.NewIdentityServiceHandler(NewIdentityService(dir, manager, logger), authenticated))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(manager, dir), authenticated))
	mux.Handle(apiconnect.NewPrivateGroupServiceHandler(NewPrivateGroupService(manager), authenticated))
	mux.Handle(apiconnect.NewBirthdayServiceHandler(NewBirthdayService(matcher), authenticated))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		url:  server.URL,
		auth: apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// bearer attaches token to every outgoing request.
func bearer(token string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
}

// session holds clients acting as one signed-up user.
type session struct {
	user      *api.User
	identity  apiconnect.IdentityServiceClient
	groups    apiconnect.GroupServiceClient
	private   apiconnect.PrivateGroupServiceClient
	birthdays apiconnect.BirthdayServiceClient
}

func (s *testServer) signup(t *testing.T, name, mobile, dob string) *session {
	t.Helper()
	resp, err := s.auth.Signup(context.Background(), connect.NewRequest(&api.SignupRequest{
		Name:   name,
		Mobile: mobile,
		DOB:    dob,
	}))
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", name, err)
	}
	return s.session(resp.Msg.User, resp.Msg.Token)
}

func (s *testServer) session(user *api.User, token string) *session {
	opt := bearer(token)
	return &session{
		user:      user,
		identity:  apiconnect.NewIdentityServiceClient(http.DefaultClient, s.url, opt),
		groups:    apiconnect.NewGroupServiceClient(http.DefaultClient, s.url, opt),
		private:   apiconnect.NewPrivateGroupServiceClient(http.DefaultClient, s.url, opt),
		birthdays: apiconnect.NewBirthdayServiceClient(http.DefaultClient, s.url, opt),
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil error", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{errs.NotFound("x"), connect.CodeNotFound},
		{errs.Conflict("x"), connect.CodeAlreadyExists},
		{errs.Forbidden("x"), connect.CodePermissionDenied},
		{errs.InvalidInput("x"), connect.CodeInvalidArgument},
		{errs.Storage("get group", errors.New("disk I/O error")), connect.CodeInternal},
		{errors.New("raw"), connect.CodeInternal},
		{connect.NewError(connect.CodeUnauthenticated, errors.New("x")), connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		if got := connect.CodeOf(toConnectError("op", tt.err)); got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.err, tt.want, got)
		}
	}

	// Storage causes stay in the logs, not in the response.
	var connectErr *connect.Error
	err := toConnectError("get group", errors.New("disk I/O error"))
	if !errors.As(err, &connectErr) || connectErr.Message() != "get group failed" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestSignupAndLogin(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	asha := srv.signup(t, "Asha", "111", "2000-05-20")
	if asha.user.ID == "" || asha.user.DOB != "2000-05-20" {
		t.Errorf("unexpected user: %+v", asha.user)
	}

	t.Run("duplicate mobile", func(t *testing.T) {
		_, err := srv.auth.Signup(ctx, connect.NewRequest(&api.SignupRequest{Name: "Other", Mobile: "111", DOB: "1990-01-01"}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("malformed dob", func(t *testing.T) {
		_, err := srv.auth.Signup(ctx, connect.NewRequest(&api.SignupRequest{Name: "Ravi", Mobile: "222", DOB: "May 20"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := srv.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Mobile: "111", DOB: "2000-05-20"}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.Token == "" || resp.Msg.User.ID != asha.user.ID {
			t.Errorf("unexpected login response: %+v", resp.Msg)
		}

		profile, err := srv.session(resp.Msg.User, resp.Msg.Token).identity.GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if profile.Msg.User.Name != "Asha" {
			t.Errorf("expected Asha, got %s", profile.Msg.User.Name)
		}
	})

	t.Run("wrong dob", func(t *testing.T) {
		_, err := srv.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Mobile: "111", DOB: "2000-05-21"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("missing token", func(t *testing.T) {
		client := apiconnect.NewGroupServiceClient(http.DefaultClient, srv.url)
		_, err := client.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := srv.session(nil, "garbage").groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestUpdateProfile(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	asha := srv.signup(t, "Asha", "111", "2000-05-20")
	srv.signup(t, "Ravi", "222", "1995-05-20")

	resp, err := asha.identity.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{Name: "Asha K"}))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.Msg.User.Name != "Asha K" || resp.Msg.User.Mobile != "111" {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	_, err = asha.identity.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{Mobile: "222"}))
	assertCode(t, err, connect.CodeAlreadyExists)
}

func TestGroupFlow(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	asha := srv.signup(t, "Asha", "111", "2000-05-20")
	ravi := srv.signup(t, "Ravi", "222", "1995-05-20")
	srv.signup(t, "Meena", "333", "1993-01-01")

	created, err := asha.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Friends"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := created.Msg.Group
	if group.InviteCode == "" || len(group.Members) != 1 || group.Members[0].Role != "admin" {
		t.Fatalf("unexpected group: %+v", group)
	}

	if _, err := ravi.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{InviteCode: group.InviteCode})); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	t.Run("join twice", func(t *testing.T) {
		_, err := ravi.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{InviteCode: group.InviteCode}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("unknown invite code", func(t *testing.T) {
		_, err := ravi.groups.JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{InviteCode: "nope"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("non-admin add", func(t *testing.T) {
		_, err := ravi.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Mobile: "333"}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("admin add", func(t *testing.T) {
		resp, err := asha.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Mobile: "333"}))
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if len(resp.Msg.Group.Members) != 3 {
			t.Errorf("expected 3 members, got %d", len(resp.Msg.Group.Members))
		}
	})

	t.Run("get group populates profiles", func(t *testing.T) {
		resp, err := ravi.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		names := []string{}
		for _, m := range resp.Msg.Group.Members {
			names = append(names, m.Name)
		}
		if len(names) != 3 || names[0] != "Asha" || names[1] != "Ravi" || names[2] != "Meena" {
			t.Errorf("unexpected members: %v", names)
		}
	})

	t.Run("todays birthdays", func(t *testing.T) {
		resp, err := asha.birthdays.TodaysBirthdays(ctx, connect.NewRequest(&api.TodaysBirthdaysRequest{}))
		if err != nil {
			t.Fatalf("TodaysBirthdays failed: %v", err)
		}
		if resp.Msg.Month != 5 || resp.Msg.Day != 20 {
			t.Errorf("expected 5/20, got %d/%d", resp.Msg.Month, resp.Msg.Day)
		}
		if resp.Msg.Count != 2 {
			t.Fatalf("expected 2 birthdays, got %d", resp.Msg.Count)
		}
		for _, b := range resp.Msg.Birthdays {
			if b.Source != "public" {
				t.Errorf("%s: expected public, got %s", b.Name, b.Source)
			}
		}
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		_, err := asha.groups.LeaveGroup(ctx, connect.NewRequest(&api.LeaveGroupRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("member leaves", func(t *testing.T) {
		resp, err := ravi.groups.LeaveGroup(ctx, connect.NewRequest(&api.LeaveGroupRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("LeaveGroup failed: %v", err)
		}
		if resp.Msg.GroupDeleted {
			t.Error("group should not be deleted")
		}

		list, err := ravi.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(list.Msg.Groups) != 0 {
			t.Errorf("expected no groups, got %d", len(list.Msg.Groups))
		}

		_, err = ravi.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("repair memberships", func(t *testing.T) {
		resp, err := asha.groups.RepairMemberships(ctx, connect.NewRequest(&api.RepairMembershipsRequest{}))
		if err != nil {
			t.Fatalf("RepairMemberships failed: %v", err)
		}
		if ids := resp.Msg.User.GroupIDs; len(ids) != 1 || ids[0] != group.ID {
			t.Errorf("expected [%s], got %v", group.ID, ids)
		}
	})
}

func TestPrivateGroupFlow(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	asha := srv.signup(t, "Asha", "111", "2000-01-01")
	ravi := srv.signup(t, "Ravi", "222", "1995-01-01")

	added, err := asha.identity.AddContact(ctx, connect.NewRequest(&api.AddContactRequest{Name: "Mom", Mobile: "900", DOB: "1970-05-20"}))
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	mom := added.Msg.Contact

	_, err = asha.identity.AddContact(ctx, connect.NewRequest(&api.AddContactRequest{Name: "Mother", Mobile: "900"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	t.Run("find contact by mobile", func(t *testing.T) {
		found, err := asha.identity.FindContact(ctx, connect.NewRequest(&api.FindContactRequest{Mobile: "900"}))
		if err != nil {
			t.Fatalf("FindContact failed: %v", err)
		}
		if found.Msg.Contact.ID != mom.ID {
			t.Errorf("expected %s, got %s", mom.ID, found.Msg.Contact.ID)
		}

		_, err = ravi.identity.FindContact(ctx, connect.NewRequest(&api.FindContactRequest{Mobile: "900"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	created, err := asha.private.CreatePrivateGroup(ctx, connect.NewRequest(&api.CreatePrivateGroupRequest{Name: "Family"}))
	if err != nil {
		t.Fatalf("CreatePrivateGroup failed: %v", err)
	}
	family := created.Msg.Group

	if _, err := asha.private.AddPrivateMember(ctx, connect.NewRequest(&api.AddPrivateMemberRequest{GroupID: family.ID, ContactID: mom.ID})); err != nil {
		t.Fatalf("AddPrivateMember failed: %v", err)
	}

	t.Run("add twice", func(t *testing.T) {
		_, err := asha.private.AddPrivateMember(ctx, connect.NewRequest(&api.AddPrivateMemberRequest{GroupID: family.ID, ContactID: mom.ID}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := ravi.private.GetPrivateGroup(ctx, connect.NewRequest(&api.GetPrivateGroupRequest{GroupID: family.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("get with contacts", func(t *testing.T) {
		resp, err := asha.private.GetPrivateGroup(ctx, connect.NewRequest(&api.GetPrivateGroupRequest{GroupID: family.ID}))
		if err != nil {
			t.Fatalf("GetPrivateGroup failed: %v", err)
		}
		if len(resp.Msg.Group.Members) != 1 || resp.Msg.Group.Members[0].Name != "Mom" {
			t.Errorf("unexpected members: %+v", resp.Msg.Group.Members)
		}
	})

	t.Run("birthdays on", func(t *testing.T) {
		resp, err := asha.birthdays.BirthdaysOn(ctx, connect.NewRequest(&api.BirthdaysOnRequest{Month: 5, Day: 20}))
		if err != nil {
			t.Fatalf("BirthdaysOn failed: %v", err)
		}
		if resp.Msg.Count != 1 || resp.Msg.Birthdays[0].Source != "private" {
			t.Errorf("expected Mom as private match, got %+v", resp.Msg.Birthdays)
		}

		_, err = asha.birthdays.BirthdaysOn(ctx, connect.NewRequest(&api.BirthdaysOnRequest{Month: 2, Day: 30}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("delete contact cascades", func(t *testing.T) {
		if _, err := asha.identity.DeleteContact(ctx, connect.NewRequest(&api.DeleteContactRequest{ContactID: mom.ID})); err != nil {
			t.Fatalf("DeleteContact failed: %v", err)
		}

		resp, err := asha.private.ListPrivateGroups(ctx, connect.NewRequest(&api.ListPrivateGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListPrivateGroups failed: %v", err)
		}
		if len(resp.Msg.Groups) != 1 || len(resp.Msg.Groups[0].MemberIDs) != 0 {
			t.Errorf("expected Family to be empty, got %+v", resp.Msg.Groups)
		}

		contacts, err := asha.identity.ListContacts(ctx, connect.NewRequest(&api.ListContactsRequest{}))
		if err != nil {
			t.Fatalf("ListContacts failed: %v", err)
		}
		if len(contacts.Msg.Contacts) != 0 {
			t.Errorf("expected no contacts, got %d", len(contacts.Msg.Contacts))
		}

		_, err = asha.identity.DeleteContact(ctx, connect.NewRequest(&api.DeleteContactRequest{ContactID: mom.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})
}
