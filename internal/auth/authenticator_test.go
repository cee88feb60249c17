package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mmynk/birthdays/internal/identity"
	"github.com/mmynk/birthdays/internal/storage/sqlite"
)

func TestDOBAuthenticator(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := NewDOBAuthenticator(identity.NewDirectory(store, slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	asha, err := a.Register(ctx, "Asha", "111", "2000-05-20")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "Yearless", "222", "--07-04"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := a.Authenticate(ctx, "111", "2000-05-20")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != asha.ID {
		t.Errorf("expected %s, got %s", asha.ID, got.ID)
	}

	if _, err := a.Authenticate(ctx, "222", "1988-07-04"); err != nil {
		t.Errorf("yearless account should accept any year: %v", err)
	}

	tests := []struct {
		name, mobile, dob string
	}{
		{"wrong year", "111", "2001-05-20"},
		{"wrong day", "111", "2000-05-21"},
		{"unknown mobile", "999", "2000-05-20"},
		{"malformed dob", "111", "20/05/2000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Authenticate(ctx, tt.mobile, tt.dob); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
