package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/yacht/internal/store"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return NewUsers(db)
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  alice_1 ", "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "alice_1" || len(u.ID) != 22 {
		t.Errorf("user = %+v", u)
	}
	if _, err := users.Create(ctx, "ALICE_1", "another pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := users.Authenticate(ctx, "alice_1", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v", err)
	}
	got, err := users.Authenticate(ctx, "Alice_1", "correct horse")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
}

func TestUniqueViolationIsRecognized(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	if _, err := users.Create(ctx, "carol", "password1"); err != nil {
		t.Fatal(err)
	}
	_, err := users.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		genID(), "CAROL", "x", time.Now().UTC().Format(time.RFC3339))
	if err == nil {
		t.Fatal("expected the unique index to reject CAROL")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false", err)
	}
	if isUniqueViolation(errors.New("other")) {
		t.Error("plain error reported as unique violation")
	}
}

func TestConcurrentSignupSameName(t *testing.T) {
	users := newUsers(t)
	const n = 4
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Create(context.Background(), "dave", "password1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrUsernameTaken):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful signups = %d, want 1", ok)
	}
}

func TestSignupValidation(t *testing.T) {
	users := newUsers(t)
	for _, tc := range []struct{ user, pw string }{
		{"ab", "longenough"},
		{"has space", "longenough"},
		{"fine_name", "short"},
	} {
		if _, err := users.Create(context.Background(), tc.user, tc.pw); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("Create(%q, %q) err = %v", tc.user, tc.pw, err)
		}
	}
}

func TestRecordCompletion(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, _ := users.Create(ctx, "bob", "password1")
	_ = users.RecordCompletion(ctx, u.ID, 150)
	_ = users.RecordCompletion(ctx, u.ID, 120)
	got, err := users.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GamesCompleted != 2 || got.BestScore != 150 || got.TotalPoints != 270 {
		t.Errorf("stats = %+v", got)
	}
	if _, err := users.FindByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	s, exp, err := tokens.Sign("id1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry %v too soon", exp)
	}
	c, err := tokens.Parse(s)
	if err != nil || c.ID != "id1" || c.Username != "alice" {
		t.Fatalf("Parse = %+v, %v", c, err)
	}
	if _, err := NewTokens("other", time.Hour).Parse(s); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret err = %v", err)
	}
	expired, _, _ := NewTokens("secret", -time.Minute).Sign("id1", "alice")
	if _, err := tokens.Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired err = %v", err)
	}
}
