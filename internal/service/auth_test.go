package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/service"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/tests/testutil"
)

func newAuth(t *testing.T) (*service.Auth, *testutil.FakeBackend, *credential.Store, *store.SQLiteStore) {
	t.Helper()
	backend := testutil.NewFakeBackend(now, nil)
	tokens := credential.New(keyring.NewArrayKeyring(nil))
	cache := testutil.NewTestStore(t)
	return service.NewAuth(backend, tokens, cache, zap.NewNop()), backend, tokens, cache
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	auth, backend, tokens, cache := newAuth(t)

	if err := auth.Restore(); !errors.Is(err, service.ErrNotLoggedIn) {
		t.Fatalf("Restore without token: got %v", err)
	}

	u, err := auth.Register(ctx, api.Registration{Username: " ana ", Email: "ana@example.com", Name: "Ana", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "ana" {
		t.Errorf("username not trimmed: %q", u.Username)
	}
	if tok, _ := tokens.Token(); tok != "token-ana" {
		t.Errorf("token not saved: %q", tok)
	}
	if cached, err := cache.GetUser(ctx); err != nil || cached.ID != u.ID {
		t.Errorf("user not cached: %+v, %v", cached, err)
	}

	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := tokens.Token(); !errors.Is(err, credential.ErrNoToken) {
		t.Errorf("token survived logout: %v", err)
	}
	if backend.Token != "" {
		t.Error("client token not cleared")
	}

	if _, err := auth.Login(ctx, "nobody@example.com", "pw"); !api.IsAuthError(err) {
		t.Errorf("unknown user: got %v", err)
	}
	if _, err := auth.Login(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	backend.SetToken("")
	if err := auth.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	me, err := auth.Me(ctx)
	if err != nil || me.Username != "ana" {
		t.Errorf("Me after restore: %+v, %v", me, err)
	}
}

func TestLoginValidation(t *testing.T) {
	auth, backend, _, _ := newAuth(t)
	if _, err := auth.Login(context.Background(), "  ", "pw"); err == nil {
		t.Error("expected error for blank email")
	}
	if backend.Calls != 0 {
		t.Error("validation failure reached the backend")
	}
}

func TestMeFallsBackToCachedUser(t *testing.T) {
	ctx := context.Background()
	auth, backend, _, _ := newAuth(t)
	if _, err := auth.Register(ctx, api.Registration{Username: "bo", Email: "bo@example.com", Password: "pw"}); err != nil {
		t.Fatal(err)
	}

	backend.MeErr = errors.New("network unreachable")
	u, err := auth.Me(ctx)
	if !errors.Is(err, service.ErrStale) || u == nil || u.Username != "bo" {
		t.Errorf("got %+v, %v", u, err)
	}

	backend.MeErr = &api.AuthError{}
	if _, err := auth.Me(ctx); !api.IsAuthError(err) {
		t.Errorf("auth failures should not fall back, got %v", err)
	}
}

func TestProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	auth, _, _, cache := newAuth(t)

	if _, err := auth.Register(ctx, api.Registration{Username: "bo", Email: "bo@example.com", Password: "old"}); err != nil {
		t.Fatal(err)
	}

	u, err := auth.UpdateProfile(ctx, "  Bo Lee ")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Name != "Bo Lee" {
		t.Errorf("name: got %q", u.Name)
	}
	if cached, _ := cache.GetUser(ctx); cached == nil || cached.Name != "Bo Lee" {
		t.Errorf("cached user not refreshed: %+v", cached)
	}
	if _, err := auth.UpdateProfile(ctx, " "); err == nil {
		t.Error("blank name should be rejected")
	}

	if err := auth.ChangePassword(ctx, "wrong", "new"); err == nil {
		t.Error("wrong old password should fail")
	}
	if err := auth.ChangePassword(ctx, "old", "old"); err == nil {
		t.Error("unchanged password should be rejected")
	}
	if err := auth.ChangePassword(ctx, "old", "new"); err != nil {
		t.Errorf("ChangePassword: %v", err)
	}
}
