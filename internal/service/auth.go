package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
)

// ErrNotLoggedIn is returned when no session token is available.
var ErrNotLoggedIn = errors.New("not logged in; run `todo login`")

// Auth manages the session token and the cached user.
type Auth struct {
	backend AuthBackend
	tokens  TokenStore
	cache   store.Store
	logger  *zap.Logger
}

func NewAuth(backend AuthBackend, tokens TokenStore, cache store.Store, logger *zap.Logger) *Auth {
	return &Auth{
		backend: backend,
		tokens:  tokens,
		cache:   cache,
		logger:  logging.OrNop(logger).Named("auth"),
	}
}

// Restore loads the saved token into the backend client. It does not
// contact the backend.
func (a *Auth) Restore() error {
	token, err := a.tokens.Token()
	if errors.Is(err, credential.ErrNoToken) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("loading session token: %w", err)
	}
	a.backend.SetToken(token)
	return nil
}

// Login authenticates and persists the session.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	sess, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx, sess); err != nil {
		return nil, err
	}
	a.logger.Info("logged in", zap.Int64("user_id", sess.User.ID))
	return &sess.User, nil
}

// Register creates an account and persists the resulting session.
func (a *Auth) Register(ctx context.Context, reg api.Registration) (*model.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return nil, errors.New("username, email and password are required")
	}

	sess, err := a.backend.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx, sess); err != nil {
		return nil, err
	}
	a.logger.Info("registered", zap.Int64("user_id", sess.User.ID))
	return &sess.User, nil
}

// Me returns the current user from the backend, falling back to the
// cached user when the backend is unreachable. Auth failures are returned
// as is so callers can prompt for a new login.
func (a *Auth) Me(ctx context.Context) (*model.User, error) {
	u, err := a.backend.Me(ctx)
	if err == nil {
		if saveErr := a.cache.SaveUser(ctx, *u); saveErr != nil {
			a.logger.Warn("caching user failed", zap.Error(saveErr))
		}
		return u, nil
	}
	if api.IsAuthError(err) {
		return nil, err
	}

	cached, cacheErr := a.cache.GetUser(ctx)
	if cacheErr != nil {
		return nil, err
	}
	return cached, fmt.Errorf("%w: %w", ErrStale, err)
}

// UpdateProfile changes the display name and refreshes the cached user.
func (a *Auth) UpdateProfile(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	u, err := a.backend.UpdateProfile(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := a.cache.SaveUser(ctx, *u); err != nil {
		a.logger.Warn("caching user failed", zap.Error(err))
	}
	return u, nil
}

// ChangePassword replaces the account password. The session token stays
// valid.
func (a *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return errors.New("old and new password are required")
	}
	if oldPassword == newPassword {
		return errors.New("new password must differ from the old one")
	}
	if err := a.backend.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	a.logger.Info("password changed")
	return nil
}

// Logout forgets the token and everything cached for the user.
func (a *Auth) Logout(ctx context.Context) error {
	a.backend.SetToken("")
	if err := a.tokens.ClearToken(); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	if err := a.cache.ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	a.logger.Info("logged out")
	return nil
}

func (a *Auth) persist(ctx context.Context, sess *api.Session) error {
	if err := a.tokens.SaveToken(sess.Token); err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	if err := a.cache.SaveUser(ctx, sess.User); err != nil {
		return fmt.Errorf("caching user: %w", err)
	}
	return nil
}
