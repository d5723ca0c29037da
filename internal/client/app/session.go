package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/atinyakov/postboard/internal/client/storage"
	"github.com/atinyakov/postboard/internal/models"
)

// LoadSession reads the persisted session. A session with only one of the
// two keys present is discarded and both keys are removed.
func LoadSession(store storage.Store) (models.Session, error) {
	token, hasToken, err := store.Get(storage.KeyAuthToken)
	if err != nil {
		return models.Session{}, err
	}
	username, hasUser, err := store.Get(storage.KeyCurrentUsername)
	if err != nil {
		return models.Session{}, err
	}

	s := models.Session{Token: token, Username: username}
	if hasToken && hasUser && s.LoggedIn() {
		return s, nil
	}
	if hasToken || hasUser {
		return models.Session{}, clearStore(store)
	}
	return models.Session{}, nil
}

func saveSession(store storage.Store, s models.Session) error {
	return errors.Join(
		store.Set(storage.KeyAuthToken, s.Token),
		store.Set(storage.KeyCurrentUsername, s.Username),
	)
}

func clearStore(store storage.Store) error {
	return errors.Join(
		store.Remove(storage.KeyAuthToken),
		store.Remove(storage.KeyCurrentUsername),
	)
}

// Register creates an account and then logs in with the same credentials.
func (a *App) Register(ctx context.Context, username, password string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	creds := models.Credentials{Username: username, Password: password}
	if err := a.api.Register(ctx, creds); err != nil {
		return err
	}
	a.log.Info("registered", zap.String("user", username))
	return a.login(ctx, creds)
}

// Login obtains a token, persists the session and refreshes the UI. On
// failure the session is left untouched.
func (a *App) Login(ctx context.Context, username, password string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	return a.login(ctx, models.Credentials{Username: username, Password: password})
}

func (a *App) login(ctx context.Context, creds models.Credentials) error {
	token, err := a.api.Login(ctx, creds)
	if err != nil {
		return err
	}

	s := models.Session{Token: token, Username: creds.Username}
	a.setSession(s)
	if err := saveSession(a.store, s); err != nil {
		a.log.Warn("failed to persist session", zap.Error(err))
	}
	a.log.Info("logged in", zap.String("user", s.Username))

	a.refreshUI(ctx)
	return nil
}

// Logout forgets the session locally and refreshes the UI. The token is not
// revoked on the server.
func (a *App) Logout(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	a.logout(ctx)
	return nil
}

func (a *App) logout(ctx context.Context) {
	user := a.Session().Username
	a.setSession(models.Session{})
	if err := clearStore(a.store); err != nil {
		a.log.Warn("failed to clear session", zap.Error(err))
	}
	a.editing = nil
	a.log.Info("logged out", zap.String("user", user))

	a.refreshUI(ctx)
}
