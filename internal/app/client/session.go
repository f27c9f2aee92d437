package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"pettrack/internal/app/client/state"
	"pettrack/internal/domain/user"
	"pettrack/internal/infrastructure/kv"
)

// Restore поднимает сессию из локального хранилища. Истекшая сессия обновляется по refresh token.
// Возвращает false, если сохраненной сессии нет.
func (a *App) Restore(ctx context.Context) (bool, error) {
	raw, err := a.kv.Get(ctx, sessionKey)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		a.log.Warn("stored session can not be decrypted, dropping it")
		_ = a.kv.Delete(ctx, sessionKey)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	var session user.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		a.log.Warn("stored session is corrupted, dropping it", slog.String("error", err.Error()))
		_ = a.kv.Delete(ctx, sessionKey)
		return false, nil
	}

	if session.Expired(a.now()) {
		a.log.Debug("stored session expired, refreshing")
		refreshed, err := a.users.Refresh(ctx, session)
		if err != nil {
			a.log.Warn("session refresh failed", slog.String("error", err.Error()))
			_ = a.kv.Delete(ctx, sessionKey)
			return false, fmt.Errorf("%w: %w", user.ErrSessionExpired, err)
		}
		session = refreshed
	}

	if err := a.applySession(ctx, session, state.Login{Session: session}); err != nil {
		return false, err
	}
	return true, nil
}

// SignIn входит по email и паролю
func (a *App) SignIn(ctx context.Context, email, password string) (user.Session, error) {
	session, err := a.users.SignIn(ctx, email, password)
	if err != nil {
		return user.Session{}, err
	}

	if err := a.applySession(ctx, session, state.Login{Session: session}); err != nil {
		return user.Session{}, err
	}

	a.log.Info("signed in", slog.String("user_id", session.User.ID))
	return session, nil
}

// SignUp регистрирует пользователя. Если сервис сразу выдал сессию, пользователь считается вошедшим.
func (a *App) SignUp(ctx context.Context, email, password, confirm string) (user.SignUpResult, error) {
	res, err := a.users.SignUp(ctx, email, password, confirm)
	if err != nil {
		return user.SignUpResult{}, err
	}

	if res.NeedsConfirmation() {
		a.log.Info("signed up, email confirmation required", slog.String("user_id", res.User.ID))
		return res, nil
	}

	if err := a.applySession(ctx, *res.Session, state.SignedUp{Session: *res.Session}); err != nil {
		return user.SignUpResult{}, err
	}

	a.log.Info("signed up", slog.String("user_id", res.User.ID))
	return res, nil
}

// SignOut завершает сессию. Локальное состояние очищается даже при ошибке удаленного выхода.
func (a *App) SignOut(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	var remoteErr error
	if session != nil {
		remoteErr = a.users.SignOut(ctx, *session)
		if remoteErr != nil {
			a.log.Warn("remote sign out failed", slog.String("error", remoteErr.Error()))
		}
	}

	a.remote.SetToken("")
	a.store.Dispatch(state.Logout{})
	a.store.Dispatch(state.ClearPets{})

	if err := a.kv.Delete(ctx, sessionKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}

	if session == nil {
		return user.ErrNotAuthenticated
	}
	return remoteErr
}

// CurrentUser текущий пользователь из хранилища состояния
func (a *App) CurrentUser() (user.User, bool) {
	s := a.store.State().User
	if !s.LoggedIn || s.User == nil {
		return user.User{}, false
	}
	return *s.User, true
}

// Session текущая сессия
func (a *App) Session() (user.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return user.Session{}, false
	}
	return *a.session, true
}

func (a *App) applySession(ctx context.Context, session user.Session, action state.Action) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}
	if err := a.kv.Set(ctx, sessionKey, raw); err != nil {
		return fmt.Errorf("ошибка сохранения сессии: %w", err)
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	a.remote.SetToken(session.AccessToken)
	a.store.Dispatch(action)
	return nil
}

func (a *App) requireUser() (user.User, error) {
	u, ok := a.CurrentUser()
	if !ok {
		return user.User{}, user.ErrNotAuthenticated
	}
	return u, nil
}
