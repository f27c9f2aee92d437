package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
	"pettrack/internal/domain/user"
	"pettrack/internal/infrastructure/remote"
)

// UserRepository авторизация через API сервиса авторизации
type UserRepository struct {
	client *remote.Client
	log    *slog.Logger
	now    func() time.Time
}

func NewUserRepository(client *remote.Client, log *slog.Logger) *UserRepository {
	return &UserRepository{
		client: client,
		log:    log.With("component", "user_repository"),
		now:    time.Now,
	}
}

func (r *UserRepository) SignInWithPassword(ctx context.Context, email, password string) (user.Session, error) {
	s, err := r.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return user.Session{}, classify(err, user.ErrInvalidAuth)
	}

	return r.toSession(s), nil
}

func (r *UserRepository) SignUp(ctx context.Context, email, password string) (user.SignUpResult, error) {
	res, err := r.client.SignUp(ctx, email, password)
	if err != nil {
		return user.SignUpResult{}, classify(err, user.ErrInvalidInput)
	}

	out := user.SignUpResult{User: toUser(res.User)}
	if res.Session != nil {
		s := r.toSession(res.Session)
		out.Session = &s
	}

	return out, nil
}

func (r *UserRepository) Refresh(ctx context.Context, refreshToken string) (user.Session, error) {
	s, err := r.client.RefreshSession(ctx, refreshToken)
	if err != nil {
		return user.Session{}, classify(err, user.ErrSessionExpired)
	}

	return r.toSession(s), nil
}

func (r *UserRepository) SignOut(ctx context.Context, accessToken string) error {
	return r.client.SignOut(ctx, accessToken)
}

func (r *UserRepository) toSession(s *remote.Session) user.Session {
	return user.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.Expiry(r.now()),
		User:         toUser(s.User),
	}
}

func toUser(u remote.AuthUser) user.User {
	return user.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// classify помечает клиентские ошибки (4xx) доменной ошибкой kind, сохраняя текст сервиса
func classify(err error, kind error) error {
	var re *remote.Error
	if !errors.As(err, &re) {
		return err
	}
	if re.Status < http.StatusBadRequest || re.Status >= http.StatusInternalServerError {
		return err
	}
	if re.Status == http.StatusTooManyRequests {
		return err
	}

	return &user.DomainError{Err: kind, Message: re.Message, Code: re.Code}
}
