package user

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password, confirm string) (SignUpResult, error)
	Refresh(ctx context.Context, session Session) (Session, error)
	SignOut(ctx context.Context, session Session) error
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

// SignIn проверяет учетные данные и выполняет вход одним запросом
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.validator.ValidateCredentials(creds); err != nil {
		s.log.Debug("validation failed", "email", creds.Email, "error", err)
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	session, err := s.repo.SignInWithPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// SignUp регистрирует пользователя. Пароль и подтверждение должны совпадать.
func (s *Service) SignUp(ctx context.Context, email, password, confirm string) (SignUpResult, error) {
	reg := Registration{Email: strings.TrimSpace(email), Password: password, ConfirmPassword: confirm}
	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.log.Debug("validation failed", "email", reg.Email, "error", err)
		return SignUpResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.repo.SignUp(ctx, reg.Email, reg.Password)
}

// Refresh обменивает refresh token на новую сессию
func (s *Service) Refresh(ctx context.Context, session Session) (Session, error) {
	if session.RefreshToken == "" {
		return Session{}, ErrSessionExpired
	}

	return s.repo.Refresh(ctx, session.RefreshToken)
}

func (s *Service) SignOut(ctx context.Context, session Session) error {
	if session.AccessToken == "" {
		return ErrNotAuthenticated
	}

	return s.repo.SignOut(ctx, session.AccessToken)
}
