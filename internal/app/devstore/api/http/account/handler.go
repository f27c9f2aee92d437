// Package account API сервиса авторизации dev-сервера
package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	domain "pettrack/internal/app/devstore/account"
	"pettrack/internal/app/devstore/api/http/middleware/auth"
)

const (
	grantPassword = "password"
	grantRefresh  = "refresh_token"
)

// Servicer операции учетных записей
type Servicer interface {
	SignUp(ctx context.Context, email, password string) (domain.Account, *domain.Tokens, error)
	SignIn(ctx context.Context, email, password string) (domain.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error)
	SignOut(ctx context.Context, userID string) error
}

type Handler struct {
	service Servicer
	log     *slog.Logger
	public  huma.Middlewares
	private huma.Middlewares
}

// NewHandler public применяется к signup и token, private к logout
func NewHandler(service Servicer, log *slog.Logger, public, private huma.Middlewares) *Handler {
	return &Handler{
		service: service,
		log:     log.With(slog.String("component", "account_handler")),
		public:  public,
		private: private,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.signUpOp(), h.signUp)
	huma.Register(api, h.tokenOp(), h.token)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) signUp(ctx context.Context, input *signUpInput) (*signUpOutput, error) {
	acc, tokens, err := h.service.SignUp(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, h.fail(err)
	}

	if tokens == nil {
		created := acc.CreatedAt
		return &signUpOutput{Body: SignUpResponse{
			ID:        acc.ID,
			Email:     acc.Email,
			CreatedAt: &created,
		}}, nil
	}

	s := session(*tokens)
	return &signUpOutput{Body: SignUpResponse{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
		User:         &s.User,
	}}, nil
}

func (h *Handler) token(ctx context.Context, input *tokenInput) (*tokenOutput, error) {
	var (
		tokens domain.Tokens
		err    error
	)

	switch input.GrantType {
	case grantPassword:
		tokens, err = h.service.SignIn(ctx, input.Body.Email, input.Body.Password)
	case grantRefresh:
		tokens, err = h.service.Refresh(ctx, input.Body.RefreshToken)
	default:
		return nil, &Error{
			Status:    http.StatusBadRequest,
			ErrorCode: "unsupported_grant_type",
			Message:   "unsupported grant_type " + input.GrantType,
		}
	}
	if err != nil {
		return nil, h.fail(err)
	}

	return &tokenOutput{Body: session(tokens)}, nil
}

func (h *Handler) logout(ctx context.Context, _ *logoutInput) (*struct{}, error) {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return nil, &Error{Status: http.StatusUnauthorized, ErrorCode: "no_authorization", Message: "This endpoint requires a Bearer token"}
	}

	if err := h.service.SignOut(ctx, claims.UserID); err != nil {
		return nil, h.fail(err)
	}

	return nil, nil
}

func (h *Handler) fail(err error) error {
	e := &Error{Message: err.Error()}

	switch {
	case errors.Is(err, domain.ErrUserExists):
		e.Status, e.ErrorCode = http.StatusUnprocessableEntity, "user_already_exists"
	case errors.Is(err, domain.ErrWeakPassword):
		e.Status, e.ErrorCode = http.StatusUnprocessableEntity, "weak_password"
	case errors.Is(err, domain.ErrInvalidCredentials):
		e.Status, e.ErrorCode = http.StatusBadRequest, "invalid_credentials"
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		e.Status, e.ErrorCode = http.StatusBadRequest, "email_not_confirmed"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		e.Status, e.ErrorCode = http.StatusBadRequest, "refresh_token_not_found"
	case errors.Is(err, domain.ErrInvalidEmail):
		e.Status, e.ErrorCode = http.StatusBadRequest, "validation_failed"
	default:
		h.log.Error("auth operation failed", slog.String("error", err.Error()))
		e.Status, e.ErrorCode = http.StatusInternalServerError, "unexpected_failure"
		e.Message = "Internal server error"
	}

	return e
}

func session(t domain.Tokens) SessionResponse {
	return SessionResponse{
		AccessToken:  t.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    t.ExpiresIn,
		ExpiresAt:    t.ExpiresAt.Unix(),
		RefreshToken: t.RefreshToken,
		User: UserResponse{
			ID:        t.Account.ID,
			Email:     t.Account.Email,
			Role:      "authenticated",
			CreatedAt: t.Account.CreatedAt,
		},
	}
}
