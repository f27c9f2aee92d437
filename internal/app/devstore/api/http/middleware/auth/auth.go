package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/account"
	"pettrack/internal/app/devstore/api/http/middleware"
)

// Validator проверяет access token
type Validator interface {
	Validate(ctx context.Context, token string) (account.Claims, error)
}

type Auth struct {
	tokens Validator
	log    *slog.Logger
}

func New(tokens Validator, log *slog.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		log:    log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const claimsKey contextKey = "claims"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Middleware пропускает только запросы с действующим access token пользователя
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.abort(ctx, errorBody{Code: "PGRST301", Message: "Authorization header is missing or malformed"})
			return
		}

		claims, err := a.tokens.Validate(ctx.Context(), token)
		if err != nil {
			a.abort(ctx, errorBody{
				Code:    "PGRST301",
				Message: "JWT is invalid or expired",
				Hint:    "Sign in again to obtain a user token.",
			})
			return
		}

		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), claimsKey, claims)))
	}
}

func (a *Auth) abort(ctx huma.Context, body errorBody) {
	a.log.Debug("unauthorized request", slog.String("path", ctx.URL().Path), slog.String("reason", body.Message))
	if err := middleware.Abort(ctx, http.StatusUnauthorized, body); err != nil {
		a.log.Error("json encode", slog.String("error", err.Error()))
	}
}

// ClaimsFrom возвращает claims пользователя, сохраненные мидлварью
func ClaimsFrom(ctx context.Context) (account.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(account.Claims)
	return claims, ok
}

// WithClaims кладет claims в контекст
func WithClaims(ctx context.Context, claims account.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
