package apikey

import (
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/api/http/middleware"
)

const Header = "apikey"

// APIKey проверяет заголовок apikey. Пустой ключ отключает проверку.
type APIKey struct {
	key string
	log *slog.Logger
}

func New(key string, log *slog.Logger) *APIKey {
	return &APIKey{
		key: key,
		log: log.With(slog.String("component", "apikey_middleware")),
	}
}

type errorBody struct {
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func (a *APIKey) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if a.key == "" {
			next(ctx)
			return
		}

		got := ctx.Header(Header)
		if got == "" {
			a.abort(ctx, errorBody{Message: "No API key found in request", Hint: "No `apikey` request header was found."})
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.key)) != 1 {
			a.abort(ctx, errorBody{Message: "Invalid API key", Hint: "Double check the anon API key."})
			return
		}

		next(ctx)
	}
}

func (a *APIKey) abort(ctx huma.Context, body errorBody) {
	a.log.Debug("request rejected", slog.String("path", ctx.URL().Path), slog.String("reason", body.Message))
	if err := middleware.Abort(ctx, http.StatusUnauthorized, body); err != nil {
		a.log.Error("json encode", slog.String("error", err.Error()))
	}
}
