package apikey

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type pingOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func register(api huma.API, mw func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Middlewares: huma.Middlewares{mw},
	}, func(context.Context, *struct{}) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.OK = true
		return out, nil
	})
}

func TestAPIKey_Middleware(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		headers []any
		status  int
	}{
		{name: "matching key", key: "anon", headers: []any{"apikey: anon"}, status: http.StatusOK},
		{name: "missing key", key: "anon", status: http.StatusUnauthorized},
		{name: "wrong key", key: "anon", headers: []any{"apikey: other"}, status: http.StatusUnauthorized},
		{name: "check disabled", key: "", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, api := humatest.New(t)
			register(api, New(tt.key, slog.Default()).Middleware())

			resp := api.Get("/ping", tt.headers...)
			assert.Equal(t, tt.status, resp.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, resp.Body.String(), "API key")
			}
		})
	}
}
