package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, APIKey: "anon-key"}, slog.Default())
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:54321", "ftp://host", "http://"} {
		_, err := New(Options{BaseURL: base}, slog.Default())
		assert.ErrorIs(t, err, ErrInvalidBaseURL, base)
	}
}

func TestQuery_Select(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/pets", r.URL.Path)
		assert.Equal(t, "*,pet:pets(*)", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.owner-1", r.URL.Query().Get("owner_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Prefer"))

		_, _ = io.WriteString(w, `[{"id":"p-2","name":"Tom"},{"id":"p-1","name":"Rex"}]`)
	})

	var rows []row
	err := c.From("pets").Select("*,pet:pets(*)").Eq("owner_id", "owner-1").Order("created_at", false).Execute(context.Background(), &rows)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "p-2", Name: "Tom"}, {ID: "p-1", Name: "Rex"}}, rows)
}

func TestQuery_UsesAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		_, _ = io.WriteString(w, `[]`)
	})

	c.SetToken("user-token")
	assert.Equal(t, "user-token", c.Token())

	var rows []row
	require.NoError(t, c.From("pets").Select("*").Execute(context.Background(), &rows))
	assert.Empty(t, rows)
}

func TestQuery_Single(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "exactly one row", body: `[{"id":"p-1","name":"Rex"}]`},
		{name: "no rows", body: `[]`, wantErr: true},
		{name: "two rows", body: `[{"id":"a"},{"id":"b"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			var got row
			err := c.From("pets").Select("*").Eq("id", "p-1").Single().Execute(context.Background(), &got)
			if tt.wantErr {
				assert.True(t, IsNoRows(err))
				assert.Equal(t, http.StatusNotAcceptable, StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, row{ID: "p-1", Name: "Rex"}, got)
		})
	}
}

func TestQuery_Mutations(t *testing.T) {
	tests := []struct {
		name   string
		method string
		build  func(c *Client) *Query
		body   string
	}{
		{
			name:   "insert",
			method: http.MethodPost,
			build:  func(c *Client) *Query { return c.From("pets").Insert(row{ID: "p-1", Name: "Rex"}).Select("*") },
			body:   `{"id":"p-1","name":"Rex"}`,
		},
		{
			name:   "update",
			method: http.MethodPatch,
			build:  func(c *Client) *Query { return c.From("pets").Update(map[string]any{"name": "Max"}).Eq("id", "p-1") },
			body:   `{"name":"Max"}`,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			build:  func(c *Client) *Query { return c.From("pets").Delete().Eq("id", "p-1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

				body, _ := io.ReadAll(r.Body)
				if tt.body != "" {
					assert.JSONEq(t, tt.body, string(body))
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				} else {
					assert.Empty(t, body)
				}

				_, _ = io.WriteString(w, `[{"id":"p-1","name":"Rex"}]`)
			})

			var rows []row
			require.NoError(t, tt.build(c).Execute(context.Background(), &rows))
			assert.Len(t, rows, 1)
		})
	}
}

func TestQuery_UnfilteredMutation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})

	assert.ErrorIs(t, c.From("pets").Delete().Execute(context.Background(), nil), ErrUnfilteredMutation)
	assert.ErrorIs(t, c.From("pets").Update(map[string]any{"a": 1}).Execute(context.Background(), nil), ErrUnfilteredMutation)
}

func TestQuery_RemoteErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected Error
	}{
		{
			name:   "postgrest error",
			status: http.StatusConflict,
			body:   `{"code":"23505","message":"duplicate key value violates unique constraint","details":"Key (id) already exists.","hint":null}`,
			expected: Error{
				Status:  http.StatusConflict,
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
				Details: "Key (id) already exists.",
			},
		},
		{
			name:   "auth error",
			status: http.StatusBadRequest,
			body:   `{"error":"invalid_grant","error_description":"Invalid login credentials"}`,
			expected: Error{
				Status:  http.StatusBadRequest,
				Code:    "invalid_grant",
				Message: "Invalid login credentials",
			},
		},
		{
			name:   "auth error with numeric code",
			status: http.StatusBadRequest,
			body:   `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`,
			expected: Error{
				Status:  http.StatusBadRequest,
				Code:    "invalid_credentials",
				Message: "Invalid login credentials",
			},
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			body:   "upstream down",
			expected: Error{
				Status:  http.StatusBadGateway,
				Message: "upstream down",
			},
		},
		{
			name:   "empty body",
			status: http.StatusServiceUnavailable,
			expected: Error{
				Status:  http.StatusServiceUnavailable,
				Message: "Service Unavailable",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.From("pets").Select("*").Execute(context.Background(), nil)

			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.expected, *re)
			assert.Equal(t, tt.expected.Message, err.Error())
		})
	}
}

func TestQuery_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	})

	var rows []row
	err := c.From("pets").Select("*").Execute(context.Background(), &rows)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestQuery_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.From("pets").Select("*").Execute(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseResponse_RawMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"a":1}`)
	})

	resp, err := c.doRequest(context.Background(), request{method: http.MethodGet, path: "/x"})
	require.NoError(t, err)

	var raw json.RawMessage
	require.NoError(t, c.parseResponse(resp, &raw))
	assert.JSONEq(t, `{"a":1}`, string(raw))
}
