package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "owner@example.com", "password": "secret"}, body)

		_, _ = io.WriteString(w, `{
			"access_token":"access","token_type":"bearer","expires_in":3600,"expires_at":1700000000,
			"refresh_token":"refresh","user":{"id":"u-1","email":"owner@example.com","created_at":"2024-01-01T00:00:00Z"}
		}`)
	})

	session, err := c.SignInWithPassword(context.Background(), "owner@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, "u-1", session.User.ID)
	assert.Equal(t, time.Unix(1700000000, 0), session.Expiry(time.Now()))
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})

	_, err := c.SignInWithPassword(context.Background(), "owner@example.com", "wrong")
	assert.EqualError(t, err, "Invalid login credentials")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		withSession bool
	}{
		{
			name:        "autoconfirm returns session",
			body:        `{"access_token":"access","refresh_token":"refresh","expires_in":3600,"user":{"id":"u-1","email":"owner@example.com"}}`,
			withSession: true,
		},
		{
			name: "confirmation returns user",
			body: `{"id":"u-1","email":"owner@example.com","created_at":"2024-01-01T00:00:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/auth/v1/signup", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			})

			res, err := c.SignUp(context.Background(), "owner@example.com", "secret1")
			require.NoError(t, err)
			assert.Equal(t, "u-1", res.User.ID)
			assert.Equal(t, "owner@example.com", res.User.Email)
			assert.Equal(t, tt.withSession, res.Session != nil)
		})
	}
}

func TestRefreshSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "old-refresh", body["refresh_token"])

		_, _ = io.WriteString(w, `{"access_token":"new","refresh_token":"new-refresh","expires_in":60,"user":{"id":"u-1"}}`)
	})

	session, err := c.RefreshSession(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new", session.AccessToken)
	assert.Equal(t, "new-refresh", session.RefreshToken)
}

func TestSignOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-access", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SignOut(context.Background(), "user-access"))
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, "u-1", "owner@example.com", exp)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.True(t, exp.Equal(claims.ExpiresAt))

	_, err = ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestSession_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(2 * time.Hour).Truncate(time.Second)

	fromToken := Session{AccessToken: signedToken(t, "u-1", "", exp)}
	assert.True(t, exp.Equal(fromToken.Expiry(now)))

	fromExpiresIn := Session{AccessToken: "opaque", ExpiresIn: 60}
	assert.Equal(t, now.Add(time.Minute), fromExpiresIn.Expiry(now))

	assert.True(t, (&Session{AccessToken: "opaque"}).Expiry(now).IsZero())
}
