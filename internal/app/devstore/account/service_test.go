package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"pettrack/internal/infrastructure/remote"
)

func newTestService(confirm bool) (*Service, *time.Time) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewService(NewMemoryRepository(), Options{
		Secret:              "test-secret",
		AccessTTL:           time.Hour,
		RefreshTTL:          24 * time.Hour,
		BcryptCost:          bcrypt.MinCost,
		RequireConfirmation: confirm,
	}, slog.Default())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "Ann@Example.com", password: "secret1"},
		{name: "bad email", email: "not-an-email", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "short password", email: "ann@example.com", password: "123", wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(false)

			acc, tokens, err := s.SignUp(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ann@example.com", acc.Email)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.Equal(t, 3600, tokens.ExpiresIn)
		})
	}
}

func TestService_SignUpDuplicate(t *testing.T) {
	s, _ := newTestService(false)
	ctx := context.Background()

	_, _, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.SignUp(ctx, "ANN@example.com", "secret2")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_ConfirmationFlow(t *testing.T) {
	s, _ := newTestService(true)
	ctx := context.Background()

	acc, tokens, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, tokens)
	assert.False(t, acc.Confirmed)

	_, err = s.SignIn(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	require.NoError(t, s.Confirm(ctx, "ann@example.com"))

	_, err = s.SignIn(ctx, "ann@example.com", "secret1")
	assert.NoError(t, err)
}

func TestService_SignIn(t *testing.T) {
	s, _ := newTestService(false)
	ctx := context.Background()

	_, _, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.SignIn(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := s.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	claims, err := s.Validate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.Account.ID, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)

	// клиент читает те же claims без проверки подписи
	parsed, err := remote.ParseToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.Account.ID, parsed.Subject)
	assert.Equal(t, tokens.ExpiresAt.Unix(), parsed.ExpiresAt.Unix())
}

func TestService_Validate(t *testing.T) {
	s, now := newTestService(false)
	ctx := context.Background()

	_, tokens, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	other, _ := newTestService(false)
	other.opts.Secret = "another-secret"
	_, err = other.Validate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Validate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	*now = now.Add(2 * time.Hour)
	_, err = s.Validate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RefreshRotates(t *testing.T) {
	s, now := newTestService(false)
	ctx := context.Background()

	_, tokens, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	next, err := s.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	_, err = s.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	*now = now.Add(48 * time.Hour)
	_, err = s.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_SignOutRevokesRefresh(t *testing.T) {
	s, _ := newTestService(false)
	ctx := context.Background()

	acc, tokens, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx, acc.ID))

	_, err = s.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
