package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const authPrefix = "/auth/v1"

type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session ответ сервиса авторизации с токенами
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// Expiry вычисляет момент истечения access token
func (s *Session) Expiry(now time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if claims, err := ParseToken(s.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		return claims.ExpiresAt
	}
	if s.ExpiresIn > 0 {
		return now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// SignUpResponse результат регистрации. Session == nil, если нужно подтвердить email.
type SignUpResponse struct {
	Session *Session
	User    AuthUser
}

type passwordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignInWithPassword выполняет вход по email и паролю
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   passwordRequest{Email: email, Password: password},
		bearer: c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := c.parseResponse(resp, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SignUp регистрирует пользователя
func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResponse, error) {
	resp, err := c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/signup",
		body:   passwordRequest{Email: email, Password: password},
		bearer: c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	// ответ либо сессия, либо сам пользователь, если требуется подтверждение
	var payload struct {
		Session
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := c.parseResponse(resp, &payload); err != nil {
		return nil, err
	}

	if payload.AccessToken != "" {
		session := payload.Session
		return &SignUpResponse{Session: &session, User: session.User}, nil
	}

	user := payload.Session.User
	if user.ID == "" {
		user = AuthUser{ID: payload.ID, Email: payload.Email, CreatedAt: payload.CreatedAt}
	}

	return &SignUpResponse{User: user}, nil
}

// RefreshSession обменивает refresh token на новую сессию
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   refreshRequest{RefreshToken: refreshToken},
		bearer: c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := c.parseResponse(resp, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SignOut отзывает сессию на стороне сервиса
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/logout",
		bearer: accessToken,
	})
	if err != nil {
		return err
	}

	return c.parseResponse(resp, nil)
}
