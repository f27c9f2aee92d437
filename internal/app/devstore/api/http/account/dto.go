package account

import "time"

type Credentials struct {
	Email    string `json:"email" doc:"User email"`
	Password string `json:"password" doc:"User password"`
}

type signUpInput struct {
	Body Credentials
}

type signUpOutput struct {
	Body SignUpResponse
}

type tokenInput struct {
	GrantType string       `query:"grant_type" enum:"password,refresh_token" required:"true"`
	Body      TokenRequest
}

// TokenRequest тело запроса токена: email и пароль либо refresh token
type TokenRequest struct {
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenOutput struct {
	Body SessionResponse
}

type logoutInput struct{}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// SignUpResponse сессия или, если нужно подтвердить email, только пользователь
type SignUpResponse struct {
	AccessToken  string        `json:"access_token,omitempty"`
	TokenType    string        `json:"token_type,omitempty"`
	ExpiresIn    int           `json:"expires_in,omitempty"`
	ExpiresAt    int64         `json:"expires_at,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
	ID           string        `json:"id,omitempty"`
	Email        string        `json:"email,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
}

// Error тело ошибки сервиса авторизации
type Error struct {
	Status    int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"msg"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Status
}
