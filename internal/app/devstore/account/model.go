// Package account учетные записи dev-сервера: регистрация, вход и выпуск токенов
package account

import (
	"errors"
	"time"
)

var (
	ErrUserExists          = errors.New("user already registered")
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrEmailNotConfirmed   = errors.New("email not confirmed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrWeakPassword        = errors.New("password should be at least 6 characters")
	ErrInvalidEmail        = errors.New("unable to validate email address")
	ErrNotFound            = errors.New("user not found")
)

const minPasswordLen = 6

type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	Confirmed    bool
	CreatedAt    time.Time
}

// Tokens выданная пара токенов
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	ExpiresAt    time.Time
	Account      Account
}

// Claims проверенные поля access token
type Claims struct {
	UserID string
	Email  string
}
