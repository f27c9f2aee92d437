package user

import "time"

// expiryMargin запас до истечения токена, после которого сессия считается устаревшей
const expiryMargin = 30 * time.Second

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Session авторизационная сессия, выданная удаленным сервисом
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired сообщает, истек ли access token на момент now
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt.Add(-expiryMargin))
}

// SignUpResult результат регистрации. Session == nil, если аккаунт ждет подтверждения email.
type SignUpResult struct {
	User    User
	Session *Session
}

func (r SignUpResult) NeedsConfirmation() bool {
	return r.Session == nil
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}
