package remote

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims поля access token, нужные клиенту
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ParseToken читает claims без проверки подписи. Подпись проверяет только сервер.
func ParseToken(token string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("parse token: %w", err)
	}

	var tc TokenClaims
	tc.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	tc.Email, _ = claims["email"].(string)

	return tc, nil
}
