package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"pettrack/internal/utils/validation"
)

var credentialMessages = map[string]string{
	"email":            "Please enter a valid email",
	"password":         "Please enter your password",
	"confirm_password": "Passwords do not match",
}

var registrationMessages = map[string]string{
	"email":            "Please enter a valid email",
	"password":         "Password must be at least 6 characters",
	"confirm_password": "Passwords do not match",
}

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateCredentials(c Credentials) error
	ValidateRegistration(r Registration) error
}

type CredentialsValidator struct {
	v *validator.Validate
}

// NewCredentialsValidator создает новый валидатор
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{v: validation.New()}
}

// ValidateCredentials валидирует данные для входа
func (cv *CredentialsValidator) ValidateCredentials(c Credentials) error {
	c.Email = strings.TrimSpace(c.Email)
	return validation.Check(cv.v, c, credentialMessages)
}

// ValidateRegistration валидирует данные для регистрации
func (cv *CredentialsValidator) ValidateRegistration(r Registration) error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.Check(cv.v, r, registrationMessages)
}
