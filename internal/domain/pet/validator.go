package pet

import (
	"github.com/go-playground/validator/v10"
	"pettrack/internal/utils/validation"
)

var formMessages = map[string]string{
	"name":        "Pet name must be at least 2 characters",
	"selectValue": "Please select a species",
	"species":     "Please select a species",
	"breed":       "Breed must be at least 2 characters",
	"age":         "Age must be a positive number",
	"pet_Image":   "Please enter a valid image URL",
}

type Validator interface {
	ValidateForm(f Form) error
}

type FormValidator struct {
	v *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{v: validation.New()}
}

// ValidateForm возвращает FormErrors с сообщением для каждого невалидного поля
func (fv *FormValidator) ValidateForm(f Form) error {
	return validation.Check(fv.v, f.Normalize(), formMessages)
}
