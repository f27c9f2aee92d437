package visit

import (
	"github.com/go-playground/validator/v10"
	"pettrack/internal/utils/validation"
)

var inputMessages = map[string]string{
	"pet_id": "Please select a pet",
	"notes":  "Please enter visit notes",
}

type Validator interface {
	ValidateInput(in Input) error
}

type InputValidator struct {
	v *validator.Validate
}

func NewInputValidator() *InputValidator {
	return &InputValidator{v: validation.New()}
}

func (iv *InputValidator) ValidateInput(in Input) error {
	return validation.Check(iv.v, in.Normalize(), inputMessages)
}
