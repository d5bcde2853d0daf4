package validator

import (
	"fmt"
	"gamehub/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator so callers see domain errors.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateStruct checks s against its struct tags. Failures wrap
// domain.ErrInvalidInput.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
