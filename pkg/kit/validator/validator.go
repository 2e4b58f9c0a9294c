package validator

import (
	playground "github.com/go-playground/validator/v10"
)

var validate = playground.New(playground.WithRequiredStructEnabled())

// Verify runs struct-tag validation on a request DTO.
func Verify(v any) error {
	return validate.Struct(v)
}
