package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("bool_string", validateBoolString); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateBoolString accepts "true" or "false" in any case.
func validateBoolString(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	return value == "true" || value == "false"
}
