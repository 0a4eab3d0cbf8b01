package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"seizure-care-server/internal/validation"
)

// Validate performs validation on a struct with the shared rule set.
func Validate(s interface{}) error {
	return validation.Validator().Struct(s)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Tag() == "required" {
			messages = append(messages, fmt.Sprintf("Field '%s' is required", e.Field()))
			continue
		}
		messages = append(messages, fmt.Sprintf("Field '%s' failed the '%s' rule", e.Field(), e.Tag()))
	}
	return strings.Join(messages, ", ")
}

// BindAndValidate binds the request body to a struct and validates it.
// If either step fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if !BindJSON(c, obj) {
		return false
	}
	if err := Validate(obj); err != nil {
		code := "invalid_input"
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && errs[0].Tag() == "required" {
			code = "missing_field"
		}
		BadRequest(c, code, FormatValidationError(err))
		return false
	}
	return true
}

// BindJSON decodes the request body into obj. An absent, empty or malformed
// body is answered with 400 invalid_input.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "invalid_input", "Request body must be valid JSON")
		return false
	}
	return true
}
