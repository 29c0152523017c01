package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidationError carries per-field failures so the error middleware can
// answer 400 with something actionable.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ValidateRequest checks struct tags on an already-bound request body.
func ValidateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: []string{err.Error()}}
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}

// ParseAndValidate binds the request body into out and validates it.
func ParseAndValidate(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return &ValidationError{Fields: []string{"body could not be parsed"}}
	}
	return ValidateRequest(out)
}
