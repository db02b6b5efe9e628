package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Validator checks bound request bodies with go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *Validator) Validate(out any) error {
	return v.validate.Struct(out)
}

// Bind decodes the request body into out and validates it.
func (v *Validator) Bind(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return err
	}
	return v.Validate(out)
}

// ValidationDetails flattens validator errors into "field: tag" strings.
func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return out
}

// BadRequest answers 400 with validation details when err carries them.
func BadRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(NewError("BAD_REQUEST", "invalid request", ValidationDetails(err)...))
}
