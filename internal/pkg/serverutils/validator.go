package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"ai-docchat-be/internal/dto"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds failures into a single
// user-facing ValidationError.
func ValidateRequest(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalids validator.ValidationErrors
	if !errors.As(err, &invalids) {
		return dto.NewValidationError("invalid request payload")
	}

	fields := make([]string, 0, len(invalids))
	for _, fe := range invalids {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return dto.NewValidationError("invalid request: " + strings.Join(fields, ", "))
}
