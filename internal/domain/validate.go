package domain

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest plaintext password accepted.
const MinPasswordLength = 6

var validate = validator.New()

// FieldError is the result of checking a single field. A nil *FieldError means ok.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects failed field checks.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns field -> message, for response bodies.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Message
	}
	return out
}

// Validate composes per-field results. It returns nil when every check passed.
func Validate(checks ...*FieldError) error {
	var errs ValidationErrors
	for _, c := range checks {
		if c != nil {
			errs = append(errs, *c)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}

// ValidateEmail expects an already normalized address.
func ValidateEmail(email string) *FieldError {
	if email == "" {
		return &FieldError{Field: "email", Message: "is required"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return &FieldError{Field: "email", Message: "is not a valid email"}
	}
	return nil
}

func ValidatePassword(password string) *FieldError {
	if password == "" {
		return &FieldError{Field: "password", Message: "is required"}
	}
	if len(password) < MinPasswordLength {
		return &FieldError{Field: "password", Message: "must be at least 6 characters"}
	}
	return nil
}

// ValidateTodoText expects trimmed text.
func ValidateTodoText(text string) *FieldError {
	if text == "" {
		return &FieldError{Field: "text", Message: "is required"}
	}
	return nil
}
