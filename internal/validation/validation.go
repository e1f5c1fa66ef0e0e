package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shashankgaur/task-manager-api/internal/constants"
)

// FieldError reports a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Name trims the candidate and rejects empty values. Returns the
// normalized name.
func Name(name string) (string, *FieldError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &FieldError{Field: "name", Message: "name is required"}
	}
	return name, nil
}

// Email trims and lowercases the candidate, then checks address syntax.
// Returns the normalized email, which is the form stored and matched on.
func Email(email string) (string, *FieldError) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &FieldError{Field: "email", Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &FieldError{Field: "email", Message: "email is invalid"}
	}
	return email, nil
}

// Password trims the candidate and enforces the minimum length and the
// no-"password"-substring rule. Returns the trimmed plaintext, which is
// what gets hashed.
func Password(password string) (string, *FieldError) {
	password = strings.TrimSpace(password)
	if utf8.RuneCountInString(password) < constants.MinPasswordLength {
		return "", &FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength),
		}
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return "", &FieldError{Field: "password", Message: `password cannot contain "password"`}
	}
	return password, nil
}

// Age rejects negative values.
func Age(age int) *FieldError {
	if age < 0 {
		return &FieldError{Field: "age", Message: "age must be a positive number"}
	}
	return nil
}
