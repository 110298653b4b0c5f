package validation

import (
	"regexp"
	"strings"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var usernamePattern = regexp.MustCompile(`^\w+$`)

// RegisterUserRequest mirrors the fields needed for user registration validation.
type RegisterUserRequest struct {
	Username string
	Email    string
}

// ValidateRegisterUserRequest validates the fields of a registration request.
// Usernames are restricted to word characters so every username is mentionable
// as an @username token.
func ValidateRegisterUserRequest(req RegisterUserRequest) []FieldError {
	var errs []FieldError

	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else if len(req.Username) > 150 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at most 150 characters"})
	} else if !usernamePattern.MatchString(req.Username) {
		errs = append(errs, FieldError{Field: "username", Message: "username may contain only letters, digits and underscores"})
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	return errs
}
