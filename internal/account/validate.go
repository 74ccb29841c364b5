package account

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// validateCandidate applies the registration form rules: username and email
// required, email well-formed, password at least MinPasswordLength characters.
func validateCandidate(c Candidate) error {
	if strings.TrimSpace(c.Username) == "" {
		return &ValidationError{Field: "username", Message: "username required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &ValidationError{Field: "email", Message: "email required"}
	}
	if !validEmail(c.Email) {
		return &ValidationError{Field: "email", Message: "invalid email"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "password required"}
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "min 6 chars"}
	}
	return nil
}

// validEmail accepts a bare address; display-name forms are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(addr.Address, "@")
}
