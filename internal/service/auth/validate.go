package auth

import (
	"net/mail"
	"unicode/utf8"
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) orNil() *ValidationError {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func validateRegister(in RegisterInput) *ValidationError {
	verr := newValidationError()
	if n := utf8.RuneCountInString(in.Name); n < 2 {
		verr.add("name", "Name must be at least 2 characters")
	} else if n > 100 {
		verr.add("name", "Name must be at most 100 characters")
	}
	validateEmail(verr, in.Email)
	// Byte length: bcrypt only consumes the first 72 bytes of input.
	if n := len(in.Password); n < 8 {
		verr.add("password", "Password must be at least 8 characters")
	} else if n > 72 {
		verr.add("password", "Password must be at most 72 characters")
	}
	return verr.orNil()
}

func validateLogin(in LoginInput) *ValidationError {
	verr := newValidationError()
	validateEmail(verr, in.Email)
	if len(in.Password) == 0 {
		verr.add("password", "Password is required")
	} else if len(in.Password) > 72 {
		verr.add("password", "Password must be at most 72 characters")
	}
	return verr.orNil()
}

func validateEmail(verr *ValidationError, email string) {
	if !validEmailShape(email) {
		verr.add("email", "Invalid email address")
	}
	if len(email) > 255 {
		verr.add("email", "Email must be at most 255 characters")
	}
}

// validEmailShape accepts only a bare address; ParseAddress alone would
// also accept display-name forms like `Ada <ada@x.com>`.
func validEmailShape(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
