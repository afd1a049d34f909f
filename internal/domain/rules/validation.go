package rules

import (
	"errors"
	"regexp"
	"strings"
)

const (
	MinRegisterPasswordLen = 6
	MinResetPasswordLen    = 8
	ResetCodeLen           = 6
)

// ErrValidation matches every field validation failure via errors.Is.
// The error text itself is the user-facing message.
var ErrValidation = errors.New("validation error")

type fieldError struct {
	msg string
}

func (e fieldError) Error() string { return e.msg }

func (e fieldError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a validation failure with a user-facing message.
func Invalid(msg string) error { return fieldError{msg: msg} }

func invalid(msg string) error { return Invalid(msg) }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return invalid("Name must be at least 2 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return invalid("Please enter a valid email address")
	}
	return nil
}

func ValidateUserPhone(phone string) error {
	if !ValidPhone(phone) {
		return invalid("Please enter a valid Sri Lankan phone number")
	}
	return nil
}

func ValidateRegisterPassword(password string) error {
	if len(password) < MinRegisterPasswordLen {
		return invalid("Password must be at least 6 characters")
	}
	return nil
}

func ValidateResetPassword(password string) error {
	if len(password) < MinResetPasswordLen {
		return invalid("Password must be at least 8 characters")
	}
	return nil
}

func ValidatePasswordMatch(password, confirm string) error {
	if password != confirm {
		return invalid("Passwords do not match")
	}
	return nil
}

func ValidateResetCode(code string) error {
	if len(code) != ResetCodeLen || !allDigits(code) {
		return invalid("Verification code must be 6 digits")
	}
	return nil
}

func ValidateContactPhone(phone string) error {
	if !ValidContactPhone(phone) {
		return invalid("Contact number must be exactly 10 digits")
	}
	return nil
}

func ValidateWhatsappPhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !ValidContactPhone(phone) {
		return invalid("WhatsApp number must be exactly 10 digits")
	}
	return nil
}
