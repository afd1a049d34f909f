package rules

import (
	"errors"
	"testing"
)

func TestFieldErrorsMatchSentinel(t *testing.T) {
	err := ValidateRegisterPassword("short")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation sentinel match, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Ru"); err != nil {
		t.Fatalf("expected two-character name to pass: %v", err)
	}
	if err := ValidateName(" a "); err == nil {
		t.Fatal("expected trimmed single-character name to fail")
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("seller@example.com"); err != nil {
		t.Fatalf("expected valid email to pass: %v", err)
	}
	for _, email := range []string{"", "seller", "seller@example", "seller example@x.com"} {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("expected %q to fail", email)
		}
	}
}

func TestValidateRegisterPassword(t *testing.T) {
	if err := ValidateRegisterPassword("abcde"); err == nil {
		t.Fatal("expected five-character password to fail")
	} else if err.Error() != "Password must be at least 6 characters" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err := ValidateRegisterPassword("abcdef"); err != nil {
		t.Fatalf("expected six-character password to pass: %v", err)
	}
}

func TestValidateResetPassword(t *testing.T) {
	if err := ValidateResetPassword("abcdefg"); err == nil {
		t.Fatal("expected seven-character password to fail")
	}
	if err := ValidateResetPassword("abcdefgh"); err != nil {
		t.Fatalf("expected eight-character password to pass: %v", err)
	}
}

func TestValidatePasswordMatch(t *testing.T) {
	if err := ValidatePasswordMatch("secret1", "secret1"); err != nil {
		t.Fatalf("expected matching passwords to pass: %v", err)
	}
	if err := ValidatePasswordMatch("secret1", "secret2"); err == nil {
		t.Fatal("expected mismatched passwords to fail")
	}
}

func TestValidateResetCode(t *testing.T) {
	if err := ValidateResetCode("123456"); err != nil {
		t.Fatalf("expected six-digit code to pass: %v", err)
	}
	for _, code := range []string{"12345", "1234567", "12345a", ""} {
		if err := ValidateResetCode(code); err == nil {
			t.Fatalf("expected %q to fail", code)
		}
	}
}
