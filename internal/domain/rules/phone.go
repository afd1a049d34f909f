package rules

import "strings"

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether s is a Sri Lankan phone number in one of
// the accepted forms: 10 digits starting with 0, 11 digits starting
// with 94, or +94 followed by 9 digits.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+94") {
		rest := s[3:]
		return len(rest) == 9 && allDigits(rest)
	}
	if !allDigits(s) {
		return false
	}
	switch len(s) {
	case 10:
		return s[0] == '0'
	case 11:
		return strings.HasPrefix(s, "94")
	}
	return false
}

// NormalizePhone rewrites an accepted Sri Lankan phone number into the
// 10-digit leading-0 form, so "+94771234567", "94771234567" and
// "0771234567" all store identically. Input that ValidPhone rejects is
// returned trimmed but otherwise unchanged.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if !ValidPhone(s) {
		return s
	}
	if strings.HasPrefix(s, "+94") {
		return "0" + s[3:]
	}
	if len(s) == 11 {
		return "0" + s[2:]
	}
	return s
}

// ValidContactPhone reports whether s normalizes to exactly 10 digits.
// Listing contact and WhatsApp numbers use this stricter form.
func ValidContactPhone(s string) bool {
	return len(DigitsOnly(s)) == 10
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
