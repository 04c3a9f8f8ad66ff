package models

import (
	"unicode"
	"unicode/utf8"
)

// ============================================================================
// Password Policy
//
// The challenge API accepts passwords that satisfy six static rules. The
// rules are evaluated independently and in a fixed order so the form can
// list every violation at once, not just the first one.
// ============================================================================

// Password length bounds, counted in characters (runes).
const (
	PasswordMinLength = 10
	PasswordMaxLength = 24
)

// Messages shown to the user, one per rule.
const (
	MsgPasswordTooShort  = "Password must be at least 10 characters long"
	MsgPasswordTooLong   = "Password must be at most 24 characters long"
	MsgPasswordHasSpaces = "Password cannot contain spaces"
	MsgPasswordNoNumber  = "Password must contain at least one number"
	MsgPasswordNoUpper   = "Password must contain at least one uppercase letter"
	MsgPasswordNoLower   = "Password must contain at least one lowercase letter"
)

// ValidationRule pairs a predicate over a password with the message shown
// when the predicate reports a violation.
type ValidationRule struct {
	Message  string
	Violated func(pwd string) bool
}

// PasswordRules is the ordered rule set. It is configuration, not state.
var PasswordRules = []ValidationRule{
	{Message: MsgPasswordTooShort, Violated: func(pwd string) bool {
		return utf8.RuneCountInString(pwd) < PasswordMinLength
	}},
	{Message: MsgPasswordTooLong, Violated: func(pwd string) bool {
		return utf8.RuneCountInString(pwd) > PasswordMaxLength
	}},
	{Message: MsgPasswordHasSpaces, Violated: func(pwd string) bool {
		return containsRune(pwd, isRegexpSpace)
	}},
	{Message: MsgPasswordNoNumber, Violated: func(pwd string) bool {
		return !containsRune(pwd, isASCIIDigit)
	}},
	{Message: MsgPasswordNoUpper, Violated: func(pwd string) bool {
		return !containsRune(pwd, isASCIIUpper)
	}},
	{Message: MsgPasswordNoLower, Violated: func(pwd string) bool {
		return !containsRune(pwd, isASCIILower)
	}},
}

// ValidatePassword returns the messages of every rule the password violates,
// in rule order. A nil result means the password is policy-valid.
func ValidatePassword(pwd string) []string {
	var violations []string
	for _, rule := range PasswordRules {
		if rule.Violated(pwd) {
			violations = append(violations, rule.Message)
		}
	}
	return violations
}

// IsPolicyValid reports whether the password satisfies every rule.
func IsPolicyValid(pwd string) bool {
	return len(ValidatePassword(pwd)) == 0
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}

// isRegexpSpace matches the browser regex class \s: the Zs category plus
// tab, the line terminators, VT, FF and the byte order mark. U+0085 is not
// included.
func isRegexpSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// Character classes match the browser regex classes \d, [A-Z] and [a-z],
// which are ASCII-only.
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
