package models

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestValidatePassword checks the ordered violation list for each rule.
func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"policy valid", "GoodPassw0rd", nil},
		{"exactly 10 chars", "Abcdefgh12", nil},
		{"exactly 24 chars", "Abcdefghijklmnopqrstuv12", nil},
		{"short", "short", []string{MsgPasswordTooShort, MsgPasswordNoNumber, MsgPasswordNoUpper}},
		{"all lowercase with digit", "alllowercase1", []string{MsgPasswordNoUpper}},
		{"all uppercase with digit", "ALLUPPERCASE1", []string{MsgPasswordNoLower}},
		{"no digit", "NoDigitsHereAtAll", []string{MsgPasswordNoNumber}},
		{"too long", "Abcdefghijklmnopqrstuvw12", []string{MsgPasswordTooLong}},
		{"contains space", "Has Space 123", []string{MsgPasswordHasSpaces}},
		{"contains tab", "Has\tTab12345", []string{MsgPasswordHasSpaces}},
		{"contains byte order mark", "Has\ufeffBom12345", []string{MsgPasswordHasSpaces}},
		{"contains no-break space", "Has\u00a0Nbsp1234", []string{MsgPasswordHasSpaces}},
		{"contains ideographic space", "Has\u3000Wide1234", []string{MsgPasswordHasSpaces}},
		{"next line is not whitespace", "Has\u0085Nel12345", nil},
		{"empty", "", []string{MsgPasswordTooShort, MsgPasswordNoNumber, MsgPasswordNoUpper, MsgPasswordNoLower}},
		{"only spaces", "            ", []string{MsgPasswordHasSpaces, MsgPasswordNoNumber, MsgPasswordNoUpper, MsgPasswordNoLower}},
		{"non-ascii letters do not count", "ÄÖÜäöüßéèê12", []string{MsgPasswordNoUpper, MsgPasswordNoLower}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePassword(tt.password)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValidatePassword(%q) mismatch (-want +got):\n%s", tt.password, diff)
			}
		})
	}
}

// TestValidatePasswordShortExcludesUpperBound pins the "short" example:
// the lower-bound message appears and the upper-bound one does not.
func TestValidatePasswordShortExcludesUpperBound(t *testing.T) {
	got := strings.Join(ValidatePassword("short"), "\n")

	if !strings.Contains(got, "at least 10 characters") {
		t.Errorf("expected the minimum length message, got %q", got)
	}
	if strings.Contains(got, "at most 24 characters") {
		t.Errorf("did not expect the maximum length message, got %q", got)
	}
}

// TestValidatePasswordLengthCountsRunes makes sure multi-byte characters
// count once toward the length bounds.
func TestValidatePasswordLengthCountsRunes(t *testing.T) {
	// 10 runes, more than 10 bytes
	pwd := "Aa1€€€€€€€"
	for _, msg := range ValidatePassword(pwd) {
		if msg == MsgPasswordTooShort || msg == MsgPasswordTooLong {
			t.Errorf("ValidatePassword(%q) reported a length violation: %s", pwd, msg)
		}
	}
}

// TestValidPasswordsHaveNoViolations sweeps every allowed length.
func TestValidPasswordsHaveNoViolations(t *testing.T) {
	for n := PasswordMinLength; n <= PasswordMaxLength; n++ {
		pwd := "Aa1" + strings.Repeat("x", n-3)
		if errs := ValidatePassword(pwd); len(errs) != 0 {
			t.Errorf("len %d: expected no violations, got %v", n, errs)
		}
		if !IsPolicyValid(pwd) {
			t.Errorf("len %d: IsPolicyValid returned false", n)
		}
	}
}

// TestValidatePasswordIsPure calls the validator twice and expects
// identical output.
func TestValidatePasswordIsPure(t *testing.T) {
	first := ValidatePassword("abc")
	second := ValidatePassword("abc")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated validation differed:\n%s", diff)
	}
}
