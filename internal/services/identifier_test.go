package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSuperAdminEmail = "superadmin@uic.edu.ph"

func TestClassifyIdentifier(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		kind      IdentifierKind
		numericID string
	}{
		{"super admin email", "superadmin@uic.edu.ph", KindSuperAdmin, ""},
		{"super admin email mixed case", "SuperAdmin@UIC.edu.ph", KindSuperAdmin, ""},
		{"bare superadmin word", "superadmin", KindSuperAdmin, ""},
		{"plain student number", "1234567", KindStudent, "1234567"},
		{"six digit minimum", "123456", KindStudent, "123456"},
		{"five digits falls through to staff", "12345", KindStaff, ""},
		// The full-email form does not end in digits; it reaches the user
		// by the resolver's email-suffix lookup, not the classifier.
		{"embedded id in full email goes to staff", "jdelacruz_1234567@uic.edu.ph", KindStaff, ""},
		{"embedded id without domain", "jdelacruz_1234567", KindStudent, "1234567"},
		{"embedded id too short", "jdelacruz_12345", KindStaff, ""},
		{"staff email", "mreyes@uic.edu.ph", KindStaff, ""},
		{"staff username", "mreyes", KindStaff, ""},
		{"whitespace is trimmed", "  1234567  ", KindStudent, "1234567"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyIdentifier(tc.raw, testSuperAdminEmail)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.numericID, got.NumericID)
		})
	}
}

func TestClassifyIdentifierFirstMatchWins(t *testing.T) {
	// The super-admin rule beats the numeric rule even if the configured
	// address were all digits.
	got := ClassifyIdentifier("9999999", "9999999")
	assert.Equal(t, KindSuperAdmin, got.Kind)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jdelacruz@uic.edu.ph", NormalizeEmail("JDelaCruz", "uic.edu.ph"))
	assert.Equal(t, "jdelacruz@uic.edu.ph", NormalizeEmail("JDelaCruz@uic.edu.ph", "uic.edu.ph"))
	assert.Equal(t, "1234567@uic.edu.ph", NormalizeEmail("1234567", "uic.edu.ph"))
}
