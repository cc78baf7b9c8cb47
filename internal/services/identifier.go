package services

import (
	"regexp"
	"strings"
)

type IdentifierKind int

const (
	KindSuperAdmin IdentifierKind = iota
	KindStudent
	KindStaff
)

func (k IdentifierKind) String() string {
	switch k {
	case KindSuperAdmin:
		return "super_admin"
	case KindStudent:
		return "student"
	default:
		return "staff"
	}
}

// ClassifiedIdentifier is the result of the login-identifier heuristics.
// NumericID is populated only for the student kind.
type ClassifiedIdentifier struct {
	Raw       string
	Kind      IdentifierKind
	NumericID string
}

var (
	numericIDRe  = regexp.MustCompile(`^[0-9]{6,}$`)
	embeddedIDRe = regexp.MustCompile(`_(\d{6,})$`)
)

// ClassifyIdentifier maps a raw login identifier to a path through the
// login flow. First match wins:
//  1. the super-admin address (or the bare word "superadmin"),
//  2. an all-digit student id of 6+ digits,
//  3. a trailing "_<6+ digits>" suffix (covers "firstname_1234567" local
//     parts), taking the digits,
//  4. anything else is a staff/coordinator identifier.
//
// Rule 3 can capture digits out of malformed input; the extracted id is
// not verified against the legacy system before use.
func ClassifyIdentifier(raw, superAdminEmail string) ClassifiedIdentifier {
	trimmed := strings.TrimSpace(raw)
	lowered := strings.ToLower(trimmed)

	if lowered == strings.ToLower(superAdminEmail) || lowered == "superadmin" {
		return ClassifiedIdentifier{Raw: trimmed, Kind: KindSuperAdmin}
	}

	if numericIDRe.MatchString(trimmed) {
		return ClassifiedIdentifier{Raw: trimmed, Kind: KindStudent, NumericID: trimmed}
	}

	if m := embeddedIDRe.FindStringSubmatch(trimmed); m != nil {
		return ClassifiedIdentifier{Raw: trimmed, Kind: KindStudent, NumericID: m[1]}
	}

	return ClassifiedIdentifier{Raw: trimmed, Kind: KindStaff}
}
