package entities

import (
	"time"

	"gradschool-portal/pkg/types"
)

type User struct {
	ID         uint64 `json:"id" db:"id"`
	Email      string `json:"email" db:"email"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	MiddleName string `json:"middle_name" db:"middle_name"`

	Password string `json:"-" db:"password"`

	// Display role; the authoritative set lives in user_roles.
	Role string `json:"role" db:"role"`

	StudentNumber *string `json:"student_number" db:"student_number"`
	SchoolID      *string `json:"school_id" db:"school_id"`

	// Join key into the legacy student-information system. Treated as a
	// master key once discovered.
	LegacyAccountID     *int64     `json:"legacy_account_id" db:"legacy_account_id"`
	StudentNumberLegacy *string    `json:"student_number_legacy" db:"student_number_legacy"`
	ClearanceStatusCode *string    `json:"clearance_statuscode" db:"clearance_statuscode"`
	DegreeCode          *string    `json:"degree_code" db:"degree_code"`
	DegreeProgramID     *int64     `json:"degree_program_id" db:"degree_program_id"`
	YearLevel           *string    `json:"year_level" db:"year_level"`
	Balance             *float64   `json:"balance" db:"balance"`
	LegacyDataSyncedAt  *time.Time `json:"legacy_data_synced_at" db:"legacy_data_synced_at"`

	Roles []string `json:"roles" db:"-"`

	types.BaseEntity
	types.SoftDelete
}

// Placeholder name fields used when clearance enrichment failed on first login.
const (
	PlaceholderFirstName = "New"
	PlaceholderLastName  = "User"
)

func (u *User) HasPlaceholderName() bool {
	return u.LastName == "" || u.LastName == PlaceholderLastName
}

func (u *User) HasRole(role string) bool {
	if u.Role == role {
		return true
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
