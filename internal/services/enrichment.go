package services

import (
	"context"
	"strings"
	"time"

	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/legacy"

	"go.uber.org/zap"
)

// ClearanceEnricher pulls academic/financial standing out of the legacy
// portal and copies the fields the portal owns onto the local user.
type ClearanceEnricher struct {
	portal legacy.Client
	logger *zap.Logger
}

func NewClearanceEnricher(portal legacy.Client, logger *zap.Logger) *ClearanceEnricher {
	return &ClearanceEnricher{portal: portal, logger: logger}
}

// PrefetchForNewStudent runs the first-login enrichment: scrape the home
// page for the student's name, search clearance by last name, and pick the
// record whose student_number equals the login id — or the sole record when
// exactly one comes back. Every failure path returns an error the caller
// degrades to "no clearance data".
func (e *ClearanceEnricher) PrefetchForNewStudent(ctx context.Context, sess *legacy.Session, loginID string) (*legacy.ClearanceRecord, error) {
	homeHTML, err := e.portal.FetchHomeHTML(ctx, sess)
	if err != nil {
		return nil, err
	}

	name, err := legacy.ExtractStudentName(homeHTML)
	if err != nil {
		return nil, err
	}

	records, err := e.portal.FetchClearanceByKeyword(ctx, sess, name.LastName)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].StudentNumber == loginID {
			return &records[i], nil
		}
	}
	if len(records) == 1 {
		return &records[0], nil
	}
	return nil, legacy.ErrNoMatch
}

// MatchClearanceRecord selects the record for the post-login backfill:
// exact student_number equality, then case-insensitive first+last name
// equality, then the sole record if only one was returned.
func MatchClearanceRecord(records []legacy.ClearanceRecord, studentNumber, firstName, lastName string) *legacy.ClearanceRecord {
	if studentNumber != "" {
		for i := range records {
			if records[i].StudentNumber == studentNumber {
				return &records[i]
			}
		}
	}

	for i := range records {
		if strings.EqualFold(records[i].Firstname, firstName) &&
			strings.EqualFold(records[i].Lastname, lastName) {
			return &records[i]
		}
	}

	if len(records) == 1 {
		return &records[0]
	}
	return nil
}

// ApplyClearanceRecord copies fields present in the record onto the user
// without disturbing values that already match. It reports whether anything
// changed; callers skip the write (and the synced-at bump) when nothing did.
func ApplyClearanceRecord(user *entities.User, rec *legacy.ClearanceRecord, now time.Time) bool {
	changed := false

	setInt64 := func(dst **int64, v int64) {
		if v != 0 && (*dst == nil || **dst != v) {
			val := v
			*dst = &val
			changed = true
		}
	}
	setString := func(dst **string, v string) {
		if v != "" && (*dst == nil || **dst != v) {
			val := v
			*dst = &val
			changed = true
		}
	}
	setFloat := func(dst **float64, v float64) {
		if *dst == nil || **dst != v {
			val := v
			*dst = &val
			changed = true
		}
	}

	setInt64(&user.LegacyAccountID, rec.AccountID)
	setString(&user.StudentNumberLegacy, rec.StudentNumber)
	setString(&user.DegreeCode, rec.DegreeCode)
	setInt64(&user.DegreeProgramID, rec.DegreeProgramID)
	setString(&user.YearLevel, rec.YearLevel)
	setFloat(&user.Balance, rec.Balance)
	setString(&user.ClearanceStatusCode, rec.StatusCode)

	// student_number is only ever backfilled, never overwritten.
	if (user.StudentNumber == nil || *user.StudentNumber == "") && rec.StudentNumber != "" {
		sn := rec.StudentNumber
		user.StudentNumber = &sn
		changed = true
	}

	if changed {
		t := now
		user.LegacyDataSyncedAt = &t
	}
	return changed
}
