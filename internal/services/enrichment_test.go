package services

import (
	"context"
	"testing"
	"time"

	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/legacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const studentHomeHTML = `<html><body>
	<span class="student-name">CRUZ, ANA MARIE</span>
</body></html>`

func clearanceFixture() []legacy.ClearanceRecord {
	return []legacy.ClearanceRecord{
		{Firstname: "Ana Marie", Lastname: "Cruz", AccountID: 42, StudentNumber: "1234567",
			DegreeCode: "MIT", DegreeProgramID: 7, YearLevel: "2", Balance: 1500.50, StatusCode: "OK"},
		{Firstname: "Benito", Lastname: "Cruz", AccountID: 43, StudentNumber: "7654321",
			DegreeCode: "MBA", DegreeProgramID: 9, YearLevel: "1", Balance: 0, StatusCode: "HOLD"},
	}
}

func TestPrefetchPicksRecordByStudentNumber(t *testing.T) {
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	enricher := NewClearanceEnricher(portal, zap.NewNop())

	rec, err := enricher.PrefetchForNewStudent(context.Background(), &legacy.Session{}, "1234567")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.AccountID)
	assert.Equal(t, "Ana Marie", rec.Firstname)
}

func TestPrefetchFallsBackToSoleRecord(t *testing.T) {
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()[:1]}
	enricher := NewClearanceEnricher(portal, zap.NewNop())

	rec, err := enricher.PrefetchForNewStudent(context.Background(), &legacy.Session{}, "0000000")
	require.NoError(t, err)
	assert.Equal(t, "1234567", rec.StudentNumber)
}

func TestPrefetchNoMatchAmongMany(t *testing.T) {
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	enricher := NewClearanceEnricher(portal, zap.NewNop())

	_, err := enricher.PrefetchForNewStudent(context.Background(), &legacy.Session{}, "0000000")
	assert.ErrorIs(t, err, legacy.ErrNoMatch)
}

func TestPrefetchPropagatesParseError(t *testing.T) {
	portal := &fakePortal{homeHTML: "<html><body>no name here</body></html>"}
	enricher := NewClearanceEnricher(portal, zap.NewNop())

	_, err := enricher.PrefetchForNewStudent(context.Background(), &legacy.Session{}, "1234567")
	var parseErr *legacy.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestMatchClearanceRecord(t *testing.T) {
	records := clearanceFixture()

	byNumber := MatchClearanceRecord(records, "7654321", "", "")
	require.NotNil(t, byNumber)
	assert.Equal(t, int64(43), byNumber.AccountID)

	byName := MatchClearanceRecord(records, "", "ANA MARIE", "cruz")
	require.NotNil(t, byName)
	assert.Equal(t, int64(42), byName.AccountID)

	assert.Nil(t, MatchClearanceRecord(records, "", "Juan", "Santos"))

	sole := MatchClearanceRecord(records[:1], "", "Juan", "Santos")
	require.NotNil(t, sole)
	assert.Equal(t, int64(42), sole.AccountID)
}

func TestApplyClearanceRecord(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	rec := &clearanceFixture()[0]
	user := &entities.User{FirstName: "Ana Marie", LastName: "Cruz"}

	changed := ApplyClearanceRecord(user, rec, now)
	require.True(t, changed)
	require.NotNil(t, user.LegacyAccountID)
	assert.Equal(t, int64(42), *user.LegacyAccountID)
	assert.Equal(t, "1234567", *user.StudentNumber)
	assert.Equal(t, "OK", *user.ClearanceStatusCode)
	assert.Equal(t, 1500.50, *user.Balance)
	require.NotNil(t, user.LegacyDataSyncedAt)
	assert.Equal(t, now, *user.LegacyDataSyncedAt)
}

func TestApplyClearanceRecordIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	later := now.Add(24 * time.Hour)
	rec := &clearanceFixture()[0]
	user := &entities.User{FirstName: "Ana Marie", LastName: "Cruz"}

	require.True(t, ApplyClearanceRecord(user, rec, now))
	assert.False(t, ApplyClearanceRecord(user, rec, later))
	// Unchanged data must not bump the sync timestamp.
	assert.Equal(t, now, *user.LegacyDataSyncedAt)
}

func TestApplyClearanceRecordNeverOverwritesStudentNumber(t *testing.T) {
	rec := &clearanceFixture()[0]
	user := &entities.User{StudentNumber: strPtr("9999999")}

	ApplyClearanceRecord(user, rec, time.Now())
	assert.Equal(t, "9999999", *user.StudentNumber)
	// The legacy copy still lands in its own column.
	assert.Equal(t, "1234567", *user.StudentNumberLegacy)
}
