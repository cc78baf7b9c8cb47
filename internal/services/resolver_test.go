package services

import (
	"context"
	"errors"
	"testing"

	"gradschool-portal/internal/entities"
	apperrors "gradschool-portal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDomain = "uic.edu.ph"

func strPtr(s string) *string { return &s }

func TestResolveByStudentIdentifier(t *testing.T) {
	repo := newFakeUserRepo()
	repo.CreateUser(context.Background(), &entities.User{
		Email:         "acruz_1234567@uic.edu.ph",
		StudentNumber: strPtr("1234567"),
	})
	resolver := NewUserResolver(repo, testDomain, zap.NewNop())

	user, strategy, err := resolver.Resolve(context.Background(), ClassifiedIdentifier{
		Raw: "1234567", Kind: KindStudent, NumericID: "1234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "by-student-identifier", strategy)
	assert.Equal(t, "acruz_1234567@uic.edu.ph", user.Email)
}

func TestResolveFallsThroughToEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.CreateUser(context.Background(), &entities.User{Email: "mreyes@uic.edu.ph"})
	resolver := NewUserResolver(repo, testDomain, zap.NewNop())

	// Bare username, no digits: only the normalized-email strategy can hit.
	user, strategy, err := resolver.Resolve(context.Background(), ClassifiedIdentifier{
		Raw: "MReyes", Kind: KindStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "by-normalized-email", strategy)
	assert.Equal(t, "mreyes@uic.edu.ph", user.Email)
}

func TestResolveByEmbeddedSchoolID(t *testing.T) {
	repo := newFakeUserRepo()
	// Stored under a plain address; only school_id can connect it to the
	// "firstname_id@domain" login.
	repo.CreateUser(context.Background(), &entities.User{
		Email:    "ana.cruz@gmail.com",
		SchoolID: strPtr("7654321"),
	})
	resolver := NewUserResolver(repo, testDomain, zap.NewNop())

	user, strategy, err := resolver.Resolve(context.Background(), ClassifiedIdentifier{
		Raw: "acruz_7654321@uic.edu.ph", Kind: KindStudent, NumericID: "7654321",
	})
	require.NoError(t, err)
	// The student-identifier strategy already matches on school_id, so the
	// chain stops there.
	assert.Equal(t, "by-student-identifier", strategy)
	assert.Equal(t, "ana.cruz@gmail.com", user.Email)
}

func TestResolveMissReturnsNotFound(t *testing.T) {
	resolver := NewUserResolver(newFakeUserRepo(), testDomain, zap.NewNop())

	user, _, err := resolver.Resolve(context.Background(), ClassifiedIdentifier{
		Raw: "nobody", Kind: KindStaff,
	})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveAbortsOnRepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findByStudentIdentifierErr = errors.New("connection refused")
	resolver := NewUserResolver(repo, testDomain, zap.NewNop())

	_, strategy, err := resolver.Resolve(context.Background(), ClassifiedIdentifier{
		Raw: "1234567", Kind: KindStudent, NumericID: "1234567",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "by-student-identifier", strategy)
}
