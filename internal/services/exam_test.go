package services

import (
	"context"
	"sync"
	"testing"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExamRepo struct {
	mu     sync.Mutex
	nextID uint64
	apps   []*entities.ExamApplication
}

func newFakeExamRepo() *fakeExamRepo { return &fakeExamRepo{nextID: 1} }

func (r *fakeExamRepo) Create(_ context.Context, entity *entities.ExamApplication) (*entities.ExamApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entity
	cp.ID = r.nextID
	r.nextID++
	r.apps = append(r.apps, &cp)
	out := cp
	return &out, nil
}

func (r *fakeExamRepo) FindByID(_ context.Context, id uint64) (*entities.ExamApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeExamRepo) ListByStudent(_ context.Context, studentID uint64) ([]entities.ExamApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.ExamApplication{}
	for _, a := range r.apps {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) ListByStatus(_ context.Context, status string) ([]entities.ExamApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.ExamApplication{}
	for _, a := range r.apps {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) UpdateStatus(_ context.Context, id uint64, status string, remarks *string, reviewerID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			a.Status = status
			a.Remarks = remarks
			a.ReviewedBy = &reviewerID
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeExamRepo) HasOpenApplication(_ context.Context, studentID uint64, examPeriod string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.StudentID == studentID && a.ExamPeriod == examPeriod &&
			(a.Status == constants.ExamStatusPending || a.Status == constants.ExamStatusPaymentReview) {
			return true, nil
		}
	}
	return false, nil
}

func TestExamApplyRejectsSecondOpenApplication(t *testing.T) {
	svc := NewExamService(newFakeExamRepo(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2026-2"})
	require.NoError(t, err)
	assert.Equal(t, constants.ExamStatusPending, first.Status)

	_, err = svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2026-2"})
	httpErr := httpErrFrom(t, err)
	assert.Equal(t, 422, httpErr.Code)

	// Different period is fine.
	_, err = svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2027-1"})
	assert.NoError(t, err)
}

func TestExamApproveRequiresPaymentReview(t *testing.T) {
	repo := newFakeExamRepo()
	svc := NewExamService(repo, zap.NewNop())
	ctx := context.Background()

	app, err := svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2026-2"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, app.ID, 9, dto.ReviewExamApplicationDTO{Approve: true})
	require.Error(t, err, "approval before payment must fail")

	require.NoError(t, repo.UpdateStatus(ctx, app.ID, constants.ExamStatusPaymentReview, nil, 1))
	reviewed, err := svc.Review(ctx, app.ID, 9, dto.ReviewExamApplicationDTO{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, constants.ExamStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, uint64(9), *reviewed.ReviewedBy)
}

func TestExamRejectFromPending(t *testing.T) {
	svc := NewExamService(newFakeExamRepo(), zap.NewNop())
	ctx := context.Background()

	app, err := svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2026-2"})
	require.NoError(t, err)

	remarks := "Missing prerequisites"
	reviewed, err := svc.Review(ctx, app.ID, 9, dto.ReviewExamApplicationDTO{Approve: false, Remarks: null.StringFrom(remarks)})
	require.NoError(t, err)
	assert.Equal(t, constants.ExamStatusRejected, reviewed.Status)
	assert.Equal(t, &remarks, reviewed.Remarks)

	// Decided applications are immutable.
	_, err = svc.Review(ctx, app.ID, 9, dto.ReviewExamApplicationDTO{Approve: true})
	assert.Error(t, err)
}

func TestExamReviewOmittedRemarksStoreNothing(t *testing.T) {
	repo := newFakeExamRepo()
	svc := NewExamService(repo, zap.NewNop())
	ctx := context.Background()

	app, err := svc.Apply(ctx, 1, dto.CreateExamApplicationDTO{ExamPeriod: "2026-2"})
	require.NoError(t, err)

	// The zero null.String is invalid; it must reach the repository as nil.
	reviewed, err := svc.Review(ctx, app.ID, 9, dto.ReviewExamApplicationDTO{Approve: false})
	require.NoError(t, err)
	assert.Equal(t, constants.ExamStatusRejected, reviewed.Status)
	assert.Nil(t, reviewed.Remarks)
}
