package services

import (
	"context"
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"

	"go.uber.org/zap"
)

type ExamServiceInterface interface {
	Apply(ctx context.Context, studentID uint64, payload dto.CreateExamApplicationDTO) (*entities.ExamApplication, error)
	GetByID(ctx context.Context, id uint64) (*entities.ExamApplication, error)
	ListByStudent(ctx context.Context, studentID uint64) ([]entities.ExamApplication, error)
	ListByStatus(ctx context.Context, status string) ([]entities.ExamApplication, error)
	Review(ctx context.Context, id, reviewerID uint64, payload dto.ReviewExamApplicationDTO) (*entities.ExamApplication, error)
}

// ExamService drives the comprehensive-exam pipeline:
// Pending -> PaymentReview (payment submitted) -> Approved | Rejected.
type ExamService struct {
	examRepo repositories.ExamRepositoryInterface
	logger   *zap.Logger
}

func NewExamService(examRepo repositories.ExamRepositoryInterface, logger *zap.Logger) ExamServiceInterface {
	return &ExamService{examRepo: examRepo, logger: logger}
}

func (s *ExamService) Apply(ctx context.Context, studentID uint64, payload dto.CreateExamApplicationDTO) (*entities.ExamApplication, error) {
	open, err := s.examRepo.HasOpenApplication(ctx, studentID, payload.ExamPeriod)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperrors.NewValidationError("exam_period", "An application for this exam period is already open.")
	}

	application := &entities.ExamApplication{
		StudentID:  studentID,
		ExamPeriod: payload.ExamPeriod,
		Status:     constants.ExamStatusPending,
	}
	created, err := s.examRepo.Create(ctx, application)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not create application", err, nil)
	}
	s.logger.Info("exam application created",
		zap.Uint64("applicationID", created.ID),
		zap.Uint64("studentID", studentID),
		zap.String("period", payload.ExamPeriod))
	return created, nil
}

func (s *ExamService) GetByID(ctx context.Context, id uint64) (*entities.ExamApplication, error) {
	return s.examRepo.FindByID(ctx, id)
}

func (s *ExamService) ListByStudent(ctx context.Context, studentID uint64) ([]entities.ExamApplication, error) {
	return s.examRepo.ListByStudent(ctx, studentID)
}

func (s *ExamService) ListByStatus(ctx context.Context, status string) ([]entities.ExamApplication, error) {
	return s.examRepo.ListByStatus(ctx, status)
}

// Review decides an application. Approval requires the payment to have
// been submitted (status PaymentReview); rejection is allowed from either
// open state. Decided applications are immutable.
func (s *ExamService) Review(ctx context.Context, id, reviewerID uint64, payload dto.ReviewExamApplicationDTO) (*entities.ExamApplication, error) {
	application, err := s.examRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch application.Status {
	case constants.ExamStatusPending, constants.ExamStatusPaymentReview:
	default:
		return nil, apperrors.NewValidationError("status", "Application has already been decided.")
	}

	status := constants.ExamStatusRejected
	if payload.Approve {
		if application.Status != constants.ExamStatusPaymentReview {
			return nil, apperrors.NewValidationError("status", "Application cannot be approved before payment review.")
		}
		status = constants.ExamStatusApproved
	}

	if err := s.examRepo.UpdateStatus(ctx, id, status, payload.Remarks.Ptr(), reviewerID); err != nil {
		return nil, err
	}
	s.logger.Info("exam application reviewed",
		zap.Uint64("applicationID", id),
		zap.Uint64("reviewerID", reviewerID),
		zap.String("status", status))
	return s.examRepo.FindByID(ctx, id)
}
