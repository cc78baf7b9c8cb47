package services

import (
	"context"
	"fmt"
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/pdf"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FormKindEndorsement   = "endorsement"
	FormKindExamPermit    = "exam_permit"
	FormKindDefenseNotice = "defense_notice"
)

type FormServiceInterface interface {
	Generate(ctx context.Context, payload dto.GenerateFormDTO) (*dto.GeneratedFormDTO, error)
}

// FormService turns the portal's rendered form pages into downloadable
// PDFs. The subject is validated first so the converter never sees a page
// that would render empty.
type FormService struct {
	converter pdf.Service
	userRepo  repositories.UserRepositoryInterface
	examRepo  repositories.ExamRepositoryInterface
	defRepo   repositories.DefenseRepositoryInterface
	baseURL   string
	logger    *zap.Logger
}

func NewFormService(
	converter pdf.Service,
	userRepo repositories.UserRepositoryInterface,
	examRepo repositories.ExamRepositoryInterface,
	defRepo repositories.DefenseRepositoryInterface,
	baseURL string,
	logger *zap.Logger,
) FormServiceInterface {
	return &FormService{
		converter: converter,
		userRepo:  userRepo,
		examRepo:  examRepo,
		defRepo:   defRepo,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (s *FormService) Generate(ctx context.Context, payload dto.GenerateFormDTO) (*dto.GeneratedFormDTO, error) {
	if err := s.validateSubject(ctx, payload.Kind, payload.SubjectID); err != nil {
		return nil, err
	}

	sourceURL := fmt.Sprintf("%s/forms/render/%s/%d", s.baseURL, payload.Kind, payload.SubjectID)
	// Unique suffix so regenerated forms never overwrite each other at the
	// converter's storage.
	name := fmt.Sprintf("%s-%d-%s.pdf", payload.Kind, payload.SubjectID, uuid.NewString()[:8])

	url, err := s.converter.ConvertFromURL(ctx, sourceURL, name)
	if err != nil {
		s.logger.Error("form conversion failed",
			zap.String("kind", payload.Kind),
			zap.Uint64("subjectID", payload.SubjectID),
			zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusBadGateway, "Form generation failed", err, nil)
	}

	return &dto.GeneratedFormDTO{URL: url}, nil
}

func (s *FormService) validateSubject(ctx context.Context, kind string, subjectID uint64) error {
	switch kind {
	case FormKindEndorsement:
		if _, err := s.userRepo.FindUserByID(ctx, subjectID); err != nil {
			return apperrors.NewValidationError("subject_id", "Student not found.")
		}
	case FormKindExamPermit:
		application, err := s.examRepo.FindByID(ctx, subjectID)
		if err != nil {
			return apperrors.NewValidationError("subject_id", "Application not found.")
		}
		if application.Status != constants.ExamStatusApproved {
			return apperrors.NewValidationError("subject_id", "Permit is only available for approved applications.")
		}
	case FormKindDefenseNotice:
		if _, err := s.defRepo.FindByID(ctx, subjectID); err != nil {
			return apperrors.NewValidationError("subject_id", "Schedule not found.")
		}
	default:
		return apperrors.NewValidationError("kind", "Unknown form kind.")
	}
	return nil
}
