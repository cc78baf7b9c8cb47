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

type AdviserServiceInterface interface {
	Assign(ctx context.Context, payload dto.CreateAdviserAssignmentDTO) (*entities.AdviserAssignment, error)
	Unassign(ctx context.Context, id uint64) error
	ListForUser(ctx context.Context, userID uint64, asAdviser bool) ([]entities.AdviserAssignment, error)
}

type AdviserService struct {
	adviserRepo repositories.AdviserRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	logger      *zap.Logger
}

func NewAdviserService(
	adviserRepo repositories.AdviserRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) AdviserServiceInterface {
	return &AdviserService{adviserRepo: adviserRepo, userRepo: userRepo, logger: logger}
}

// Assign pairs a staff adviser with a student. Both sides are validated
// for existence and role before the row is written.
func (s *AdviserService) Assign(ctx context.Context, payload dto.CreateAdviserAssignmentDTO) (*entities.AdviserAssignment, error) {
	adviser, err := s.userRepo.FindUserByID(ctx, payload.AdviserID)
	if err != nil {
		return nil, apperrors.NewValidationError("adviser_id", "Adviser not found.")
	}
	if !constants.StaffRoles[adviser.Role] {
		return nil, apperrors.NewValidationError("adviser_id", "Adviser must hold a staff role.")
	}

	student, err := s.userRepo.FindUserByID(ctx, payload.StudentID)
	if err != nil {
		return nil, apperrors.NewValidationError("student_id", "Student not found.")
	}
	if student.Role != constants.RoleStudent {
		return nil, apperrors.NewValidationError("student_id", "Assignee must be a student.")
	}

	exists, err := s.adviserRepo.Exists(ctx, payload.AdviserID, payload.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidationError("student_id", "This adviser is already assigned to the student.")
	}

	assignment, err := s.adviserRepo.Create(ctx, payload.AdviserID, payload.StudentID)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not create assignment", err, nil)
	}
	s.logger.Info("adviser assigned",
		zap.Uint64("adviserID", payload.AdviserID),
		zap.Uint64("studentID", payload.StudentID))
	return assignment, nil
}

func (s *AdviserService) Unassign(ctx context.Context, id uint64) error {
	return s.adviserRepo.Delete(ctx, id)
}

func (s *AdviserService) ListForUser(ctx context.Context, userID uint64, asAdviser bool) ([]entities.AdviserAssignment, error) {
	if asAdviser {
		return s.adviserRepo.ListByAdviser(ctx, userID)
	}
	return s.adviserRepo.ListByStudent(ctx, userID)
}
