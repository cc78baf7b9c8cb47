package services

import (
	"context"
	"fmt"
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/mail"

	"go.uber.org/zap"
)

type DefenseServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateDefenseScheduleDTO) (*entities.DefenseSchedule, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateDefenseScheduleDTO) (*entities.DefenseSchedule, error)
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*entities.DefenseSchedule, error)
	List(ctx context.Context) ([]entities.DefenseSchedule, error)
}

type DefenseService struct {
	defenseRepo repositories.DefenseRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	mailer      mail.Mailer
	sender      string
	logger      *zap.Logger
}

func NewDefenseService(
	defenseRepo repositories.DefenseRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	mailer mail.Mailer,
	sender string,
	logger *zap.Logger,
) DefenseServiceInterface {
	return &DefenseService{
		defenseRepo: defenseRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		sender:      sender,
		logger:      logger,
	}
}

func (s *DefenseService) Create(ctx context.Context, payload dto.CreateDefenseScheduleDTO) (*entities.DefenseSchedule, error) {
	if _, err := s.userRepo.FindUserByID(ctx, payload.StudentID); err != nil {
		return nil, apperrors.NewValidationError("student_id", "Student not found.")
	}

	conflict, err := s.defenseRepo.RoomConflictExists(ctx, payload.Room, payload.ScheduledAt, payload.EndsAt, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.NewValidationError("room", "Room is already booked for that time.")
	}

	schedule := &entities.DefenseSchedule{
		StudentID:   payload.StudentID,
		Title:       payload.Title,
		Room:        payload.Room,
		ScheduledAt: payload.ScheduledAt,
		EndsAt:      payload.EndsAt,
		Status:      constants.DefenseStatusScheduled,
	}
	created, err := s.defenseRepo.Create(ctx, schedule)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not create schedule", err, nil)
	}

	if err := s.defenseRepo.ReplacePanel(ctx, created.ID, payload.PanelMemberIDs); err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not save panel", err, nil)
	}
	created.PanelMemberIDs = payload.PanelMemberIDs

	s.notify(ctx, created, "Defense scheduled")
	return created, nil
}

func (s *DefenseService) Update(ctx context.Context, id uint64, payload dto.UpdateDefenseScheduleDTO) (*entities.DefenseSchedule, error) {
	existing, err := s.defenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conflict, err := s.defenseRepo.RoomConflictExists(ctx, payload.Room, payload.ScheduledAt, payload.EndsAt, id)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.NewValidationError("room", "Room is already booked for that time.")
	}

	existing.Title = payload.Title
	existing.Room = payload.Room
	existing.ScheduledAt = payload.ScheduledAt
	existing.EndsAt = payload.EndsAt
	existing.Status = payload.Status

	updated, err := s.defenseRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if err := s.defenseRepo.ReplacePanel(ctx, id, payload.PanelMemberIDs); err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not save panel", err, nil)
	}
	updated.PanelMemberIDs = payload.PanelMemberIDs

	subject := "Defense rescheduled"
	if payload.Status == constants.DefenseStatusCancelled {
		subject = "Defense cancelled"
	}
	s.notify(ctx, updated, subject)
	return updated, nil
}

func (s *DefenseService) Delete(ctx context.Context, id uint64) error {
	return s.defenseRepo.Delete(ctx, id)
}

func (s *DefenseService) GetByID(ctx context.Context, id uint64) (*entities.DefenseSchedule, error) {
	schedule, err := s.defenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ids, err := s.defenseRepo.PanelMemberIDs(ctx, id); err == nil {
		schedule.PanelMemberIDs = ids
	}
	return schedule, nil
}

func (s *DefenseService) List(ctx context.Context) ([]entities.DefenseSchedule, error) {
	return s.defenseRepo.List(ctx)
}

// notify mails the student and every panel member. Delivery is best-effort;
// a mail failure never rolls back the schedule.
func (s *DefenseService) notify(ctx context.Context, schedule *entities.DefenseSchedule, subject string) {
	recipients := make([]string, 0, len(schedule.PanelMemberIDs)+1)
	for _, id := range append([]uint64{schedule.StudentID}, schedule.PanelMemberIDs...) {
		user, err := s.userRepo.FindUserByID(ctx, id)
		if err != nil {
			s.logger.Warn("notification recipient lookup failed", zap.Uint64("userID", id), zap.Error(err))
			continue
		}
		recipients = append(recipients, user.Email)
	}
	if len(recipients) == 0 {
		return
	}

	body := fmt.Sprintf("%s\n\nTitle: %s\nRoom: %s\nStart: %s\nEnd: %s",
		subject, schedule.Title, schedule.Room,
		schedule.ScheduledAt.Format("Jan 2, 2006 3:04 PM"),
		schedule.EndsAt.Format("Jan 2, 2006 3:04 PM"))

	if err := s.mailer.SendMail(&mail.Email{
		Subject: subject,
		Body:    body,
		From:    s.sender,
		To:      recipients,
	}); err != nil {
		s.logger.Warn("defense notification failed", zap.Uint64("scheduleID", schedule.ID), zap.Error(err))
	}
}
