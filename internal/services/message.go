package services

import (
	"context"
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/repositories"
	apperrors "gradschool-portal/pkg/errors"

	"go.uber.org/zap"
)

type MessageServiceInterface interface {
	Send(ctx context.Context, senderID uint64, payload dto.SendMessageDTO) (*entities.Message, error)
	Inbox(ctx context.Context, userID uint64) ([]entities.Message, error)
	Sent(ctx context.Context, userID uint64) ([]entities.Message, error)
	Read(ctx context.Context, id, userID uint64) (*entities.Message, error)
}

type MessageService struct {
	messageRepo repositories.MessageRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	logger      *zap.Logger
}

func NewMessageService(
	messageRepo repositories.MessageRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) MessageServiceInterface {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo, logger: logger}
}

func (s *MessageService) Send(ctx context.Context, senderID uint64, payload dto.SendMessageDTO) (*entities.Message, error) {
	if payload.RecipientID == senderID {
		return nil, apperrors.NewValidationError("recipient_id", "Cannot send a message to yourself.")
	}
	if _, err := s.userRepo.FindUserByID(ctx, payload.RecipientID); err != nil {
		return nil, apperrors.NewValidationError("recipient_id", "Recipient not found.")
	}

	message := &entities.Message{
		SenderID:    senderID,
		RecipientID: payload.RecipientID,
		Subject:     payload.Subject,
		Body:        payload.Body,
	}
	created, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not send message", err, nil)
	}
	return created, nil
}

func (s *MessageService) Inbox(ctx context.Context, userID uint64) ([]entities.Message, error) {
	return s.messageRepo.Inbox(ctx, userID)
}

func (s *MessageService) Sent(ctx context.Context, userID uint64) ([]entities.Message, error) {
	return s.messageRepo.Sent(ctx, userID)
}

// Read fetches a message for its participant and marks it read when the
// reader is the recipient.
func (s *MessageService) Read(ctx context.Context, id, userID uint64) (*entities.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID && message.RecipientID != userID {
		return nil, apperrors.ErrForbidden
	}
	if message.RecipientID == userID && message.ReadAt == nil {
		if err := s.messageRepo.MarkRead(ctx, id, userID); err != nil {
			s.logger.Warn("mark read failed", zap.Uint64("messageID", id), zap.Error(err))
		} else {
			return s.messageRepo.FindByID(ctx, id)
		}
	}
	return message, nil
}
