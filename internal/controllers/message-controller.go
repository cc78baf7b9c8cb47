package controllers

import (
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/services"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MessageController struct {
	messageService services.MessageServiceInterface
	logger         *zap.Logger
}

func NewMessageController(messageService services.MessageServiceInterface, logger *zap.Logger) *MessageController {
	return &MessageController{messageService: messageService, logger: logger}
}

func (ctrl *MessageController) Send(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	var payload dto.SendMessageDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	message, err := ctrl.messageService.Send(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, message, "Message sent", http.StatusCreated)
}

func (ctrl *MessageController) Inbox(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	messages, err := ctrl.messageService.Inbox(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, messages, "OK", http.StatusOK)
}

func (ctrl *MessageController) Sent(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	messages, err := ctrl.messageService.Sent(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, messages, "OK", http.StatusOK)
}

// Read returns one message; opening it as the recipient marks it read.
func (ctrl *MessageController) Read(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	message, err := ctrl.messageService.Read(c.Request().Context(), id, userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, message, "OK", http.StatusOK)
}
