package controllers

import (
	"net/http"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/services"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ExamController struct {
	examService services.ExamServiceInterface
	logger      *zap.Logger
}

func NewExamController(examService services.ExamServiceInterface, logger *zap.Logger) *ExamController {
	return &ExamController{examService: examService, logger: logger}
}

// Apply creates an application for the authenticated student.
func (ctrl *ExamController) Apply(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	var payload dto.CreateExamApplicationDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	application, err := ctrl.examService.Apply(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, application, "Application submitted", http.StatusCreated)
}

func (ctrl *ExamController) MyApplications(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	applications, err := ctrl.examService.ListByStudent(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, applications, "OK", http.StatusOK)
}

func (ctrl *ExamController) ListByStatus(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = constants.ExamStatusPending
	}

	applications, err := ctrl.examService.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, applications, "OK", http.StatusOK)
}

func (ctrl *ExamController) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	application, err := ctrl.examService.GetByID(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, application, "OK", http.StatusOK)
}

func (ctrl *ExamController) Review(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	reviewerID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	var payload dto.ReviewExamApplicationDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	application, err := ctrl.examService.Review(c.Request().Context(), id, reviewerID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, application, "Application reviewed", http.StatusOK)
}
