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

type AdviserController struct {
	adviserService services.AdviserServiceInterface
	logger         *zap.Logger
}

func NewAdviserController(adviserService services.AdviserServiceInterface, logger *zap.Logger) *AdviserController {
	return &AdviserController{adviserService: adviserService, logger: logger}
}

func (ctrl *AdviserController) Assign(c echo.Context) error {
	var payload dto.CreateAdviserAssignmentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	assignment, err := ctrl.adviserService.Assign(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, assignment, "Adviser assigned", http.StatusCreated)
}

func (ctrl *AdviserController) Unassign(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.adviserService.Unassign(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Assignment removed", http.StatusOK)
}

// MyAdvisees lists the callers advising load; MyAdvisers the inverse.
func (ctrl *AdviserController) MyAdvisees(c echo.Context) error {
	return ctrl.listForCaller(c, true)
}

func (ctrl *AdviserController) MyAdvisers(c echo.Context) error {
	return ctrl.listForCaller(c, false)
}

func (ctrl *AdviserController) listForCaller(c echo.Context, asAdviser bool) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	assignments, err := ctrl.adviserService.ListForUser(c.Request().Context(), userID, asAdviser)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, assignments, "OK", http.StatusOK)
}
