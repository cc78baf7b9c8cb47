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

type DefenseController struct {
	defenseService services.DefenseServiceInterface
	logger         *zap.Logger
}

func NewDefenseController(defenseService services.DefenseServiceInterface, logger *zap.Logger) *DefenseController {
	return &DefenseController{defenseService: defenseService, logger: logger}
}

func (ctrl *DefenseController) Create(c echo.Context) error {
	var payload dto.CreateDefenseScheduleDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	schedule, err := ctrl.defenseService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, schedule, "Defense scheduled", http.StatusCreated)
}

func (ctrl *DefenseController) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateDefenseScheduleDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	schedule, err := ctrl.defenseService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, schedule, "Defense updated", http.StatusOK)
}

func (ctrl *DefenseController) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.defenseService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Defense removed", http.StatusOK)
}

func (ctrl *DefenseController) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	schedule, err := ctrl.defenseService.GetByID(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, schedule, "OK", http.StatusOK)
}

func (ctrl *DefenseController) List(c echo.Context) error {
	schedules, err := ctrl.defenseService.List(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, schedules, "OK", http.StatusOK)
}
