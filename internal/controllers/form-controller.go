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

type FormController struct {
	formService services.FormServiceInterface
	logger      *zap.Logger
}

func NewFormController(formService services.FormServiceInterface, logger *zap.Logger) *FormController {
	return &FormController{formService: formService, logger: logger}
}

func (ctrl *FormController) Generate(c echo.Context) error {
	var payload dto.GenerateFormDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	form, err := ctrl.formService.Generate(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, form, "Form generated", http.StatusOK)
}
