package controllers

import (
	"fmt"
	"net/http"
	"time"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/services"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/types"
	"gradschool-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
	logger         *zap.Logger
}

func NewPaymentController(paymentService services.PaymentServiceInterface, logger *zap.Logger) *PaymentController {
	return &PaymentController{paymentService: paymentService, logger: logger}
}

func (ctrl *PaymentController) Submit(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	var payload dto.CreateExamPaymentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	payment, err := ctrl.paymentService.Submit(c.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, payment, "Payment recorded", http.StatusCreated)
}

// List returns payments as JSON, or as a spreadsheet when format=xlsx.
func (ctrl *PaymentController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	if c.QueryParam("format") == "xlsx" {
		return ctrl.exportXLSX(c, filter)
	}

	payments, total, err := ctrl.paymentService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, payments, "OK", http.StatusOK, total)
}

func (ctrl *PaymentController) exportXLSX(c echo.Context, filter types.Filter) error {
	f, err := ctrl.paymentService.ExportXLSX(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer f.Close()

	filename := fmt.Sprintf("exam-payments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

func (ctrl *PaymentController) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	payment, err := ctrl.paymentService.GetByID(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, payment, "OK", http.StatusOK)
}

func (ctrl *PaymentController) Review(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	reviewerID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}

	var payload dto.ReviewExamPaymentDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Invalid request body"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	payment, err := ctrl.paymentService.Review(c.Request().Context(), id, reviewerID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, payment, "Payment reviewed", http.StatusOK)
}
