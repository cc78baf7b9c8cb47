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
	"gradschool-portal/pkg/types"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type PaymentServiceInterface interface {
	Submit(ctx context.Context, studentID uint64, payload dto.CreateExamPaymentDTO) (*entities.ExamPayment, error)
	GetByID(ctx context.Context, id uint64) (*entities.ExamPayment, error)
	List(ctx context.Context, filter types.Filter) ([]entities.ExamPayment, uint64, error)
	Review(ctx context.Context, id, reviewerID uint64, payload dto.ReviewExamPaymentDTO) (*entities.ExamPayment, error)
	ExportXLSX(ctx context.Context, filter types.Filter) (*excelize.File, error)
}

type PaymentService struct {
	paymentRepo repositories.PaymentRepositoryInterface
	examRepo    repositories.ExamRepositoryInterface
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepositoryInterface,
	examRepo repositories.ExamRepositoryInterface,
	logger *zap.Logger,
) PaymentServiceInterface {
	return &PaymentService{paymentRepo: paymentRepo, examRepo: examRepo, logger: logger}
}

// Submit records a payment against the student's own pending application
// and moves the application into PaymentReview.
func (s *PaymentService) Submit(ctx context.Context, studentID uint64, payload dto.CreateExamPaymentDTO) (*entities.ExamPayment, error) {
	application, err := s.examRepo.FindByID(ctx, payload.ApplicationID)
	if err != nil {
		return nil, apperrors.NewValidationError("application_id", "Application not found.")
	}
	if application.StudentID != studentID {
		return nil, apperrors.ErrForbidden
	}
	if application.Status != constants.ExamStatusPending {
		return nil, apperrors.NewValidationError("application_id", "Application is not awaiting payment.")
	}

	payment := &entities.ExamPayment{
		ApplicationID: payload.ApplicationID,
		StudentID:     studentID,
		ReferenceNo:   payload.ReferenceNo,
		Amount:        payload.Amount,
		ReceiptPath:   payload.ReceiptPath,
		Status:        constants.PaymentStatusSubmitted,
	}
	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Could not record payment", err, nil)
	}

	if err := s.examRepo.UpdateStatus(ctx, application.ID, constants.ExamStatusPaymentReview, application.Remarks, studentID); err != nil {
		s.logger.Error("could not move application to payment review",
			zap.Uint64("applicationID", application.ID), zap.Error(err))
	}
	return created, nil
}

func (s *PaymentService) GetByID(ctx context.Context, id uint64) (*entities.ExamPayment, error) {
	return s.paymentRepo.FindByID(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, filter types.Filter) ([]entities.ExamPayment, uint64, error) {
	return s.paymentRepo.List(ctx, filter)
}

// Review verifies or rejects a submitted payment.
func (s *PaymentService) Review(ctx context.Context, id, reviewerID uint64, payload dto.ReviewExamPaymentDTO) (*entities.ExamPayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != constants.PaymentStatusSubmitted {
		return nil, apperrors.NewValidationError("status", "Payment has already been reviewed.")
	}

	status := constants.PaymentStatusRejected
	if payload.Verify {
		status = constants.PaymentStatusVerified
	}
	if err := s.paymentRepo.UpdateReview(ctx, id, status, payload.Remarks.Ptr(), reviewerID); err != nil {
		return nil, err
	}
	s.logger.Info("payment reviewed",
		zap.Uint64("paymentID", id),
		zap.Uint64("reviewerID", reviewerID),
		zap.String("status", status))
	return s.paymentRepo.FindByID(ctx, id)
}

var paymentExportHeaders = []string{"ID", "Application", "Student", "Reference No", "Amount", "Status", "Reviewed By", "Submitted At"}

// ExportXLSX renders the filtered payment list as a spreadsheet for the
// finance office. Pagination is ignored; the full filtered set is exported.
func (s *PaymentService) ExportXLSX(ctx context.Context, filter types.Filter) (*excelize.File, error) {
	filter.WithPagination = false
	filter.Limit = 0
	filter.Offset = 0

	payments, _, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Payments"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range paymentExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, p := range payments {
		reviewedBy := ""
		if p.ReviewedBy != nil {
			reviewedBy = fmt.Sprintf("%d", *p.ReviewedBy)
		}
		submittedAt := ""
		if p.CreatedAt != nil {
			submittedAt = p.CreatedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{p.ID, p.ApplicationID, p.StudentName, p.ReferenceNo, p.Amount, p.Status, reviewedBy, submittedAt}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	s.logger.Info("payment export generated", zap.Int("rows", len(payments)))
	return f, nil
}
