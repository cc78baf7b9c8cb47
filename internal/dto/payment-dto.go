package dto

import "github.com/aarondl/null/v8"

type CreateExamPaymentDTO struct {
	ApplicationID uint64  `json:"application_id" validate:"required"`
	ReferenceNo   string  `json:"reference_no" validate:"required,max=100"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	ReceiptPath   *string `json:"receipt_path" validate:"omitempty,max=255"`
}

type ReviewExamPaymentDTO struct {
	Verify  bool        `json:"verify"`
	Remarks null.String `json:"remarks" validate:"omitempty,max=500"`
}
