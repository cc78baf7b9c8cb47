package entities

import "gradschool-portal/pkg/types"

type ExamPayment struct {
	ID            uint64  `json:"id" db:"id"`
	ApplicationID uint64  `json:"application_id" db:"application_id"`
	StudentID     uint64  `json:"student_id" db:"student_id"`
	ReferenceNo   string  `json:"reference_no" db:"reference_no"`
	Amount        float64 `json:"amount" db:"amount"`
	ReceiptPath   *string `json:"receipt_path" db:"receipt_path"`
	Status        string  `json:"status" db:"status"`
	ReviewedBy    *uint64 `json:"reviewed_by" db:"reviewed_by"`
	ReviewRemarks *string `json:"review_remarks" db:"review_remarks"`

	StudentName string `json:"student_name" db:"-"`

	types.BaseEntity
	types.SoftDelete
}
