package dto

import "github.com/aarondl/null/v8"

type CreateExamApplicationDTO struct {
	ExamPeriod string `json:"exam_period" validate:"required,max=50"`
}

type ReviewExamApplicationDTO struct {
	Approve bool        `json:"approve"`
	Remarks null.String `json:"remarks" validate:"omitempty,max=500"`
}
