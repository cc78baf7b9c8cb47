package entities

import "gradschool-portal/pkg/types"

type ExamApplication struct {
	ID         uint64  `json:"id" db:"id"`
	StudentID  uint64  `json:"student_id" db:"student_id"`
	ExamPeriod string  `json:"exam_period" db:"exam_period"`
	Status     string  `json:"status" db:"status"`
	Remarks    *string `json:"remarks" db:"remarks"`
	ReviewedBy *uint64 `json:"reviewed_by" db:"reviewed_by"`

	StudentName string `json:"student_name" db:"-"`

	types.BaseEntity
	types.SoftDelete
}
