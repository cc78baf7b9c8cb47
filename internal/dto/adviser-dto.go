package dto

type CreateAdviserAssignmentDTO struct {
	AdviserID uint64 `json:"adviser_id" validate:"required"`
	StudentID uint64 `json:"student_id" validate:"required"`
}
