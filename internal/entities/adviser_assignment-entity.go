package entities

import "gradschool-portal/pkg/types"

type AdviserAssignment struct {
	ID        uint64 `json:"id" db:"id"`
	AdviserID uint64 `json:"adviser_id" db:"adviser_id"`
	StudentID uint64 `json:"student_id" db:"student_id"`

	// Snapshot names for list views, joined from users.
	AdviserName string `json:"adviser_name" db:"-"`
	StudentName string `json:"student_name" db:"-"`

	types.BaseEntity
	types.SoftDelete
}
