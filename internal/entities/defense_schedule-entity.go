package entities

import (
	"time"

	"gradschool-portal/pkg/types"
)

type DefenseSchedule struct {
	ID          uint64    `json:"id" db:"id"`
	StudentID   uint64    `json:"student_id" db:"student_id"`
	Title       string    `json:"title" db:"title"`
	Room        string    `json:"room" db:"room"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	EndsAt      time.Time `json:"ends_at" db:"ends_at"`
	Status      string    `json:"status" db:"status"`

	PanelMemberIDs []uint64 `json:"panel_member_ids" db:"-"`
	StudentName    string   `json:"student_name" db:"-"`

	types.BaseEntity
	types.SoftDelete
}
