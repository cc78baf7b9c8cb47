package dto

import "time"

type CreateDefenseScheduleDTO struct {
	StudentID      uint64    `json:"student_id" validate:"required"`
	Title          string    `json:"title" validate:"required,max=255"`
	Room           string    `json:"room" validate:"required,max=50"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required,gtfield=ScheduledAt"`
	PanelMemberIDs []uint64  `json:"panel_member_ids" validate:"required,min=1,dive,required"`
}

type UpdateDefenseScheduleDTO struct {
	Title          string    `json:"title" validate:"required,max=255"`
	Room           string    `json:"room" validate:"required,max=50"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required,gtfield=ScheduledAt"`
	Status         string    `json:"status" validate:"required,oneof=Scheduled Completed Cancelled"`
	PanelMemberIDs []uint64  `json:"panel_member_ids" validate:"required,min=1,dive,required"`
}
