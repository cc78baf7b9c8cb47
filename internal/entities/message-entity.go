package entities

import (
	"time"

	"gradschool-portal/pkg/types"
)

type Message struct {
	ID          uint64     `json:"id" db:"id"`
	SenderID    uint64     `json:"sender_id" db:"sender_id"`
	RecipientID uint64     `json:"recipient_id" db:"recipient_id"`
	Subject     string     `json:"subject" db:"subject"`
	Body        string     `json:"body" db:"body"`
	ReadAt      *time.Time `json:"read_at" db:"read_at"`

	SenderName string `json:"sender_name" db:"-"`

	types.BaseEntity
}
