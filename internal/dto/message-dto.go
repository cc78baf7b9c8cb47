package dto

type SendMessageDTO struct {
	RecipientID uint64 `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=255"`
	Body        string `json:"body" validate:"required"`
}
