package dto

type GenerateFormDTO struct {
	// Form kinds map to pre-rendered HTML pages served to the converter.
	Kind      string `json:"kind" validate:"required,oneof=endorsement exam_permit defense_notice"`
	SubjectID uint64 `json:"subject_id" validate:"required"`
}

type GeneratedFormDTO struct {
	URL string `json:"url"`
}
