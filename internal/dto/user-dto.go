package dto

type UserListItemDTO struct {
	ID            uint64  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Role          string  `json:"role"`
	StudentNumber *string `json:"student_number,omitempty"`
	SchoolID      *string `json:"school_id,omitempty"`
	DegreeCode    *string `json:"degree_code,omitempty"`
	YearLevel     *string `json:"year_level,omitempty"`
}

type GrantRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=Student Faculty Coordinator Dean Chair"`
}
