package dto

type LoginDTO struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required,max=100"`
	Password   string `json:"password" form:"password" validate:"required"`
	Remember   bool   `json:"remember" form:"remember"`
}

type AuthResponseDTO struct {
	AccessToken string         `json:"accessToken"`
	FirstLogin  bool           `json:"first_login"`
	User        UserProfileDTO `json:"user"`
}

type UserProfileDTO struct {
	ID                  uint64   `json:"id"`
	Email               string   `json:"email"`
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	Role                string   `json:"role"`
	Roles               []string `json:"roles"`
	StudentNumber       *string  `json:"student_number,omitempty"`
	SchoolID            *string  `json:"school_id,omitempty"`
	DegreeCode          *string  `json:"degree_code,omitempty"`
	YearLevel           *string  `json:"year_level,omitempty"`
	ClearanceStatusCode *string  `json:"clearance_statuscode,omitempty"`
}
