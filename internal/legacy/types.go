package legacy

import "time"

// Session is the authenticated scraping session handed back by the legacy
// portal. It is opaque to callers: cached as JSON under
// legacy_session_{user_id} and replayed on follow-up portal calls.
type Session struct {
	Cookie   string    `json:"cookie"`
	IssuedAt time.Time `json:"issued_at"`
}

// StudentName as displayed on the portal home page.
type StudentName struct {
	FirstName string
	LastName  string
}

// ClearanceRecord is a row from the legacy clearance-by-keyword endpoint.
// It lives only for the duration of a login attempt; selected fields are
// copied onto the local user and the rest is discarded.
type ClearanceRecord struct {
	Firstname       string  `json:"firstname"`
	Lastname        string  `json:"lastname"`
	Middlename      string  `json:"middlename"`
	AccountID       int64   `json:"account_id"`
	StudentNumber   string  `json:"student_number"`
	DegreeCode      string  `json:"degree_code"`
	DegreeProgramID int64   `json:"degree_program_id"`
	YearLevel       string  `json:"year_level"`
	Balance         float64 `json:"balance"`
	StatusCode      string  `json:"statuscode"`
}
