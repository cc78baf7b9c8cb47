package constants

// Comprehensive exam application pipeline.
const (
	ExamStatusPending       = "Pending"
	ExamStatusPaymentReview = "PaymentReview"
	ExamStatusApproved      = "Approved"
	ExamStatusRejected      = "Rejected"
)

// Payment review outcomes.
const (
	PaymentStatusSubmitted = "Submitted"
	PaymentStatusVerified  = "Verified"
	PaymentStatusRejected  = "Rejected"
)
