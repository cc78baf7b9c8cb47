package constants

const (
	DefenseStatusScheduled = "Scheduled"
	DefenseStatusCompleted = "Completed"
	DefenseStatusCancelled = "Cancelled"
)
