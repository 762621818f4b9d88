package types

// Status represents the execution status of a step or a whole plan
// This is a unified enum used across all state tracking (DRY principle)
type Status string

const (
	// StatusPending indicates work has not started
	StatusPending Status = "pending"
	// StatusInProgress indicates work is currently executing
	StatusInProgress Status = "in-progress"
	// StatusCompleted indicates work has successfully finished
	StatusCompleted Status = "completed"
	// StatusFailed indicates work has failed
	StatusFailed Status = "failed"
)

// IsValid checks if a status value is valid
func (s Status) IsValid() bool {
	for _, valid := range AllStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// AllStatuses returns all valid status values
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusFailed}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Icon returns a single-character display symbol for the status
func (s Status) Icon() string {
	switch s {
	case StatusCompleted:
		return "✓"
	case StatusInProgress:
		return "◐"
	case StatusFailed:
		return "✗"
	default:
		return "○"
	}
}
