package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "open"        // Created, not yet started
	StatusInProgress Status = "in_progress" // Work underway
	StatusClosed     Status = "closed"      // Completed successfully
	StatusFailed     Status = "failed"      // Terminated unsuccessfully
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusOpen,
		StatusInProgress,
		StatusClosed,
		StatusFailed,
	}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusFailed
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusClosed:
		return "Closed"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}
