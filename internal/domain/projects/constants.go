package projects

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

var ProjectStatuses = []string{
	ProjectStatusPlanning,
	ProjectStatusActive,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
}

const (
	TaskStatusNew           = "new"
	TaskStatusAssigned      = "assigned"
	TaskStatusWorking       = "working"
	TaskStatusReviewPending = "review_pending"
	TaskStatusApproved      = "approved"
	TaskStatusRejected      = "rejected"
	TaskStatusCompleted     = "completed"
)

var TaskStatuses = []string{
	TaskStatusNew,
	TaskStatusAssigned,
	TaskStatusWorking,
	TaskStatusReviewPending,
	TaskStatusApproved,
	TaskStatusRejected,
	TaskStatusCompleted,
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ValidProjectStatus(status string) bool {
	for _, candidate := range ProjectStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func ValidPriority(priority string) bool {
	for _, candidate := range Priorities {
		if candidate == priority {
			return true
		}
	}
	return false
}
