package projects

import "time"

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ClientName  string     `json:"clientName,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	TaskCount   int        `json:"taskCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Task struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	ProjectName  string     `json:"projectName,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	AssigneeName string     `json:"assigneeName,omitempty"`
	AssignedBy   string     `json:"assignedBy,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Price        float64    `json:"price"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	IsOverdue    bool       `json:"isOverdue"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type TaskFilter struct {
	ProjectID  string
	AssignedTo string
	Status     string
	Priority   string
}

// IsOverdue reports whether the task is past its due date while still in
// flight. Approved and completed tasks are never overdue.
func IsOverdue(task Task, now time.Time) bool {
	if task.DueDate == nil {
		return false
	}
	if task.Status == TaskStatusCompleted || task.Status == TaskStatusApproved {
		return false
	}
	return now.After(*task.DueDate)
}
