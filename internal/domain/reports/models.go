package reports

import "time"

type Report struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	EmployeeName      string     `json:"employeeName,omitempty"`
	ReportType        string     `json:"reportType"`
	PeriodStart       time.Time  `json:"periodStart"`
	PeriodEnd         time.Time  `json:"periodEnd"`
	Summary           string     `json:"summary"`
	Achievements      string     `json:"achievements,omitempty"`
	Challenges        string     `json:"challenges,omitempty"`
	PlanNextPeriod    string     `json:"planNextPeriod,omitempty"`
	TasksCompleted    int        `json:"tasksCompleted"`
	HoursWorked       float64    `json:"hoursWorked"`
	ManagerFeedback   string     `json:"managerFeedback,omitempty"`
	ManagerReviewedBy string     `json:"managerReviewedBy,omitempty"`
	ManagerReviewedAt *time.Time `json:"managerReviewedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type Draft struct {
	EmployeeID     string    `json:"employeeId"`
	ReportType     string    `json:"reportType"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	Summary        string    `json:"summary"`
	Achievements   string    `json:"achievements"`
	Challenges     string    `json:"challenges"`
	PlanNextPeriod string    `json:"planNextPeriod"`
	TasksCompleted int       `json:"tasksCompleted"`
	HoursWorked    float64   `json:"hoursWorked"`
}
