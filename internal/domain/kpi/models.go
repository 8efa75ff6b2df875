package kpi

import "time"

type Record struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId"`
	EmployeeName       string    `json:"employeeName,omitempty"`
	Month              time.Time `json:"month"`
	TasksCompleted     int       `json:"tasksCompleted"`
	TasksOnTime        int       `json:"tasksOnTime"`
	OnTimePercentage   float64   `json:"onTimePercentage"`
	QualityScore       float64   `json:"qualityScore"`
	CollaborationScore float64   `json:"collaborationScore"`
	InnovationScore    float64   `json:"innovationScore"`
	OverallScore       float64   `json:"overallScore"`
	Notes              string    `json:"notes,omitempty"`
	CreatedBy          string    `json:"createdBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Draft struct {
	EmployeeID         string
	Month              time.Time
	TasksCompleted     int
	TasksOnTime        int
	QualityScore       float64
	CollaborationScore float64
	InnovationScore    float64
	Notes              string
	CreatedBy          string
}

// MonthlyStats is the aggregate view over one month of records.
type MonthlyStats struct {
	Month            string  `json:"month"`
	EmployeeCount    int     `json:"employeeCount"`
	AverageOverall   float64 `json:"averageOverall"`
	AvgQuality       float64 `json:"avgQuality"`
	AvgCollaboration float64 `json:"avgCollaboration"`
	AvgInnovation    float64 `json:"avgInnovation"`
	TotalTasks       int     `json:"totalTasks"`
	TotalOnTime      int     `json:"totalOnTime"`
	OnTimePercentage float64 `json:"onTimePercentage"`
	TopEmployeeID    string  `json:"topEmployeeId,omitempty"`
	TopOverall       float64 `json:"topOverall,omitempty"`
}
