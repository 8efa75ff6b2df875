package salary

import "time"

type Review struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	EmployeeName       string     `json:"employeeName,omitempty"`
	RequestedBy        string     `json:"requestedBy"`
	CurrentSalary      float64    `json:"currentSalary"`
	ProposedSalary     float64    `json:"proposedSalary"`
	IncreasePercentage float64    `json:"increasePercentage"`
	Reason             string     `json:"reason"`
	Justification      string     `json:"justification"`
	EffectiveDate      *time.Time `json:"effectiveDate,omitempty"`
	Status             string     `json:"status"`
	ApprovedBy         string     `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`
	ImplementedAt      *time.Time `json:"implementedAt,omitempty"`
	ReviewComments     string     `json:"reviewComments,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type Draft struct {
	EmployeeID     string
	RequestedBy    string
	ProposedSalary float64
	Reason         string
	Justification  string
	EffectiveDate  *time.Time
}
