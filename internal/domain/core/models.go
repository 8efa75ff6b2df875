package core

import "time"

type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ManagerID   string    `json:"managerId,omitempty"`
	Headcount   int       `json:"headcount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CareerPath struct {
	ID                 string  `json:"id"`
	Level              int     `json:"level"`
	Title              string  `json:"title"`
	MinYearsExperience int     `json:"minYearsExperience"`
	MinSalary          float64 `json:"minSalary"`
	MaxSalary          float64 `json:"maxSalary"`
	Requirements       string  `json:"requirements,omitempty"`
	Benefits           string  `json:"benefits,omitempty"`
}

type Employee struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"userId"`
	EmployeeCode          string     `json:"employeeCode"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Email                 string     `json:"email"`
	Role                  string     `json:"role"`
	DepartmentID          string     `json:"departmentId,omitempty"`
	DepartmentName        string     `json:"departmentName,omitempty"`
	CareerPathID          string     `json:"careerPathId,omitempty"`
	CareerLevel           int        `json:"careerLevel,omitempty"`
	Position              string     `json:"position"`
	ContractType          string     `json:"contractType"`
	JoinDate              *time.Time `json:"joinDate,omitempty"`
	CurrentSalary         *float64   `json:"currentSalary,omitempty"`
	LastSalaryReview      *time.Time `json:"lastSalaryReview,omitempty"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	CitizenID             string     `json:"citizenId,omitempty"`
	Address               string     `json:"address,omitempty"`
	EmergencyContactName  string     `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string     `json:"emergencyContactPhone,omitempty"`
	IsActive              bool       `json:"isActive"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

type EmployeeFilter struct {
	DepartmentID string
	ContractType string
	Active       *bool
	Search       string
}
