package evaluation

import "time"

type Evaluation struct {
	ID                        string     `json:"id"`
	EmployeeID                string     `json:"employeeId"`
	EmployeeName              string     `json:"employeeName,omitempty"`
	EvaluatorID               string     `json:"evaluatorId"`
	PeriodType                string     `json:"periodType"`
	PeriodStart               time.Time  `json:"periodStart"`
	PeriodEnd                 time.Time  `json:"periodEnd"`
	OverallRating             string     `json:"overallRating"`
	Strengths                 string     `json:"strengths,omitempty"`
	AreasForImprovement       string     `json:"areasForImprovement,omitempty"`
	Achievements              string     `json:"achievements,omitempty"`
	GoalsNextPeriod           string     `json:"goalsNextPeriod,omitempty"`
	PromotionRecommended      bool       `json:"promotionRecommended"`
	SalaryIncreaseRecommended bool       `json:"salaryIncreaseRecommended"`
	RecommendedIncreasePct    *float64   `json:"recommendedIncreasePercentage,omitempty"`
	EmployeeComments          string     `json:"employeeComments,omitempty"`
	EmployeeAcknowledged      bool       `json:"employeeAcknowledged"`
	EmployeeAcknowledgedAt    *time.Time `json:"employeeAcknowledgedAt,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

type Draft struct {
	EmployeeID                string
	EvaluatorID               string
	PeriodType                string
	PeriodStart               time.Time
	PeriodEnd                 time.Time
	OverallRating             string
	Strengths                 string
	AreasForImprovement       string
	Achievements              string
	GoalsNextPeriod           string
	PromotionRecommended      bool
	SalaryIncreaseRecommended bool
	RecommendedIncreasePct    *float64
}
