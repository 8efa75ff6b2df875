package evaluation

// Issue is one field-level validation failure.
type Issue struct {
	Field  string
	Reason string
}

// Validate applies the evaluation invariants: the period must be a known
// type with end strictly after start, the rating must be in the enum, and a
// recommended salary increase needs a percentage in [0,100].
func Validate(d Draft) []Issue {
	var issues []Issue

	if d.EmployeeID == "" {
		issues = append(issues, Issue{Field: "employeeId", Reason: "is required"})
	}
	if !validEnum(d.PeriodType, PeriodTypes) {
		issues = append(issues, Issue{Field: "periodType", Reason: "must be one of quarterly, semi_annual, annual"})
	}
	if d.PeriodStart.IsZero() {
		issues = append(issues, Issue{Field: "periodStart", Reason: "is required"})
	}
	if d.PeriodEnd.IsZero() {
		issues = append(issues, Issue{Field: "periodEnd", Reason: "is required"})
	}
	if !d.PeriodStart.IsZero() && !d.PeriodEnd.IsZero() && !d.PeriodEnd.After(d.PeriodStart) {
		issues = append(issues, Issue{Field: "periodEnd", Reason: "must be strictly after periodStart"})
	}
	if !validEnum(d.OverallRating, Ratings) {
		issues = append(issues, Issue{Field: "overallRating", Reason: "is not a valid rating"})
	}
	if d.SalaryIncreaseRecommended {
		if d.RecommendedIncreasePct == nil {
			issues = append(issues, Issue{Field: "recommendedIncreasePercentage", Reason: "is required when a salary increase is recommended"})
		} else if *d.RecommendedIncreasePct < 0 || *d.RecommendedIncreasePct > 100 {
			issues = append(issues, Issue{Field: "recommendedIncreasePercentage", Reason: "must be between 0 and 100"})
		}
	}

	return issues
}

func validEnum(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
