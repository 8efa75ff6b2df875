package evaluation

import (
	"testing"
	"time"
)

func validDraft() Draft {
	pct := 7.5
	return Draft{
		EmployeeID:                "emp-1",
		EvaluatorID:               "user-2",
		PeriodType:                PeriodQuarterly,
		PeriodStart:               time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:                 time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		OverallRating:             RatingMeets,
		SalaryIncreaseRecommended: true,
		RecommendedIncreasePct:    &pct,
	}
}

func hasIssue(issues []Issue, field string) bool {
	for _, issue := range issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func TestValidateAcceptsValidDraft(t *testing.T) {
	if issues := Validate(validDraft()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidatePeriodEndMustBeAfterStart(t *testing.T) {
	draft := validDraft()
	draft.PeriodEnd = draft.PeriodStart
	if issues := Validate(draft); !hasIssue(issues, "periodEnd") {
		t.Fatalf("expected periodEnd issue for equal dates, got %+v", issues)
	}

	draft.PeriodEnd = draft.PeriodStart.AddDate(0, 0, -1)
	if issues := Validate(draft); !hasIssue(issues, "periodEnd") {
		t.Fatalf("expected periodEnd issue for reversed dates, got %+v", issues)
	}
}

func TestValidateIncreaseRequiresPercentage(t *testing.T) {
	draft := validDraft()
	draft.RecommendedIncreasePct = nil
	if issues := Validate(draft); !hasIssue(issues, "recommendedIncreasePercentage") {
		t.Fatalf("expected percentage issue, got %+v", issues)
	}
}

func TestValidatePercentageBounds(t *testing.T) {
	draft := validDraft()
	for _, pct := range []float64{-0.5, 100.5} {
		value := pct
		draft.RecommendedIncreasePct = &value
		if issues := Validate(draft); !hasIssue(issues, "recommendedIncreasePercentage") {
			t.Fatalf("expected bounds issue for %v, got %+v", pct, issues)
		}
	}
	for _, pct := range []float64{0, 100} {
		value := pct
		draft.RecommendedIncreasePct = &value
		if issues := Validate(draft); hasIssue(issues, "recommendedIncreasePercentage") {
			t.Fatalf("%v should be accepted, got %+v", pct, issues)
		}
	}
}

func TestValidateNoPercentageNeededWithoutRecommendation(t *testing.T) {
	draft := validDraft()
	draft.SalaryIncreaseRecommended = false
	draft.RecommendedIncreasePct = nil
	if issues := Validate(draft); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateEnums(t *testing.T) {
	draft := validDraft()
	draft.PeriodType = "monthly"
	if issues := Validate(draft); !hasIssue(issues, "periodType") {
		t.Fatalf("expected periodType issue, got %+v", issues)
	}

	draft = validDraft()
	draft.OverallRating = "superb"
	if issues := Validate(draft); !hasIssue(issues, "overallRating") {
		t.Fatalf("expected overallRating issue, got %+v", issues)
	}
}
