package projects

import "testing"

func TestReviewStatusChange(t *testing.T) {
	status, move := ReviewStatusChange(ReviewOutcomeApproved)
	if !move || status != TaskStatusApproved {
		t.Fatalf("expected approved review to move task to approved, got %q move=%v", status, move)
	}

	status, move = ReviewStatusChange(ReviewOutcomeRejected)
	if !move || status != TaskStatusRejected {
		t.Fatalf("expected rejected review to move task to rejected, got %q move=%v", status, move)
	}

	if _, move := ReviewStatusChange(ReviewOutcomeNeedsRevision); move {
		t.Fatal("needs_revision must leave the task awaiting review")
	}
}

func TestReviewStatusChangesPassWorkflow(t *testing.T) {
	// Outcomes that move the task must map to transitions the workflow
	// allows from review_pending.
	for _, outcome := range ReviewOutcomes {
		status, move := ReviewStatusChange(outcome)
		if !move {
			continue
		}
		if !CanTransition(TaskStatusReviewPending, status) {
			t.Fatalf("review outcome %q drives disallowed transition review_pending -> %s", outcome, status)
		}
	}
}

func TestCriteriaProgress(t *testing.T) {
	criteria := []ReviewCriterion{
		{DesignRuleID: "r1", IsMet: true},
		{DesignRuleID: "r2", IsMet: false},
		{DesignRuleID: "r3", IsMet: true},
	}

	total, met, pct := CriteriaProgress(criteria)
	if total != 3 || met != 2 {
		t.Fatalf("expected 2 of 3 met, got %d of %d", met, total)
	}
	if pct != 66.67 {
		t.Fatalf("expected 66.67 percent, got %v", pct)
	}
}

func TestCriteriaProgressEmpty(t *testing.T) {
	total, met, pct := CriteriaProgress(nil)
	if total != 0 || met != 0 || pct != 0 {
		t.Fatalf("expected zeros for empty criteria, got %d/%d/%v", total, met, pct)
	}
}

func TestValidReviewOutcome(t *testing.T) {
	for _, outcome := range ReviewOutcomes {
		if !ValidReviewOutcome(outcome) {
			t.Fatalf("expected %q to be a valid outcome", outcome)
		}
	}
	if ValidReviewOutcome("pending") || ValidReviewOutcome("") {
		t.Fatal("unknown outcomes must be rejected")
	}
}

func TestValidRuleCategory(t *testing.T) {
	for _, category := range RuleCategories {
		if !ValidRuleCategory(category) {
			t.Fatalf("expected %q to be a valid category", category)
		}
	}
	if ValidRuleCategory("branding") {
		t.Fatal("unknown categories must be rejected")
	}
}
