package projects

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReviewOutcomeApproved      = "approved"
	ReviewOutcomeRejected      = "rejected"
	ReviewOutcomeNeedsRevision = "needs_revision"
)

var ReviewOutcomes = []string{
	ReviewOutcomeApproved,
	ReviewOutcomeRejected,
	ReviewOutcomeNeedsRevision,
}

func ValidReviewOutcome(outcome string) bool {
	for _, candidate := range ReviewOutcomes {
		if candidate == outcome {
			return true
		}
	}
	return false
}

const (
	RuleCategoryLayout     = "layout"
	RuleCategoryTypography = "typography"
	RuleCategoryColor      = "color"
	RuleCategoryContent    = "content"
	RuleCategoryAnimation  = "animation"
	RuleCategoryOther      = "other"
)

var RuleCategories = []string{
	RuleCategoryLayout,
	RuleCategoryTypography,
	RuleCategoryColor,
	RuleCategoryContent,
	RuleCategoryAnimation,
	RuleCategoryOther,
}

func ValidRuleCategory(category string) bool {
	for _, candidate := range RuleCategories {
		if candidate == category {
			return true
		}
	}
	return false
}

// DesignRule is a per-project acceptance criterion that reviewers check
// submitted work against.
type DesignRule struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	IsRequired  bool      `json:"isRequired"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewCriterion records the reviewer's verdict on one design rule.
type ReviewCriterion struct {
	ID           string `json:"id"`
	DesignRuleID string `json:"designRuleId"`
	RuleName     string `json:"ruleName,omitempty"`
	RuleCategory string `json:"ruleCategory,omitempty"`
	IsMet        bool   `json:"isMet"`
	Comment      string `json:"comment,omitempty"`
}

type TaskReview struct {
	ID                 string            `json:"id"`
	TaskID             string            `json:"taskId"`
	TaskTitle          string            `json:"taskTitle,omitempty"`
	ReviewerID         string            `json:"reviewerId,omitempty"`
	ReviewerName       string            `json:"reviewerName,omitempty"`
	Outcome            string            `json:"outcome"`
	Comment            string            `json:"comment,omitempty"`
	Criteria           []ReviewCriterion `json:"criteria,omitempty"`
	TotalCriteria      int               `json:"totalCriteria"`
	MetCriteria        int               `json:"metCriteria"`
	CriteriaPercentage float64           `json:"criteriaPercentage"`
	ReviewedAt         time.Time         `json:"reviewedAt"`
}

type CriterionDraft struct {
	DesignRuleID string
	IsMet        bool
	Comment      string
}

type ReviewDraft struct {
	TaskID     string
	ReviewerID string
	Outcome    string
	Comment    string
	Criteria   []CriterionDraft
}

// CriteriaProgress counts met criteria and derives the percentage met,
// rounded to 2 decimals. An empty list yields zero percent.
func CriteriaProgress(criteria []ReviewCriterion) (total, met int, percentage float64) {
	total = len(criteria)
	if total == 0 {
		return 0, 0, 0
	}
	for _, criterion := range criteria {
		if criterion.IsMet {
			met++
		}
	}
	percentage, _ = decimal.NewFromInt(int64(met)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).Float64()
	return total, met, percentage
}

// ReviewStatusChange maps a review outcome to the task status it drives.
// needs_revision leaves the task in review_pending for another pass, so it
// reports no change.
func ReviewStatusChange(outcome string) (string, bool) {
	switch outcome {
	case ReviewOutcomeApproved:
		return TaskStatusApproved, true
	case ReviewOutcomeRejected:
		return TaskStatusRejected, true
	default:
		return "", false
	}
}
