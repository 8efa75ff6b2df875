package projects

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidState      = errors.New("task status transition not allowed")
	ErrNotAssignee       = errors.New("task is assigned to a different user")
	ErrRuleNotFound      = errors.New("design rule not found")
	ErrReviewNotFound    = errors.New("task review not found")
	ErrUnknownRule       = errors.New("criterion references an unknown design rule")
	ErrDuplicateCriteria = errors.New("a design rule may appear in a review only once")
)
