package salary

import (
	"errors"
	"fmt"
)

var (
	ErrReviewNotFound = errors.New("salary review not found")
	ErrInvalidState   = errors.New("salary review is not in a state that allows this action")
	ErrNotPending     = errors.New("salary review can only be modified while pending")
)

// ProposalError reports a proposed salary that does not exceed the current
// salary. Handlers surface it as a field-level validation failure.
type ProposalError struct {
	Current  float64
	Proposed float64
}

func (e *ProposalError) Error() string {
	return fmt.Sprintf("proposed salary %.2f must be greater than current salary %.2f", e.Proposed, e.Current)
}

func ErrInvalidProposal(current, proposed float64) error {
	return &ProposalError{Current: current, Proposed: proposed}
}
