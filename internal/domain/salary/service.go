package salary

import (
	"context"
	"errors"
	"time"
)

var errUnknownAction = errors.New("unknown salary review action")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, reviewID string) (Review, error) {
	return s.store.Get(ctx, reviewID)
}

func (s *Service) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Review, error) {
	return s.store.List(ctx, employeeID, status, limit, offset)
}

// Create snapshots the employee's current salary, derives the increase
// percentage server-side, and opens the review in pending state.
func (s *Service) Create(ctx context.Context, draft Draft) (Review, error) {
	current, err := s.store.EmployeeCurrentSalary(ctx, draft.EmployeeID)
	if err != nil {
		return Review{}, err
	}
	if !ValidProposal(current, draft.ProposedSalary) {
		return Review{}, ErrInvalidProposal(current, draft.ProposedSalary)
	}
	pct := IncreasePercentage(current, draft.ProposedSalary)
	id, err := s.store.Create(ctx, draft, current, pct)
	if err != nil {
		return Review{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, reviewID string, proposedSalary float64, reason, justification string, effectiveDate *time.Time) (Review, error) {
	current, err := s.store.Get(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if !Mutable(current.Status) {
		return Review{}, ErrNotPending
	}
	if !ValidProposal(current.CurrentSalary, proposedSalary) {
		return Review{}, ErrInvalidProposal(current.CurrentSalary, proposedSalary)
	}
	pct := IncreasePercentage(current.CurrentSalary, proposedSalary)
	if err := s.store.UpdatePending(ctx, reviewID, proposedSalary, pct, reason, justification, effectiveDate); err != nil {
		return Review{}, err
	}
	return s.store.Get(ctx, reviewID)
}

func (s *Service) Delete(ctx context.Context, reviewID string) error {
	if _, err := s.store.Get(ctx, reviewID); err != nil {
		return err
	}
	return s.store.DeletePending(ctx, reviewID)
}

// Apply runs one FSM action against a review. Approve and reject record the
// decider; implement additionally writes the new salary to the employee.
func (s *Service) Apply(ctx context.Context, reviewID, action, actorID, comments string) (Review, error) {
	current, err := s.store.Get(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}

	next, err := Next(current.Status, action)
	if err != nil {
		return Review{}, err
	}

	switch action {
	case ActionApprove, ActionReject:
		if err := s.store.Decide(ctx, reviewID, current.Status, next, actorID, comments); err != nil {
			return Review{}, err
		}
	case ActionImplement:
		if _, err := s.store.Implement(ctx, reviewID); err != nil {
			return Review{}, err
		}
	default:
		return Review{}, errUnknownAction
	}

	return s.store.Get(ctx, reviewID)
}

func (s *Service) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	return s.store.EmployeeUserID(ctx, employeeID)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}
