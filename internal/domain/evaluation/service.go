package evaluation

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, evaluationID string) (Evaluation, error) {
	return s.store.Get(ctx, evaluationID)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Evaluation, error) {
	return s.store.List(ctx, employeeID, limit, offset)
}

func (s *Service) Create(ctx context.Context, draft Draft) (Evaluation, error) {
	id, err := s.store.Create(ctx, draft)
	if err != nil {
		return Evaluation{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, evaluationID string, draft Draft) (Evaluation, error) {
	if err := s.store.Update(ctx, evaluationID, draft); err != nil {
		return Evaluation{}, err
	}
	return s.store.Get(ctx, evaluationID)
}

func (s *Service) Delete(ctx context.Context, evaluationID string) error {
	return s.store.Delete(ctx, evaluationID)
}

// Acknowledge is restricted to the evaluated employee and may only happen
// once.
func (s *Service) Acknowledge(ctx context.Context, evaluationID, callerUserID, comments string) (Evaluation, error) {
	current, err := s.store.Get(ctx, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}
	ownerUserID, err := s.store.EmployeeUserID(ctx, current.EmployeeID)
	if err != nil {
		return Evaluation{}, err
	}
	if ownerUserID != callerUserID {
		return Evaluation{}, ErrNotOwnEvaluation
	}
	if current.EmployeeAcknowledged {
		return Evaluation{}, ErrAlreadyAcknowledged
	}
	if err := s.store.Acknowledge(ctx, evaluationID, comments); err != nil {
		return Evaluation{}, err
	}
	return s.store.Get(ctx, evaluationID)
}

func (s *Service) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	return s.store.EmployeeUserID(ctx, employeeID)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}
