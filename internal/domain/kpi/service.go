package kpi

import (
	"context"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, recordID string) (Record, error) {
	return s.store.Get(ctx, recordID)
}

func (s *Service) List(ctx context.Context, employeeID string, month time.Time, limit, offset int) ([]Record, error) {
	return s.store.List(ctx, employeeID, month, limit, offset)
}

// Create normalizes the month and derives the overall score before writing.
func (s *Service) Create(ctx context.Context, draft Draft) (Record, error) {
	overall := OverallScore(draft.QualityScore, draft.CollaborationScore, draft.InnovationScore)
	id, err := s.store.Create(ctx, draft, overall)
	if err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, recordID string, draft Draft) (Record, error) {
	overall := OverallScore(draft.QualityScore, draft.CollaborationScore, draft.InnovationScore)
	if err := s.store.Update(ctx, recordID, draft, overall); err != nil {
		return Record{}, err
	}
	return s.store.Get(ctx, recordID)
}

func (s *Service) Delete(ctx context.Context, recordID string) error {
	return s.store.Delete(ctx, recordID)
}

// Stats aggregates one month of records in memory.
func (s *Service) Stats(ctx context.Context, month time.Time) (MonthlyStats, error) {
	records, err := s.store.ListMonth(ctx, month)
	if err != nil {
		return MonthlyStats{}, err
	}
	return Aggregate(NormalizeMonth(month).Format("2006-01"), records), nil
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}

func (s *Service) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	return s.store.EmployeeUserID(ctx, employeeID)
}
