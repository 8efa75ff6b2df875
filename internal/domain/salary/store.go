package salary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reviewColumns = `
  sr.id, sr.employee_id,
  COALESCE(u.first_name || ' ' || u.last_name, ''),
  sr.requested_by, sr.current_salary, sr.proposed_salary, sr.increase_percentage,
  COALESCE(sr.reason, ''), COALESCE(sr.justification, ''), sr.effective_date,
  sr.status, COALESCE(sr.approved_by::text, ''), sr.approved_at, sr.implemented_at,
  COALESCE(sr.review_comments, ''), sr.created_at, sr.updated_at`

const reviewFrom = `
  FROM salary_reviews sr
  JOIN employees e ON sr.employee_id = e.id
  JOIN users u ON e.user_id = u.id`

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.RequestedBy,
		&r.CurrentSalary, &r.ProposedSalary, &r.IncreasePercentage,
		&r.Reason, &r.Justification, &r.EffectiveDate,
		&r.Status, &r.ApprovedBy, &r.ApprovedAt, &r.ImplementedAt,
		&r.ReviewComments, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Store) Get(ctx context.Context, reviewID string) (Review, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+reviewColumns+reviewFrom+" WHERE sr.id = $1", reviewID)
	review, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrReviewNotFound
	}
	return review, err
}

func (s *Store) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Review, error) {
	query := "SELECT" + reviewColumns + reviewFrom + " WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		query += fmt.Sprintf(" AND sr.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	if status != "" {
		query += fmt.Sprintf(" AND sr.status = $%d", len(args)+1)
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY sr.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	return out, nil
}

func (s *Store) EmployeeCurrentSalary(ctx context.Context, employeeID string) (float64, error) {
	var current float64
	err := s.DB.QueryRow(ctx, "SELECT current_salary FROM employees WHERE id = $1", employeeID).Scan(&current)
	return current, err
}

func (s *Store) Create(ctx context.Context, draft Draft, currentSalary, increasePct float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_reviews (employee_id, requested_by, current_salary, proposed_salary,
      increase_percentage, reason, justification, effective_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, draft.EmployeeID, draft.RequestedBy, currentSalary, draft.ProposedSalary,
		increasePct, draft.Reason, draft.Justification, draft.EffectiveDate, StatusPending).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdatePending rewrites the editable fields of a pending review and
// recomputes the derived percentage. The status guard in the WHERE clause
// makes concurrent decisions lose gracefully.
func (s *Store) UpdatePending(ctx context.Context, reviewID string, proposedSalary, increasePct float64, reason, justification string, effectiveDate *time.Time) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE salary_reviews
    SET proposed_salary = $1, increase_percentage = $2, reason = $3,
        justification = $4, effective_date = $5, updated_at = now()
    WHERE id = $6 AND status = $7
  `, proposedSalary, increasePct, reason, justification, effectiveDate, reviewID, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

func (s *Store) DeletePending(ctx context.Context, reviewID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM salary_reviews WHERE id = $1 AND status = $2", reviewID, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}

// Decide applies approve or reject. The status guard keeps the transition
// atomic under concurrent decisions.
func (s *Store) Decide(ctx context.Context, reviewID, fromStatus, toStatus, approverID, comments string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE salary_reviews
    SET status = $1, approved_by = $2, approved_at = now(),
        review_comments = $3, updated_at = now()
    WHERE id = $4 AND status = $5
  `, toStatus, approverID, comments, reviewID, fromStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// Implement moves an approved review to implemented and applies the raise to
// the employee row in one transaction. The approved-status guard means the
// salary is written exactly once no matter how many times this is called.
func (s *Store) Implement(ctx context.Context, reviewID string) (Review, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Review{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var review Review
	err = tx.QueryRow(ctx, `
    UPDATE salary_reviews
    SET status = $1, implemented_at = now(), updated_at = now()
    WHERE id = $2 AND status = $3
    RETURNING id, employee_id, proposed_salary, effective_date
  `, StatusImplemented, reviewID, StatusApproved).Scan(&review.ID, &review.EmployeeID, &review.ProposedSalary, &review.EffectiveDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrInvalidState
	}
	if err != nil {
		return Review{}, err
	}

	reviewDate := time.Now().UTC()
	if review.EffectiveDate != nil {
		reviewDate = *review.EffectiveDate
	}
	cmd, err := tx.Exec(ctx, `
    UPDATE employees
    SET current_salary = $1, last_salary_review = $2, updated_at = now()
    WHERE id = $3
  `, review.ProposedSalary, reviewDate, review.EmployeeID)
	if err != nil {
		return Review{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Review{}, errors.New("employee not found for salary review")
	}

	if err := tx.Commit(ctx); err != nil {
		return Review{}, err
	}
	return review, nil
}

func (s *Store) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, "SELECT user_id FROM employees WHERE id = $1", employeeID).Scan(&userID)
	return userID, err
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var employeeID string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&employeeID)
	return employeeID, err
}
