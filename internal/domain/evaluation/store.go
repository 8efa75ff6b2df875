package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const evalColumns = `
  ev.id, ev.employee_id,
  COALESCE(u.first_name || ' ' || u.last_name, ''),
  ev.evaluator_id, ev.period_type, ev.period_start, ev.period_end,
  ev.overall_rating, COALESCE(ev.strengths, ''), COALESCE(ev.areas_for_improvement, ''),
  COALESCE(ev.achievements, ''), COALESCE(ev.goals_next_period, ''),
  ev.promotion_recommended, ev.salary_increase_recommended, ev.recommended_increase_percentage,
  COALESCE(ev.employee_comments, ''), ev.employee_acknowledged, ev.employee_acknowledged_at,
  ev.created_at, ev.updated_at`

const evalFrom = `
  FROM evaluations ev
  JOIN employees e ON ev.employee_id = e.id
  JOIN users u ON e.user_id = u.id`

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var ev Evaluation
	err := row.Scan(
		&ev.ID, &ev.EmployeeID, &ev.EmployeeName, &ev.EvaluatorID,
		&ev.PeriodType, &ev.PeriodStart, &ev.PeriodEnd,
		&ev.OverallRating, &ev.Strengths, &ev.AreasForImprovement,
		&ev.Achievements, &ev.GoalsNextPeriod,
		&ev.PromotionRecommended, &ev.SalaryIncreaseRecommended, &ev.RecommendedIncreasePct,
		&ev.EmployeeComments, &ev.EmployeeAcknowledged, &ev.EmployeeAcknowledgedAt,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	return ev, err
}

func (s *Store) Get(ctx context.Context, evaluationID string) (Evaluation, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+evalColumns+evalFrom+" WHERE ev.id = $1", evaluationID)
	ev, err := scanEvaluation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evaluation{}, ErrEvaluationNotFound
	}
	return ev, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Evaluation, error) {
	query := "SELECT" + evalColumns + evalFrom + " WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		query += fmt.Sprintf(" AND ev.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	query += fmt.Sprintf(" ORDER BY ev.period_end DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, draft Draft) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluations (employee_id, evaluator_id, period_type, period_start, period_end,
      overall_rating, strengths, areas_for_improvement, achievements, goals_next_period,
      promotion_recommended, salary_increase_recommended, recommended_increase_percentage)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, draft.EmployeeID, draft.EvaluatorID, draft.PeriodType, draft.PeriodStart, draft.PeriodEnd,
		draft.OverallRating, draft.Strengths, draft.AreasForImprovement, draft.Achievements,
		draft.GoalsNextPeriod, draft.PromotionRecommended, draft.SalaryIncreaseRecommended,
		draft.RecommendedIncreasePct).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, evaluationID string, draft Draft) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET period_type = $1, period_start = $2, period_end = $3, overall_rating = $4,
        strengths = $5, areas_for_improvement = $6, achievements = $7, goals_next_period = $8,
        promotion_recommended = $9, salary_increase_recommended = $10,
        recommended_increase_percentage = $11, updated_at = now()
    WHERE id = $12
  `, draft.PeriodType, draft.PeriodStart, draft.PeriodEnd, draft.OverallRating,
		draft.Strengths, draft.AreasForImprovement, draft.Achievements, draft.GoalsNextPeriod,
		draft.PromotionRecommended, draft.SalaryIncreaseRecommended, draft.RecommendedIncreasePct,
		evaluationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEvaluationNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, evaluationID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM evaluations WHERE id = $1", evaluationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEvaluationNotFound
	}
	return nil
}

// Acknowledge flips the one-way acknowledgment flag. The guard in the WHERE
// clause makes a second acknowledgment a no-op failure rather than an
// update of the original timestamp.
func (s *Store) Acknowledge(ctx context.Context, evaluationID, comments string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET employee_acknowledged = true,
        employee_acknowledged_at = now(),
        employee_comments = $1,
        updated_at = now()
    WHERE id = $2 AND employee_acknowledged = false
  `, comments, evaluationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyAcknowledged
	}
	return nil
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
