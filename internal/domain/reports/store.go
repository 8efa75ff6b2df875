package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const reportColumns = `
  pr.id, pr.employee_id,
  COALESCE(u.first_name || ' ' || u.last_name, ''),
  pr.report_type, pr.period_start, pr.period_end, pr.summary,
  COALESCE(pr.achievements, ''), COALESCE(pr.challenges, ''),
  COALESCE(pr.plan_next_period, ''), pr.tasks_completed, pr.hours_worked,
  COALESCE(pr.manager_feedback, ''), COALESCE(pr.manager_reviewed_by::text, ''),
  pr.manager_reviewed_at, pr.created_at, pr.updated_at`

const reportFrom = `
  FROM personal_reports pr
  JOIN employees e ON pr.employee_id = e.id
  JOIN users u ON e.user_id = u.id`

func scanReport(row pgx.Row) (Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName,
		&r.ReportType, &r.PeriodStart, &r.PeriodEnd, &r.Summary,
		&r.Achievements, &r.Challenges,
		&r.PlanNextPeriod, &r.TasksCompleted, &r.HoursWorked,
		&r.ManagerFeedback, &r.ManagerReviewedBy,
		&r.ManagerReviewedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Store) Get(ctx context.Context, reportID string) (Report, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+reportColumns+reportFrom+" WHERE pr.id = $1", reportID)
	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrReportNotFound
	}
	return report, err
}

func (s *Store) List(ctx context.Context, employeeID, reportType string, limit, offset int) ([]Report, error) {
	query := "SELECT" + reportColumns + reportFrom + " WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		query += fmt.Sprintf(" AND pr.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	if reportType != "" {
		query += fmt.Sprintf(" AND pr.report_type = $%d", len(args)+1)
		args = append(args, reportType)
	}
	query += fmt.Sprintf(" ORDER BY pr.period_start DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, draft Draft) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO personal_reports (employee_id, report_type, period_start, period_end,
      summary, achievements, challenges, plan_next_period, tasks_completed, hours_worked)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, draft.EmployeeID, draft.ReportType, draft.PeriodStart, draft.PeriodEnd,
		draft.Summary, draft.Achievements, draft.Challenges, draft.PlanNextPeriod,
		draft.TasksCompleted, draft.HoursWorked).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicatePeriod
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, reportID string, draft Draft) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE personal_reports
    SET report_type = $1, period_start = $2, period_end = $3, summary = $4,
        achievements = $5, challenges = $6, plan_next_period = $7,
        tasks_completed = $8, hours_worked = $9, updated_at = now()
    WHERE id = $10
  `, draft.ReportType, draft.PeriodStart, draft.PeriodEnd, draft.Summary,
		draft.Achievements, draft.Challenges, draft.PlanNextPeriod,
		draft.TasksCompleted, draft.HoursWorked, reportID)
	if isUniqueViolation(err) {
		return ErrDuplicatePeriod
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, reportID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM personal_reports WHERE id = $1", reportID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Review records manager feedback once. The reviewed-at guard makes a
// second review attempt fail rather than silently overwrite the first.
func (s *Store) Review(ctx context.Context, reportID, reviewerID, feedback string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE personal_reports
    SET manager_feedback = $1, manager_reviewed_by = $2,
        manager_reviewed_at = now(), updated_at = now()
    WHERE id = $3 AND manager_reviewed_at IS NULL
  `, feedback, reviewerID, reportID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyReviewed
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
