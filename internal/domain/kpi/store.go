package kpi

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const recordColumns = `
  k.id, k.employee_id,
  COALESCE(u.first_name || ' ' || u.last_name, ''),
  k.month, k.tasks_completed, k.tasks_on_time,
  k.quality_score, k.collaboration_score, k.innovation_score, k.overall_score,
  COALESCE(k.notes, ''), COALESCE(k.created_by::text, ''), k.created_at, k.updated_at`

const recordFrom = `
  FROM kpi_records k
  JOIN employees e ON k.employee_id = e.id
  JOIN users u ON e.user_id = u.id`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Month,
		&rec.TasksCompleted, &rec.TasksOnTime,
		&rec.QualityScore, &rec.CollaborationScore, &rec.InnovationScore, &rec.OverallScore,
		&rec.Notes, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == nil {
		rec.OnTimePercentage = OnTimePercentage(rec.TasksCompleted, rec.TasksOnTime)
	}
	return rec, err
}

func (s *Store) Get(ctx context.Context, recordID string) (Record, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+recordColumns+recordFrom+" WHERE k.id = $1", recordID)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context, employeeID string, month time.Time, limit, offset int) ([]Record, error) {
	query := "SELECT" + recordColumns + recordFrom + " WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		query += fmt.Sprintf(" AND k.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	if !month.IsZero() {
		query += fmt.Sprintf(" AND k.month = $%d", len(args)+1)
		args = append(args, NormalizeMonth(month))
	}
	query += fmt.Sprintf(" ORDER BY k.month DESC, k.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) ListMonth(ctx context.Context, month time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+recordColumns+recordFrom+" WHERE k.month = $1 ORDER BY k.overall_score DESC", NormalizeMonth(month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, draft Draft, overall float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_records (employee_id, month, tasks_completed, tasks_on_time,
      quality_score, collaboration_score, innovation_score, overall_score, notes, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, draft.EmployeeID, NormalizeMonth(draft.Month), draft.TasksCompleted, draft.TasksOnTime,
		draft.QualityScore, draft.CollaborationScore, draft.InnovationScore, overall,
		draft.Notes, nullIfEmpty(draft.CreatedBy)).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicateMonth
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, recordID string, draft Draft, overall float64) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE kpi_records
    SET month = $1, tasks_completed = $2, tasks_on_time = $3,
        quality_score = $4, collaboration_score = $5, innovation_score = $6,
        overall_score = $7, notes = $8, updated_at = now()
    WHERE id = $9
  `, NormalizeMonth(draft.Month), draft.TasksCompleted, draft.TasksOnTime,
		draft.QualityScore, draft.CollaborationScore, draft.InnovationScore, overall,
		draft.Notes, recordID)
	if isUniqueViolation(err) {
		return ErrDuplicateMonth
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, recordID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM kpi_records WHERE id = $1", recordID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var employeeID string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&employeeID)
	return employeeID, err
}

func (s *Store) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, "SELECT user_id FROM employees WHERE id = $1", employeeID).Scan(&userID)
	return userID, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
