package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const departmentColumns = `
  d.id, d.name, COALESCE(d.description, ''), COALESCE(d.manager_id::text, ''),
  (SELECT COUNT(1) FROM employees e WHERE e.department_id = d.id AND e.is_active),
  d.created_at, d.updated_at`

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.Headcount, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) GetDepartment(ctx context.Context, departmentID string) (Department, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+departmentColumns+" FROM departments d WHERE d.id = $1", departmentID)
	dept, err := scanDepartment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	return dept, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+departmentColumns+" FROM departments d ORDER BY d.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, nil
}

func (s *Store) CreateDepartment(ctx context.Context, dept Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id)
    VALUES ($1, $2, $3)
    RETURNING id
  `, dept.Name, nullIfEmpty(dept.Description), nullIfEmpty(dept.ManagerID)).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, departmentID string, dept Department) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $1, description = $2, manager_id = $3, updated_at = now()
    WHERE id = $4
  `, dept.Name, nullIfEmpty(dept.Description), nullIfEmpty(dept.ManagerID), departmentID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
