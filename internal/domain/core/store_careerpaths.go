package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const careerPathColumns = `
  id, level, title, min_years_experience, min_salary, max_salary,
  COALESCE(requirements, ''), COALESCE(benefits, '')`

func scanCareerPath(row pgx.Row) (CareerPath, error) {
	var p CareerPath
	err := row.Scan(&p.ID, &p.Level, &p.Title, &p.MinYearsExperience, &p.MinSalary, &p.MaxSalary, &p.Requirements, &p.Benefits)
	return p, err
}

func (s *Store) GetCareerPath(ctx context.Context, pathID string) (CareerPath, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+careerPathColumns+" FROM career_paths WHERE id = $1", pathID)
	path, err := scanCareerPath(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return CareerPath{}, ErrCareerPathNotFound
	}
	return path, err
}

func (s *Store) ListCareerPaths(ctx context.Context) ([]CareerPath, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+careerPathColumns+" FROM career_paths ORDER BY level, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CareerPath
	for rows.Next() {
		path, err := scanCareerPath(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}

func (s *Store) CreateCareerPath(ctx context.Context, path CareerPath) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO career_paths (level, title, min_years_experience, min_salary, max_salary, requirements, benefits)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, path.Level, path.Title, path.MinYearsExperience, path.MinSalary, path.MaxSalary,
		nullIfEmpty(path.Requirements), nullIfEmpty(path.Benefits)).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateCareerPath(ctx context.Context, pathID string, path CareerPath) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE career_paths
    SET level = $1, title = $2, min_years_experience = $3, min_salary = $4,
        max_salary = $5, requirements = $6, benefits = $7, updated_at = now()
    WHERE id = $8
  `, path.Level, path.Title, path.MinYearsExperience, path.MinSalary, path.MaxSalary,
		nullIfEmpty(path.Requirements), nullIfEmpty(path.Benefits), pathID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCareerPathNotFound
	}
	return nil
}

func (s *Store) DeleteCareerPath(ctx context.Context, pathID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM career_paths WHERE id = $1", pathID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCareerPathNotFound
	}
	return nil
}
