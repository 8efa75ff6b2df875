package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const userColumns = `
  id, username, email, first_name, last_name, role,
  COALESCE(phone, ''), status, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.Phone, &u.Status, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+userColumns+" FROM users WHERE id = $1", userID)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

func (s *Store) ListUsers(ctx context.Context, role, search string, limit, offset int) ([]User, error) {
	query := "SELECT" + userColumns + " FROM users WHERE 1=1"
	args := []any{}
	if role != "" {
		query += fmt.Sprintf(" AND role = $%d", len(args)+1)
		args = append(args, role)
	}
	if search != "" {
		query += fmt.Sprintf(" AND (username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+search+"%")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name, role, phone, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, user.Username, user.Email, passwordHash, user.FirstName, user.LastName, user.Role, user.Phone, user.Status).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateUser(ctx context.Context, userID string, user User) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE users
    SET username = $1, email = $2, first_name = $3, last_name = $4,
        role = $5, phone = $6, status = $7, updated_at = now()
    WHERE id = $8
  `, user.Username, user.Email, user.FirstName, user.LastName, user.Role, user.Phone, user.Status, userID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) DeactivateUser(ctx context.Context, userID string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE users SET status = $1, updated_at = now() WHERE id = $2", UserStatusInactive, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
