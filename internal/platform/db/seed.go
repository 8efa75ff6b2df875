package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"talenthub/internal/domain/auth"
	"talenthub/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool); err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	return nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	permMap := map[string]string{}
	rows, err := pool.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		permMap[key] = id
	}

	for role, perms := range auth.RolePermissions {
		for _, permKey := range perms {
			permID, ok := permMap[permKey]
			if !ok {
				return errors.New("permission not found: " + permKey)
			}
			_, err := pool.Exec(ctx, "INSERT INTO role_permissions (role, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", role, permID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name, role, status)
    VALUES ($1, $2, $3, 'System', 'Admin', $4, 'active')
    RETURNING id
  `, username, email, hash, auth.RoleAdmin).Scan(&id)
	if err != nil {
		return err
	}
	return nil
}
