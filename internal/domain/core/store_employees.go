package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
  e.id, e.user_id, e.employee_code, u.first_name, u.last_name, u.email, u.role,
  COALESCE(e.department_id::text, ''), COALESCE(d.name, ''),
  COALESCE(e.career_path_id::text, ''), COALESCE(cp.level, 0),
  COALESCE(e.position, ''), e.contract_type, e.join_date,
  e.current_salary, e.last_salary_review, e.date_of_birth, e.citizen_id_enc,
  COALESCE(e.address, ''), COALESCE(e.emergency_contact_name, ''),
  COALESCE(e.emergency_contact_phone, ''), e.is_active, COALESCE(e.notes, ''),
  e.created_at, e.updated_at`

const employeeFrom = ` FROM employees e
  JOIN users u ON u.id = e.user_id
  LEFT JOIN departments d ON d.id = e.department_id
  LEFT JOIN career_paths cp ON cp.id = e.career_path_id`

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var citizenEnc []byte
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email, &e.Role,
		&e.DepartmentID, &e.DepartmentName,
		&e.CareerPathID, &e.CareerLevel,
		&e.Position, &e.ContractType, &e.JoinDate,
		&e.CurrentSalary, &e.LastSalaryReview, &e.DateOfBirth, &citizenEnc,
		&e.Address, &e.EmergencyContactName,
		&e.EmergencyContactPhone, &e.IsActive, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	e.CitizenID = s.decryptFallback(citizenEnc)
	return e, nil
}

// decryptFallback tolerates rows written before the encryption key was
// configured: if decryption fails the raw bytes are returned as-is.
func (s *Store) decryptFallback(enc []byte) string {
	if len(enc) == 0 {
		return ""
	}
	plain, err := s.Crypto.DecryptString(enc)
	if err != nil {
		return string(enc)
	}
	return plain
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+employeeFrom+" WHERE e.id = $1", employeeID)
	emp, err := s.scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GetEmployeeByUser(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+employeeFrom+" WHERE e.user_id = $1", userID)
	emp, err := s.scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.DepartmentID != "" {
		where += fmt.Sprintf(" AND e.department_id = $%d", len(args)+1)
		args = append(args, filter.DepartmentID)
	}
	if filter.ContractType != "" {
		where += fmt.Sprintf(" AND e.contract_type = $%d", len(args)+1)
		args = append(args, filter.ContractType)
	}
	if filter.Active != nil {
		where += fmt.Sprintf(" AND e.is_active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d OR e.employee_code ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+employeeFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + employeeColumns + employeeFrom + where +
		fmt.Sprintf(" ORDER BY e.employee_code LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	citizenEnc, err := s.Crypto.EncryptString(emp.CitizenID)
	if err != nil {
		return "", fmt.Errorf("encrypt citizen id: %w", err)
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      user_id, employee_code, department_id, career_path_id, position,
      contract_type, join_date, current_salary, date_of_birth, citizen_id_enc,
      address, emergency_contact_name, emergency_contact_phone, is_active, notes
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `, emp.UserID, emp.EmployeeCode, nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.CareerPathID),
		nullIfEmpty(emp.Position), emp.ContractType, emp.JoinDate, emp.CurrentSalary,
		emp.DateOfBirth, citizenEnc, nullIfEmpty(emp.Address),
		nullIfEmpty(emp.EmergencyContactName), nullIfEmpty(emp.EmergencyContactPhone),
		emp.IsActive, nullIfEmpty(emp.Notes)).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateEmployeeWithUser creates the login account and the employee row in
// one transaction so a failed employee insert never leaves an orphan user.
func (s *Store) CreateEmployeeWithUser(ctx context.Context, emp Employee, passwordHash string) (string, string, error) {
	citizenEnc, err := s.Crypto.EncryptString(emp.CitizenID)
	if err != nil {
		return "", "", fmt.Errorf("encrypt citizen id: %w", err)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", "", err
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name, role, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, emp.Email, emp.Email, passwordHash, emp.FirstName, emp.LastName, emp.Role, UserStatusActive).Scan(&userID)
	if isUniqueViolation(err) {
		return "", "", ErrDuplicate
	}
	if err != nil {
		return "", "", err
	}

	var employeeID string
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (
      user_id, employee_code, department_id, career_path_id, position,
      contract_type, join_date, current_salary, date_of_birth, citizen_id_enc,
      address, emergency_contact_name, emergency_contact_phone, is_active, notes
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `, userID, emp.EmployeeCode, nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.CareerPathID),
		nullIfEmpty(emp.Position), emp.ContractType, emp.JoinDate, emp.CurrentSalary,
		emp.DateOfBirth, citizenEnc, nullIfEmpty(emp.Address),
		nullIfEmpty(emp.EmergencyContactName), nullIfEmpty(emp.EmergencyContactPhone),
		emp.IsActive, nullIfEmpty(emp.Notes)).Scan(&employeeID)
	if isUniqueViolation(err) {
		return "", "", ErrDuplicate
	}
	if err != nil {
		return "", "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", "", err
	}
	return employeeID, userID, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error {
	citizenEnc, err := s.Crypto.EncryptString(emp.CitizenID)
	if err != nil {
		return fmt.Errorf("encrypt citizen id: %w", err)
	}
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET department_id = $1, career_path_id = $2, position = $3, contract_type = $4,
        join_date = $5, date_of_birth = $6, citizen_id_enc = $7, address = $8,
        emergency_contact_name = $9, emergency_contact_phone = $10,
        is_active = $11, notes = $12, updated_at = now()
    WHERE id = $13
  `, nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.CareerPathID), nullIfEmpty(emp.Position),
		emp.ContractType, emp.JoinDate, emp.DateOfBirth, citizenEnc, nullIfEmpty(emp.Address),
		nullIfEmpty(emp.EmergencyContactName), nullIfEmpty(emp.EmergencyContactPhone),
		emp.IsActive, nullIfEmpty(emp.Notes), employeeID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) DeactivateEmployee(ctx context.Context, employeeID string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE employees SET is_active = false, updated_at = now() WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, "SELECT user_id FROM employees WHERE id = $1", employeeID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmployeeNotFound
	}
	return userID, err
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmployeeNotFound
	}
	return id, err
}
