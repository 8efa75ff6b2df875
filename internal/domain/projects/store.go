package projects

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

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

const projectColumns = `
  p.id, p.name, COALESCE(p.description, ''), COALESCE(p.client_name, ''),
  p.start_date, p.end_date, p.status, COALESCE(p.created_by::text, ''),
  (SELECT COUNT(1) FROM tasks t WHERE t.project_id = p.id),
  p.created_at, p.updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ClientName,
		&p.StartDate, &p.EndDate, &p.Status, &p.CreatedBy,
		&p.TaskCount, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *Store) GetProject(ctx context.Context, projectID string) (Project, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+projectColumns+" FROM projects p WHERE p.id = $1", projectID)
	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	return project, err
}

func (s *Store) ListProjects(ctx context.Context, status string, limit, offset int) ([]Project, error) {
	query := "SELECT" + projectColumns + " FROM projects p WHERE 1=1"
	args := []any{}
	if status != "" {
		query += fmt.Sprintf(" AND p.status = $%d", len(args)+1)
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	return out, nil
}

func (s *Store) CreateProject(ctx context.Context, project Project) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO projects (name, description, client_name, start_date, end_date, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, project.Name, nullIfEmpty(project.Description), nullIfEmpty(project.ClientName),
		project.StartDate, project.EndDate, project.Status, nullIfEmpty(project.CreatedBy)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateProject(ctx context.Context, projectID string, project Project) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE projects
    SET name = $1, description = $2, client_name = $3, start_date = $4,
        end_date = $5, status = $6, updated_at = now()
    WHERE id = $7
  `, project.Name, nullIfEmpty(project.Description), nullIfEmpty(project.ClientName),
		project.StartDate, project.EndDate, project.Status, projectID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", projectID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

const taskColumns = `
  t.id, t.project_id, p.name, t.title, COALESCE(t.description, ''),
  COALESCE(t.assigned_to::text, ''), COALESCE(au.first_name || ' ' || au.last_name, ''),
  COALESCE(t.assigned_by::text, ''), t.status, t.priority, t.price,
  t.due_date, t.started_at, t.completed_at, t.created_at, t.updated_at`

const taskFrom = `
  FROM tasks t
  JOIN projects p ON p.id = t.project_id
  LEFT JOIN users au ON au.id = t.assigned_to`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.ProjectName, &t.Title, &t.Description,
		&t.AssignedTo, &t.AssigneeName,
		&t.AssignedBy, &t.Status, &t.Priority, &t.Price,
		&t.DueDate, &t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (s *Store) GetTask(ctx context.Context, taskID string) (Task, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+taskColumns+taskFrom+" WHERE t.id = $1", taskID)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	return task, err
}

func (s *Store) ListTasks(ctx context.Context, filter TaskFilter, limit, offset int) ([]Task, error) {
	query := "SELECT" + taskColumns + taskFrom + " WHERE 1=1"
	args := []any{}
	if filter.ProjectID != "" {
		query += fmt.Sprintf(" AND t.project_id = $%d", len(args)+1)
		args = append(args, filter.ProjectID)
	}
	if filter.AssignedTo != "" {
		query += fmt.Sprintf(" AND t.assigned_to = $%d", len(args)+1)
		args = append(args, filter.AssignedTo)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND t.status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(" AND t.priority = $%d", len(args)+1)
		args = append(args, filter.Priority)
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *Store) CreateTask(ctx context.Context, task Task) (string, error) {
	status := task.Status
	if status == "" {
		status = TaskStatusNew
	}
	if task.AssignedTo != "" && status == TaskStatusNew {
		status = TaskStatusAssigned
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (project_id, title, description, assigned_to, assigned_by,
      status, priority, price, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, task.ProjectID, task.Title, nullIfEmpty(task.Description),
		nullIfEmpty(task.AssignedTo), nullIfEmpty(task.AssignedBy),
		status, task.Priority, task.Price, task.DueDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateTask(ctx context.Context, taskID string, task Task) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = $2, assigned_to = $3, priority = $4,
        price = $5, due_date = $6, updated_at = now()
    WHERE id = $7
  `, task.Title, nullIfEmpty(task.Description), nullIfEmpty(task.AssignedTo),
		task.Priority, task.Price, task.DueDate, taskID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ChangeTaskStatus moves a task between workflow states. The from-status
// guard in the WHERE clause keeps the transition atomic under concurrent
// updates; started_at and completed_at are stamped on first entry into
// working and completed.
func (s *Store) ChangeTaskStatus(ctx context.Context, taskID, fromStatus, toStatus string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET status = $1,
        started_at = CASE WHEN $1 = 'working' AND started_at IS NULL THEN now() ELSE started_at END,
        completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN now() ELSE completed_at END,
        updated_at = now()
    WHERE id = $2 AND status = $3
  `, toStatus, taskID, fromStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// AssignTask puts the task into assigned with a fresh assignee. Only new
// and rejected tasks can be (re)assigned this way.
func (s *Store) AssignTask(ctx context.Context, taskID, assigneeID, assignerID string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET assigned_to = $1, assigned_by = $2, status = $3, updated_at = now()
    WHERE id = $4 AND status IN ($5, $6)
  `, assigneeID, assignerID, TaskStatusAssigned, taskID, TaskStatusNew, TaskStatusRejected)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}
