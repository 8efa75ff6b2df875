package projects

import (
	"context"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetProject(ctx context.Context, projectID string) (Project, error) {
	return s.store.GetProject(ctx, projectID)
}

func (s *Service) ListProjects(ctx context.Context, status string, limit, offset int) ([]Project, error) {
	return s.store.ListProjects(ctx, status, limit, offset)
}

func (s *Service) CreateProject(ctx context.Context, project Project) (string, error) {
	if project.Status == "" {
		project.Status = ProjectStatusPlanning
	}
	return s.store.CreateProject(ctx, project)
}

func (s *Service) UpdateProject(ctx context.Context, projectID string, project Project) error {
	return s.store.UpdateProject(ctx, projectID, project)
}

func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	return s.store.DeleteProject(ctx, projectID)
}

func (s *Service) GetTask(ctx context.Context, taskID string) (Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	task.IsOverdue = IsOverdue(task, time.Now().UTC())
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, filter TaskFilter, limit, offset int) ([]Task, error) {
	tasks, err := s.store.ListTasks(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range tasks {
		tasks[i].IsOverdue = IsOverdue(tasks[i], now)
	}
	return tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, task Task) (string, error) {
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	return s.store.CreateTask(ctx, task)
}

func (s *Service) UpdateTask(ctx context.Context, taskID string, task Task) error {
	return s.store.UpdateTask(ctx, taskID, task)
}

func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	return s.store.DeleteTask(ctx, taskID)
}

func (s *Service) AssignTask(ctx context.Context, taskID, assigneeID, assignerID string) error {
	return s.store.AssignTask(ctx, taskID, assigneeID, assignerID)
}

func (s *Service) DesignRules(ctx context.Context, projectID string) ([]DesignRule, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListDesignRules(ctx, projectID)
}

func (s *Service) CreateDesignRule(ctx context.Context, rule DesignRule) (string, error) {
	if rule.Category == "" {
		rule.Category = RuleCategoryOther
	}
	return s.store.CreateDesignRule(ctx, rule)
}

func (s *Service) UpdateDesignRule(ctx context.Context, ruleID string, rule DesignRule) error {
	if rule.Category == "" {
		rule.Category = RuleCategoryOther
	}
	return s.store.UpdateDesignRule(ctx, ruleID, rule)
}

func (s *Service) DeleteDesignRule(ctx context.Context, ruleID string) error {
	return s.store.DeleteDesignRule(ctx, ruleID)
}

func (s *Service) TaskReviews(ctx context.Context, taskID string) ([]TaskReview, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.ListReviews(ctx, taskID)
}

// ReviewTask records a review of submitted work. The task must be awaiting
// review; approved and rejected outcomes move it through the workflow in the
// same transaction, needs_revision leaves it awaiting another pass.
func (s *Service) ReviewTask(ctx context.Context, draft ReviewDraft) (TaskReview, error) {
	task, err := s.store.GetTask(ctx, draft.TaskID)
	if err != nil {
		return TaskReview{}, err
	}
	if task.Status != TaskStatusReviewPending {
		return TaskReview{}, ErrInvalidState
	}

	seen := make(map[string]bool, len(draft.Criteria))
	for _, criterion := range draft.Criteria {
		if seen[criterion.DesignRuleID] {
			return TaskReview{}, ErrDuplicateCriteria
		}
		seen[criterion.DesignRuleID] = true
	}

	toStatus, moveTask := ReviewStatusChange(draft.Outcome)
	reviewID, err := s.store.CreateReview(ctx, draft, toStatus, moveTask)
	if err != nil {
		return TaskReview{}, err
	}
	return s.store.GetReview(ctx, reviewID)
}

// ChangeStatus validates the requested transition against the workflow and
// applies it. When assigneeOnly is set (non-privileged callers) the task
// must be assigned to the caller.
func (s *Service) ChangeStatus(ctx context.Context, taskID, toStatus, callerUserID string, assigneeOnly bool) (Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if assigneeOnly && task.AssignedTo != callerUserID {
		return Task{}, ErrNotAssignee
	}
	if !CanTransition(task.Status, toStatus) {
		return Task{}, ErrInvalidState
	}
	if err := s.store.ChangeTaskStatus(ctx, taskID, task.Status, toStatus); err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, taskID)
}
