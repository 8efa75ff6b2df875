package projectshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/domain/projects"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service *projects.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
}

func NewHandler(service *projects.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleListProjects)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/", h.handleCreateProject)
		r.Route("/{projectID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleGetProject)
			r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/", h.handleUpdateProject)
			r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Delete("/", h.handleDeleteProject)
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/tasks", h.handleProjectTasks)
			r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/design-rules", h.handleListDesignRules)
			r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/design-rules", h.handleCreateDesignRule)
		})
	})
	r.Route("/design-rules/{ruleID}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/", h.handleUpdateDesignRule)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Delete("/", h.handleDeleteDesignRule)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleListTasks)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/", h.handleCreateTask)
		r.Route("/{taskID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleGetTask)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Put("/", h.handleUpdateTask)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Delete("/", h.handleDeleteTask)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/assign", h.handleAssignTask)
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Post("/status", h.handleChangeTaskStatus)
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/reviews", h.handleTaskReviews)
			r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/reviews", h.handleReviewTask)
		})
	})
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !projects.ValidProjectStatus(status) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown project status", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.ListProjects(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_list_failed", "failed to list projects", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.Service.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_get_failed", "failed to load project", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, project, middleware.GetRequestID(r.Context()))
}

type projectPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ClientName  string `json:"clientName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
}

func (h *Handler) projectFromPayload(w http.ResponseWriter, r *http.Request, payload projectPayload, createdBy string) (projects.Project, bool) {
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.Status != "" && !projects.ValidProjectStatus(payload.Status) {
		v.Add("status", "unknown project status")
	}

	var start, end time.Time
	if payload.StartDate != "" {
		if parsed, ok := v.Date("startDate", payload.StartDate); ok {
			start = parsed
		}
	}
	if payload.EndDate != "" {
		if parsed, ok := v.Date("endDate", payload.EndDate); ok {
			end = parsed
		}
	}
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return projects.Project{}, false
	}

	project := projects.Project{
		Name:        payload.Name,
		Description: payload.Description,
		ClientName:  payload.ClientName,
		Status:      payload.Status,
		CreatedBy:   createdBy,
	}
	if !start.IsZero() {
		project.StartDate = &start
	}
	if !end.IsZero() {
		project.EndDate = &end
	}
	return project, true
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	project, ok := h.projectFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	projectID, err := h.Service.CreateProject(r.Context(), project)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_create_failed", "failed to create project", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "project.create", "project", projectID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"name": project.Name}); err != nil {
		slog.Warn("audit project.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": projectID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	projectID := chi.URLParam(r, "projectID")

	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	project, ok := h.projectFromPayload(w, r, payload, "")
	if !ok {
		return
	}

	err := h.Service.UpdateProject(r.Context(), projectID, project)
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_update_failed", "failed to update project", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "project.update", "project", projectID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"name": project.Name}); err != nil {
		slog.Warn("audit project.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	projectID := chi.URLParam(r, "projectID")

	err := h.Service.DeleteProject(r.Context(), projectID)
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "project_delete_failed", "failed to delete project", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "project.delete", "project", projectID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit project.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	filter := h.taskFilterFromQuery(r)
	filter.ProjectID = chi.URLParam(r, "projectID")
	h.listTasks(w, r, filter)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	h.listTasks(w, r, h.taskFilterFromQuery(r))
}

func (h *Handler) taskFilterFromQuery(r *http.Request) projects.TaskFilter {
	return projects.TaskFilter{
		ProjectID:  r.URL.Query().Get("project"),
		AssignedTo: r.URL.Query().Get("assignee"),
		Status:     r.URL.Query().Get("status"),
		Priority:   r.URL.Query().Get("priority"),
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request, filter projects.TaskFilter) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	// Freelancers and staff only see their own assignments.
	if !auth.Privileged(user.Role) {
		filter.AssignedTo = user.UserID
	}

	page := shared.ParsePagination(r, 50, 200)
	tasks, err := h.Service.ListTasks(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_list_failed", "failed to list tasks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tasks, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	task, err := h.Service.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if errors.Is(err, projects.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_get_failed", "failed to load task", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.Privileged(user.Role) && task.AssignedTo != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

type taskPayload struct {
	ProjectID   string  `json:"projectId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  string  `json:"assignedTo"`
	Priority    string  `json:"priority"`
	Price       float64 `json:"price"`
	DueDate     string  `json:"dueDate"`
}

func (h *Handler) taskFromPayload(w http.ResponseWriter, r *http.Request, payload taskPayload, assignedBy string) (projects.Task, bool) {
	v := shared.NewValidator()
	v.Required("projectId", payload.ProjectID, "project is required")
	v.Required("title", payload.Title, "title is required")
	if payload.Priority != "" && !projects.ValidPriority(payload.Priority) {
		v.Add("priority", "must be low, medium, high, or urgent")
	}
	if payload.Price < 0 {
		v.Add("price", "must not be negative")
	}

	var due time.Time
	if payload.DueDate != "" {
		if parsed, ok := v.Date("dueDate", payload.DueDate); ok {
			due = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return projects.Task{}, false
	}

	task := projects.Task{
		ProjectID:   payload.ProjectID,
		Title:       payload.Title,
		Description: payload.Description,
		AssignedTo:  payload.AssignedTo,
		Priority:    payload.Priority,
		Price:       payload.Price,
	}
	if payload.AssignedTo != "" {
		task.AssignedBy = assignedBy
	}
	if !due.IsZero() {
		task.DueDate = &due
	}
	return task, true
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	task, ok := h.taskFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	taskID, err := h.Service.CreateTask(r.Context(), task)
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusBadRequest, "invalid_project", "project does not exist", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_create_failed", "failed to create task", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "task.create", "task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"title": task.Title, "projectId": task.ProjectID}); err != nil {
		slog.Warn("audit task.create failed", "err", err)
	}
	if task.AssignedTo != "" {
		if err := h.Notify.Create(r.Context(), task.AssignedTo, "task_assigned", "New task assigned",
			fmt.Sprintf("You have been assigned the task %q.", task.Title)); err != nil {
			slog.Warn("task assignment notification failed", "err", err)
		}
	}
	api.Created(w, map[string]string{"id": taskID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	taskID := chi.URLParam(r, "taskID")

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	task, ok := h.taskFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	err := h.Service.UpdateTask(r.Context(), taskID, task)
	if errors.Is(err, projects.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_update_failed", "failed to update task", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "task.update", "task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"title": task.Title}); err != nil {
		slog.Warn("audit task.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	taskID := chi.URLParam(r, "taskID")

	err := h.Service.DeleteTask(r.Context(), taskID)
	if errors.Is(err, projects.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_delete_failed", "failed to delete task", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "task.delete", "task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit task.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	taskID := chi.URLParam(r, "taskID")

	var payload struct {
		AssignedTo string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.AssignedTo == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "assignedTo", Reason: "is required"},
		})
		return
	}

	err := h.Service.AssignTask(r.Context(), taskID, payload.AssignedTo, user.UserID)
	switch {
	case errors.Is(err, projects.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, projects.ErrInvalidState):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "task can only be assigned while new or rejected", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_assign_failed", "failed to assign task", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "task.assign", "task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"assignedTo": payload.AssignedTo}); err != nil {
		slog.Warn("audit task.assign failed", "err", err)
	}
	if err := h.Notify.Create(r.Context(), payload.AssignedTo, "task_assigned", "New task assigned",
		"A task has been assigned to you."); err != nil {
		slog.Warn("task assignment notification failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "assigned"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	taskID := chi.URLParam(r, "taskID")
	assigneeOnly := !auth.Privileged(user.Role)
	task, err := h.Service.ChangeStatus(r.Context(), taskID, payload.Status, user.UserID, assigneeOnly)
	switch {
	case errors.Is(err, projects.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, projects.ErrNotAssignee):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the assignee may move this task", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, projects.ErrInvalidState):
		api.Fail(w, http.StatusBadRequest, "invalid_state", fmt.Sprintf("cannot move task to %s from its current status", payload.Status), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_status_failed", "failed to change task status", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "task.status_change", "task", task.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": task.Status}); err != nil {
		slog.Warn("audit task.status_change failed", "err", err)
	}
	if task.AssignedTo != "" && task.AssignedTo != user.UserID {
		if err := h.Notify.Create(r.Context(), task.AssignedTo, "task_status_changed", "Task status changed",
			fmt.Sprintf("The task %q is now %s.", task.Title, task.Status)); err != nil {
			slog.Warn("task status notification failed", "err", err)
		}
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDesignRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Service.DesignRules(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_list_failed", "failed to list design rules", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rules, middleware.GetRequestID(r.Context()))
}

type designRulePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsRequired  *bool  `json:"isRequired"`
	Order       int    `json:"order"`
}

func (h *Handler) ruleFromPayload(w http.ResponseWriter, r *http.Request, payload designRulePayload) (projects.DesignRule, bool) {
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.Category != "" && !projects.ValidRuleCategory(payload.Category) {
		v.Add("category", "must be layout, typography, color, content, animation, or other")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return projects.DesignRule{}, false
	}

	rule := projects.DesignRule{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		IsRequired:  true,
		Order:       payload.Order,
	}
	if payload.IsRequired != nil {
		rule.IsRequired = *payload.IsRequired
	}
	return rule, true
}

func (h *Handler) handleCreateDesignRule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	projectID := chi.URLParam(r, "projectID")

	var payload designRulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	rule, ok := h.ruleFromPayload(w, r, payload)
	if !ok {
		return
	}
	rule.ProjectID = projectID

	ruleID, err := h.Service.CreateDesignRule(r.Context(), rule)
	if errors.Is(err, projects.ErrProjectNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_create_failed", "failed to create design rule", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "design_rule.create", "design_rule", ruleID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"name": rule.Name, "projectId": projectID}); err != nil {
		slog.Warn("audit design_rule.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": ruleID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDesignRule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	ruleID := chi.URLParam(r, "ruleID")

	var payload designRulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	rule, ok := h.ruleFromPayload(w, r, payload)
	if !ok {
		return
	}

	err := h.Service.UpdateDesignRule(r.Context(), ruleID, rule)
	if errors.Is(err, projects.ErrRuleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "design rule not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_update_failed", "failed to update design rule", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "design_rule.update", "design_rule", ruleID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"name": rule.Name}); err != nil {
		slog.Warn("audit design_rule.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDesignRule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	ruleID := chi.URLParam(r, "ruleID")

	err := h.Service.DeleteDesignRule(r.Context(), ruleID)
	if errors.Is(err, projects.ErrRuleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "design rule not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_delete_failed", "failed to delete design rule", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "design_rule.delete", "design_rule", ruleID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit design_rule.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTaskReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	taskID := chi.URLParam(r, "taskID")

	task, err := h.Service.GetTask(r.Context(), taskID)
	if errors.Is(err, projects.ErrTaskNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_list_failed", "failed to list reviews", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.Privileged(user.Role) && task.AssignedTo != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	reviews, err := h.Service.TaskReviews(r.Context(), taskID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_list_failed", "failed to list reviews", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reviews, middleware.GetRequestID(r.Context()))
}

type reviewCriterionPayload struct {
	DesignRuleID string `json:"designRuleId"`
	IsMet        *bool  `json:"isMet"`
	Comment      string `json:"comment"`
}

type reviewPayload struct {
	Outcome  string                   `json:"outcome"`
	Comment  string                   `json:"comment"`
	Criteria []reviewCriterionPayload `json:"criteria"`
}

func (h *Handler) handleReviewTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	taskID := chi.URLParam(r, "taskID")

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("outcome", payload.Outcome, "outcome is required")
	if payload.Outcome != "" && !projects.ValidReviewOutcome(payload.Outcome) {
		v.Add("outcome", "must be approved, rejected, or needs_revision")
	}
	if len(payload.Criteria) == 0 {
		v.Add("criteria", "at least one criterion is required")
	}
	for i, criterion := range payload.Criteria {
		if criterion.DesignRuleID == "" {
			v.Add(fmt.Sprintf("criteria[%d].designRuleId", i), "is required")
		}
		if criterion.IsMet == nil {
			v.Add(fmt.Sprintf("criteria[%d].isMet", i), "is required")
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	draft := projects.ReviewDraft{
		TaskID:     taskID,
		ReviewerID: user.UserID,
		Outcome:    payload.Outcome,
		Comment:    payload.Comment,
	}
	for _, criterion := range payload.Criteria {
		draft.Criteria = append(draft.Criteria, projects.CriterionDraft{
			DesignRuleID: criterion.DesignRuleID,
			IsMet:        *criterion.IsMet,
			Comment:      criterion.Comment,
		})
	}

	review, err := h.Service.ReviewTask(r.Context(), draft)
	switch {
	case errors.Is(err, projects.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, projects.ErrInvalidState):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "task is not awaiting review", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, projects.ErrUnknownRule):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "criteria", Reason: "references an unknown design rule"},
		})
		return
	case errors.Is(err, projects.ErrDuplicateCriteria):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "criteria", Reason: "a design rule may appear only once"},
		})
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "failed to record review", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "task.review", "task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"outcome": review.Outcome}); err != nil {
		slog.Warn("audit task.review failed", "err", err)
	}
	if task, err := h.Service.GetTask(r.Context(), taskID); err == nil && task.AssignedTo != "" {
		if err := h.Notify.Create(r.Context(), task.AssignedTo, "task_reviewed", "Task reviewed",
			fmt.Sprintf("Your work on %q was reviewed: %s.", task.Title, review.Outcome)); err != nil {
			slog.Warn("task review notification failed", "err", err)
		}
	}
	api.Created(w, review, middleware.GetRequestID(r.Context()))
}
