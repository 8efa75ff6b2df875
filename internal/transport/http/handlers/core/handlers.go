package corehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/core"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *core.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/hr/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.Route("/{departmentID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleGetDepartment)
			r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/", h.handleUpdateDepartment)
			r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Delete("/", h.handleDeleteDepartment)
		})
	})
	r.Route("/hr/career-paths", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListCareerPaths)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateCareerPath)
		r.Route("/{pathID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleGetCareerPath)
			r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/", h.handleUpdateCareerPath)
			r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Delete("/", h.handleDeleteCareerPath)
		})
	})
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Get("/", h.handleListUsers)
		r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Post("/", h.handleCreateUser)
		r.Route("/{userID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Get("/", h.handleGetUser)
			r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Put("/", h.handleUpdateUser)
			r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Delete("/", h.handleDeactivateUser)
		})
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	account, err := h.Service.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payload := map[string]any{"user": account}
	if emp, err := h.Service.GetEmployeeByUser(r.Context(), user.UserID); err == nil {
		core.FilterEmployeeFields(&emp, user, true)
		payload["employee"] = emp
	}
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := h.Service.GetDepartment(r.Context(), chi.URLParam(r, "departmentID"))
	if errors.Is(err, core.ErrDepartmentNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_get_failed", "failed to load department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dept, middleware.GetRequestID(r.Context()))
}

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   string `json:"managerId"`
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateDepartment(r.Context(), core.Department{
		Name: payload.Name, Description: payload.Description, ManagerID: payload.ManagerID,
	})
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a department with this name already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.department.create", "department", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit hr.department.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	err := h.Service.UpdateDepartment(r.Context(), departmentID, core.Department{
		Name: payload.Name, Description: payload.Description, ManagerID: payload.ManagerID,
	})
	if errors.Is(err, core.ErrDepartmentNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a department with this name already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_update_failed", "failed to update department", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.department.update", "department", departmentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit hr.department.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")

	err := h.Service.DeleteDepartment(r.Context(), departmentID)
	if errors.Is(err, core.ErrDepartmentNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_delete_failed", "failed to delete department", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.department.delete", "department", departmentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit hr.department.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCareerPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := h.Service.ListCareerPaths(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "career_path_list_failed", "failed to list career paths", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, paths, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCareerPath(w http.ResponseWriter, r *http.Request) {
	path, err := h.Service.GetCareerPath(r.Context(), chi.URLParam(r, "pathID"))
	if errors.Is(err, core.ErrCareerPathNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "career path not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "career_path_get_failed", "failed to load career path", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, path, middleware.GetRequestID(r.Context()))
}

type careerPathPayload struct {
	Level              int     `json:"level"`
	Title              string  `json:"title"`
	MinYearsExperience int     `json:"minYearsExperience"`
	MinSalary          float64 `json:"minSalary"`
	MaxSalary          float64 `json:"maxSalary"`
	Requirements       string  `json:"requirements"`
	Benefits           string  `json:"benefits"`
}

func (h *Handler) validateCareerPath(payload careerPathPayload) *shared.Validator {
	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	if !core.ValidCareerLevel(payload.Level) {
		v.Add("level", "must be between 1 and 5")
	}
	if !core.ValidSalaryBand(payload.MinSalary, payload.MaxSalary) {
		v.Add("maxSalary", "must be greater than minSalary")
	}
	if payload.MinYearsExperience < 0 {
		v.Add("minYearsExperience", "must be zero or greater")
	}
	return v
}

func (h *Handler) handleCreateCareerPath(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload careerPathPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.validateCareerPath(payload).Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateCareerPath(r.Context(), core.CareerPath{
		Level: payload.Level, Title: payload.Title, MinYearsExperience: payload.MinYearsExperience,
		MinSalary: payload.MinSalary, MaxSalary: payload.MaxSalary,
		Requirements: payload.Requirements, Benefits: payload.Benefits,
	})
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a career path with this level already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "career_path_create_failed", "failed to create career path", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.career_path.create", "career_path", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit hr.career_path.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCareerPath(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	pathID := chi.URLParam(r, "pathID")

	var payload careerPathPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.validateCareerPath(payload).Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	err := h.Service.UpdateCareerPath(r.Context(), pathID, core.CareerPath{
		Level: payload.Level, Title: payload.Title, MinYearsExperience: payload.MinYearsExperience,
		MinSalary: payload.MinSalary, MaxSalary: payload.MaxSalary,
		Requirements: payload.Requirements, Benefits: payload.Benefits,
	})
	if errors.Is(err, core.ErrCareerPathNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "career path not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a career path with this level already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "career_path_update_failed", "failed to update career path", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.career_path.update", "career_path", pathID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit hr.career_path.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCareerPath(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	pathID := chi.URLParam(r, "pathID")

	err := h.Service.DeleteCareerPath(r.Context(), pathID)
	if errors.Is(err, core.ErrCareerPathNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "career path not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "career_path_delete_failed", "failed to delete career path", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.career_path.delete", "career_path", pathID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit hr.career_path.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	users, err := h.Service.ListUsers(r.Context(), r.URL.Query().Get("role"), r.URL.Query().Get("q"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.Service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, core.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_get_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, account, middleware.GetRequestID(r.Context()))
}

type userPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", payload.Role, auth.Roles, "must be a valid role")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}
	status := payload.Status
	if status == "" {
		status = core.UserStatusActive
	}
	id, err := h.Service.CreateUser(r.Context(), core.User{
		Username: payload.Username, Email: payload.Email,
		FirstName: payload.FirstName, LastName: payload.LastName,
		Role: payload.Role, Phone: payload.Phone, Status: status,
	}, hash)
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a user with this username or email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "users.create", "user", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"username": payload.Username, "role": payload.Role}); err != nil {
		slog.Warn("audit users.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("role", payload.Role, auth.Roles, "must be a valid role")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	status := payload.Status
	if status == "" {
		status = core.UserStatusActive
	}
	err := h.Service.UpdateUser(r.Context(), userID, core.User{
		Username: payload.Username, Email: payload.Email,
		FirstName: payload.FirstName, LastName: payload.LastName,
		Role: payload.Role, Phone: payload.Phone, Status: status,
	})
	if errors.Is(err, core.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a user with this username or email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update user", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "users.update", "user", userID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"username": payload.Username, "role": payload.Role}); err != nil {
		slog.Warn("audit users.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	err := h.Service.DeactivateUser(r.Context(), userID)
	if errors.Is(err, core.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_deactivate_failed", "failed to deactivate user", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "users.deactivate", "user", userID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit users.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}
