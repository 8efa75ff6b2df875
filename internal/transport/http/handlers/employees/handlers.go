package employeeshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/core"
	"talenthub/internal/domain/evaluation"
	"talenthub/internal/domain/kpi"
	"talenthub/internal/domain/reports"
	"talenthub/internal/domain/salary"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service     *core.Service
	Salary      *salary.Service
	KPI         *kpi.Service
	Evaluations *evaluation.Service
	Reports     *reports.Service
	Perms       middleware.PermissionStore
	Audit       *audit.Service
}

func NewHandler(service *core.Service, salarySvc *salary.Service, kpiSvc *kpi.Service, evalSvc *evaluation.Service, reportsSvc *reports.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{
		Service:     service,
		Salary:      salarySvc,
		KPI:         kpiSvc,
		Evaluations: evalSvc,
		Reports:     reportsSvc,
		Perms:       perms,
		Audit:       auditSvc,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/", h.handleDeactivate)
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/detail", h.handleDetail)
			r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/kpis", h.handleKPIs)
			r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/evaluations", h.handleEvaluations)
			r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/salary-history", h.handleSalaryHistory)
			r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports", h.handleReports)
		})
	})
}

// allowEmployeeAccess enforces self-scoping: non-privileged callers may only
// touch the employee record tied to their own user.
func (h *Handler) allowEmployeeAccess(r *http.Request, user auth.UserContext, employeeID string) bool {
	if auth.Privileged(user.Role) {
		return true
	}
	ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		return false
	}
	return ownID == employeeID
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := core.EmployeeFilter{
		DepartmentID: r.URL.Query().Get("department"),
		ContractType: r.URL.Query().Get("contractType"),
		Search:       r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	employees, total, err := h.Service.ListEmployees(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}

	selfID := ""
	if !auth.Privileged(user.Role) {
		if id, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID); err == nil {
			selfID = id
		}
	}
	for i := range employees {
		core.FilterEmployeeFields(&employees[i], user, employees[i].ID == selfID)
	}

	api.Success(w, map[string]any{"items": employees, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	core.FilterEmployeeFields(&emp, user, emp.UserID == user.UserID)
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

type employeePayload struct {
	Email                 string  `json:"email"`
	Password              string  `json:"password"`
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	Role                  string  `json:"role"`
	EmployeeCode          string  `json:"employeeCode"`
	DepartmentID          string  `json:"departmentId"`
	CareerPathID          string  `json:"careerPathId"`
	Position              string  `json:"position"`
	ContractType          string  `json:"contractType"`
	JoinDate              string  `json:"joinDate"`
	CurrentSalary         float64 `json:"currentSalary"`
	DateOfBirth           string  `json:"dateOfBirth"`
	CitizenID             string  `json:"citizenId"`
	Address               string  `json:"address"`
	EmergencyContactName  string  `json:"emergencyContactName"`
	EmergencyContactPhone string  `json:"emergencyContactPhone"`
	IsActive              *bool   `json:"isActive"`
	Notes                 string  `json:"notes"`
}

func (h *Handler) employeeFromPayload(w http.ResponseWriter, r *http.Request, payload employeePayload, creating bool) (core.Employee, bool) {
	v := shared.NewValidator()
	v.Required("employeeCode", payload.EmployeeCode, "employee code is required")
	v.Enum("contractType", payload.ContractType, core.ContractTypes, "must be fulltime, parttime, or contract")
	v.Required("contractType", payload.ContractType, "contract type is required")
	if creating {
		v.Required("email", payload.Email, "email is required")
		v.Required("password", payload.Password, "password is required")
		v.Enum("role", payload.Role, auth.Roles, "must be a valid role")
		v.Required("role", payload.Role, "role is required")
	}

	var joinDate, dateOfBirth *time.Time
	if payload.JoinDate != "" {
		if parsed, ok := v.Date("joinDate", payload.JoinDate); ok {
			joinDate = &parsed
		}
	}
	if payload.DateOfBirth != "" {
		if parsed, ok := v.Date("dateOfBirth", payload.DateOfBirth); ok {
			dateOfBirth = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return core.Employee{}, false
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	emp := core.Employee{
		Email:                 payload.Email,
		FirstName:             payload.FirstName,
		LastName:              payload.LastName,
		Role:                  payload.Role,
		EmployeeCode:          payload.EmployeeCode,
		DepartmentID:          payload.DepartmentID,
		CareerPathID:          payload.CareerPathID,
		Position:              payload.Position,
		ContractType:          payload.ContractType,
		JoinDate:              joinDate,
		DateOfBirth:           dateOfBirth,
		CitizenID:             payload.CitizenID,
		Address:               payload.Address,
		EmergencyContactName:  payload.EmergencyContactName,
		EmergencyContactPhone: payload.EmergencyContactPhone,
		IsActive:              active,
		Notes:                 payload.Notes,
	}
	if payload.CurrentSalary > 0 {
		emp.CurrentSalary = &payload.CurrentSalary
	}
	return emp, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	emp, ok := h.employeeFromPayload(w, r, payload, true)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, userID, err := h.Service.CreateEmployeeWithUser(r.Context(), emp, hash)
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "an employee with this code or email already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "hr.employee.create", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"employeeCode": payload.EmployeeCode, "userId": userID}); err != nil {
		slog.Warn("audit hr.employee.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": employeeID, "userId": userID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	emp, ok := h.employeeFromPayload(w, r, payload, false)
	if !ok {
		return
	}

	err := h.Service.UpdateEmployee(r.Context(), employeeID, emp)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, core.ErrDuplicate) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "an employee with this code already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.employee.update", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"employeeCode": payload.EmployeeCode}); err != nil {
		slog.Warn("audit hr.employee.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	err := h.Service.DeactivateEmployee(r.Context(), employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_deactivate_failed", "failed to deactivate employee", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "hr.employee.deactivate", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit hr.employee.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

// detailSection is one independently fetched slice of the employee bundle.
// A failed section reports its error without sinking the others.
type detailSection struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !h.allowEmployeeAccess(r, user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	core.FilterEmployeeFields(&emp, user, emp.UserID == user.UserID)

	sections := map[string]*detailSection{
		"kpis":          {},
		"evaluations":   {},
		"salaryReviews": {},
		"reports":       {},
	}
	const sectionLimit = 50

	var wg sync.WaitGroup
	run := func(name string, fetch func() (any, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := fetch()
			if err != nil {
				slog.Warn("employee detail section failed", "section", name, "employeeId", employeeID, "err", err)
				sections[name].Error = "failed to load"
				return
			}
			sections[name].Data = data
		}()
	}
	run("kpis", func() (any, error) {
		return h.KPI.List(r.Context(), employeeID, time.Time{}, sectionLimit, 0)
	})
	run("evaluations", func() (any, error) {
		return h.Evaluations.List(r.Context(), employeeID, sectionLimit, 0)
	})
	run("salaryReviews", func() (any, error) {
		return h.Salary.List(r.Context(), employeeID, "", sectionLimit, 0)
	})
	run("reports", func() (any, error) {
		return h.Reports.List(r.Context(), employeeID, "", sectionLimit, 0)
	})
	wg.Wait()

	api.Success(w, map[string]any{
		"employee": emp,
		"sections": sections,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleKPIs(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, func(employeeID string, limit, offset int) (any, error) {
		return h.KPI.List(r.Context(), employeeID, time.Time{}, limit, offset)
	})
}

func (h *Handler) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, func(employeeID string, limit, offset int) (any, error) {
		return h.Evaluations.List(r.Context(), employeeID, limit, offset)
	})
}

func (h *Handler) handleSalaryHistory(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, func(employeeID string, limit, offset int) (any, error) {
		return h.Salary.List(r.Context(), employeeID, "", limit, offset)
	})
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, func(employeeID string, limit, offset int) (any, error) {
		return h.Reports.List(r.Context(), employeeID, "", limit, offset)
	})
}

func (h *Handler) handleSection(w http.ResponseWriter, r *http.Request, fetch func(employeeID string, limit, offset int) (any, error)) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !h.allowEmployeeAccess(r, user, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	data, err := fetch(employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_section_failed", "failed to load employee data", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, data, middleware.GetRequestID(r.Context()))
}
