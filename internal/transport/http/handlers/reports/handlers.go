package reportshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/domain/reports"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermReportsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/mine", h.handleMine)
		r.Route("/{reportID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermReportsWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermReportsWrite, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermReportsReview, h.Perms)).Post("/review", h.handleReview)
			r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/export", h.handleExport)
		})
	})
}

// reportScope resolves which employee the caller may act for. Privileged
// callers may pass any employee; everyone else is pinned to their own record.
func (h *Handler) reportScope(r *http.Request, user auth.UserContext, requested string) (string, error) {
	if auth.Privileged(user.Role) {
		return requested, nil
	}
	return h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, err := h.reportScope(r, user, r.URL.Query().Get("employee"))
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this user", middleware.GetRequestID(r.Context()))
		return
	}

	reportType := r.URL.Query().Get("type")
	if reportType != "" && !reports.ValidType(reportType) {
		api.Fail(w, http.StatusBadRequest, "invalid_type", "type must be weekly or monthly", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.List(r.Context(), employeeID, reportType, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_list_failed", "failed to list reports", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this user", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.List(r.Context(), employeeID, r.URL.Query().Get("type"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_list_failed", "failed to list reports", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	report, ok := h.loadScoped(w, r, user)
	if !ok {
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

// loadScoped fetches the report and enforces self-scoping for non-privileged
// callers.
func (h *Handler) loadScoped(w http.ResponseWriter, r *http.Request, user auth.UserContext) (reports.Report, bool) {
	report, err := h.Service.Get(r.Context(), chi.URLParam(r, "reportID"))
	if errors.Is(err, reports.ErrReportNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", middleware.GetRequestID(r.Context()))
		return reports.Report{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_get_failed", "failed to load report", middleware.GetRequestID(r.Context()))
		return reports.Report{}, false
	}

	if !auth.Privileged(user.Role) {
		ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || ownID != report.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
			return reports.Report{}, false
		}
	}
	return report, true
}

type reportPayload struct {
	EmployeeID     string  `json:"employeeId"`
	ReportType     string  `json:"reportType"`
	PeriodStart    string  `json:"periodStart"`
	PeriodEnd      string  `json:"periodEnd"`
	Summary        string  `json:"summary"`
	Achievements   string  `json:"achievements"`
	Challenges     string  `json:"challenges"`
	PlanNextPeriod string  `json:"planNextPeriod"`
	TasksCompleted int     `json:"tasksCompleted"`
	HoursWorked    float64 `json:"hoursWorked"`
}

func (h *Handler) draftFromPayload(w http.ResponseWriter, r *http.Request, payload reportPayload, employeeID string) (reports.Draft, bool) {
	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "employee is required")
	v.Required("summary", payload.Summary, "summary is required")
	if !reports.ValidType(payload.ReportType) {
		v.Add("reportType", "must be weekly or monthly")
	}

	var start, end time.Time
	if payload.PeriodStart == "" {
		v.Add("periodStart", "is required")
	} else if parsed, ok := v.Date("periodStart", payload.PeriodStart); ok {
		start = parsed
	}
	if payload.PeriodEnd == "" {
		v.Add("periodEnd", "is required")
	} else if parsed, ok := v.Date("periodEnd", payload.PeriodEnd); ok {
		end = parsed
	}
	v.DateStrictOrder("periodStart", start, "periodEnd", end)
	if payload.TasksCompleted < 0 {
		v.Add("tasksCompleted", "must not be negative")
	}
	if payload.HoursWorked < 0 {
		v.Add("hoursWorked", "must not be negative")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return reports.Draft{}, false
	}

	return reports.Draft{
		EmployeeID:     employeeID,
		ReportType:     payload.ReportType,
		PeriodStart:    start,
		PeriodEnd:      end,
		Summary:        payload.Summary,
		Achievements:   payload.Achievements,
		Challenges:     payload.Challenges,
		PlanNextPeriod: payload.PlanNextPeriod,
		TasksCompleted: payload.TasksCompleted,
		HoursWorked:    payload.HoursWorked,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload reportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, err := h.reportScope(r, user, payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this user", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, employeeID)
	if !ok {
		return
	}

	reportID, err := h.Service.Create(r.Context(), draft)
	if errors.Is(err, reports.ErrDuplicatePeriod) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a report already exists for this employee and period", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_create_failed", "failed to create report", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "report.create", "personal_report", reportID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"employeeId": employeeID, "reportType": draft.ReportType}); err != nil {
		slog.Warn("audit report.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": reportID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	current, ok := h.loadScoped(w, r, user)
	if !ok {
		return
	}

	var payload reportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, current.EmployeeID)
	if !ok {
		return
	}

	err := h.Service.Update(r.Context(), current.ID, draft)
	if errors.Is(err, reports.ErrReportNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, reports.ErrDuplicatePeriod) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a report already exists for this employee and period", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_update_failed", "failed to update report", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "report.update", "personal_report", current.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit report.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	current, ok := h.loadScoped(w, r, user)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), current.ID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_delete_failed", "failed to delete report", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "report.delete", "personal_report", current.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit report.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Feedback == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "feedback", Reason: "is required"},
		})
		return
	}

	reportID := chi.URLParam(r, "reportID")
	err := h.Service.Review(r.Context(), reportID, user.UserID, payload.Feedback)
	switch {
	case errors.Is(err, reports.ErrReportNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, reports.ErrAlreadyReviewed):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "report has already been reviewed", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "report_review_failed", "failed to review report", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "report.review", "personal_report", reportID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit report.review failed", "err", err)
	}

	report, err := h.Service.Get(r.Context(), reportID)
	if err == nil {
		if userID, lookupErr := h.Service.EmployeeUserID(r.Context(), report.EmployeeID); lookupErr == nil {
			if notifyErr := h.Notify.Create(r.Context(), userID, "report_reviewed", "Report reviewed",
				fmt.Sprintf("Your %s report covering %s has been reviewed.", report.ReportType, report.PeriodStart.Format("2006-01-02"))); notifyErr != nil {
				slog.Warn("report review notification failed", "err", notifyErr)
			}
		}
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	report, ok := h.loadScoped(w, r, user)
	if !ok {
		return
	}

	pdfBytes, filename, err := h.Service.ExportPDF(r.Context(), report.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_export_failed", "failed to export report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	if _, err := w.Write(pdfBytes); err != nil {
		slog.Warn("report export write failed", "err", err)
	}
}
