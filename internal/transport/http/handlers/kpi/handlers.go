package kpihandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/kpi"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/platform/jobs"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service *kpi.Service
	Jobs    *jobs.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
}

func NewHandler(service *kpi.Service, jobsSvc *jobs.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr/kpis", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermKPIWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/stats", h.handleStats)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/snapshot/run", h.handleSnapshotRun)
		r.Route("/{recordID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermKPIWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermKPIWrite, h.Perms)).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employee")
	if !auth.Privileged(user.Role) {
		ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this user", middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = ownID
	}

	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be in YYYY-MM format", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	records, err := h.Service.List(r.Context(), employeeID, month, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_list_failed", "failed to list kpi records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if errors.Is(err, kpi.ErrRecordNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_get_failed", "failed to load kpi record", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.Privileged(user.Role) {
		ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || ownID != record.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
			return
		}
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

type kpiPayload struct {
	EmployeeID         string  `json:"employeeId"`
	Month              string  `json:"month"`
	TasksCompleted     int     `json:"tasksCompleted"`
	TasksOnTime        int     `json:"tasksOnTime"`
	QualityScore       float64 `json:"qualityScore"`
	CollaborationScore float64 `json:"collaborationScore"`
	InnovationScore    float64 `json:"innovationScore"`
	Notes              string  `json:"notes"`
}

func (h *Handler) draftFromPayload(w http.ResponseWriter, r *http.Request, payload kpiPayload, createdBy string) (kpi.Draft, bool) {
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	v.Required("month", payload.Month, "month is required")

	month, err := shared.ParseMonth(payload.Month)
	if err != nil || month.IsZero() {
		v.Add("month", "must be in YYYY-MM format")
	}
	if !kpi.ValidScore(payload.QualityScore) {
		v.Add("qualityScore", "must be between 0 and 10")
	}
	if !kpi.ValidScore(payload.CollaborationScore) {
		v.Add("collaborationScore", "must be between 0 and 10")
	}
	if !kpi.ValidScore(payload.InnovationScore) {
		v.Add("innovationScore", "must be between 0 and 10")
	}
	if !kpi.ValidTaskCounts(payload.TasksCompleted, payload.TasksOnTime) {
		v.Add("tasksOnTime", "must be between 0 and tasksCompleted")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return kpi.Draft{}, false
	}

	return kpi.Draft{
		EmployeeID:         payload.EmployeeID,
		Month:              month,
		TasksCompleted:     payload.TasksCompleted,
		TasksOnTime:        payload.TasksOnTime,
		QualityScore:       payload.QualityScore,
		CollaborationScore: payload.CollaborationScore,
		InnovationScore:    payload.InnovationScore,
		Notes:              payload.Notes,
		CreatedBy:          createdBy,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload kpiPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	record, err := h.Service.Create(r.Context(), draft)
	if errors.Is(err, kpi.ErrDuplicateMonth) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a kpi record already exists for this employee and month", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_create_failed", "failed to create kpi record", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.create", "kpi_record", record.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"employeeId": record.EmployeeID, "month": record.Month.Format("2006-01"), "overallScore": record.OverallScore}); err != nil {
		slog.Warn("audit kpi.record.create failed", "err", err)
	}
	h.notifyEmployee(r, record, "kpi_recorded", "KPI scores recorded",
		fmt.Sprintf("Your KPI scores for %s have been recorded (overall %.2f).", record.Month.Format("2006-01"), record.OverallScore))

	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	var payload kpiPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	record, err := h.Service.Update(r.Context(), recordID, draft)
	if errors.Is(err, kpi.ErrRecordNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if errors.Is(err, kpi.ErrDuplicateMonth) {
		api.Fail(w, http.StatusBadRequest, "duplicate", "a kpi record already exists for this employee and month", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_update_failed", "failed to update kpi record", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.update", "kpi_record", record.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"overallScore": record.OverallScore}); err != nil {
		slog.Warn("audit kpi.record.update failed", "err", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	err := h.Service.Delete(r.Context(), recordID)
	if errors.Is(err, kpi.ErrRecordNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_delete_failed", "failed to delete kpi record", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.delete", "kpi_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit kpi.record.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil || month.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month is required in YYYY-MM format", middleware.GetRequestID(r.Context()))
		return
	}

	stats, err := h.Service.Stats(r.Context(), month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kpi_stats_failed", "failed to compute kpi stats", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

// handleSnapshotRun enqueues a stats snapshot for the given month instead of
// blocking the request on the aggregate query.
func (h *Handler) handleSnapshotRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil || month.IsZero() {
		now := time.Now().UTC()
		month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	}

	h.Jobs.Enqueue(jobs.JobKPISnapshot, func(ctx context.Context) (any, error) {
		stats, err := kpi.SnapshotMonth(ctx, h.Jobs.DB, month)
		return map[string]any{
			"month": month.Format("2006-01"),
			"stats": stats,
		}, err
	})

	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.snapshot.run", "kpi_snapshot", month.Format("2006-01"), middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit kpi.snapshot.run failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "enqueued", "month": month.Format("2006-01")}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyEmployee(r *http.Request, record kpi.Record, ntype, title, body string) {
	userID, err := h.Service.EmployeeUserID(r.Context(), record.EmployeeID)
	if err != nil {
		slog.Warn("kpi notification target lookup failed", "employeeId", record.EmployeeID, "err", err)
		return
	}
	if err := h.Notify.Create(r.Context(), userID, ntype, title, body); err != nil {
		slog.Warn("kpi notification failed", "err", err)
	}
}
