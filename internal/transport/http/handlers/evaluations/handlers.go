package evaluationshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/evaluation"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluation.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
}

func NewHandler(service *evaluation.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr/evaluations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{evaluationID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Post("/acknowledge", h.handleAcknowledge)
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

	page := shared.ParsePagination(r, 50, 200)
	evaluations, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	eval, err := h.Service.Get(r.Context(), chi.URLParam(r, "evaluationID"))
	if errors.Is(err, evaluation.ErrEvaluationNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_get_failed", "failed to load evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.Privileged(user.Role) {
		ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || ownID != eval.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
			return
		}
	}
	api.Success(w, eval, middleware.GetRequestID(r.Context()))
}

type evaluationPayload struct {
	EmployeeID                string   `json:"employeeId"`
	PeriodType                string   `json:"periodType"`
	PeriodStart               string   `json:"periodStart"`
	PeriodEnd                 string   `json:"periodEnd"`
	OverallRating             string   `json:"overallRating"`
	Strengths                 string   `json:"strengths"`
	AreasForImprovement       string   `json:"areasForImprovement"`
	Achievements              string   `json:"achievements"`
	GoalsNextPeriod           string   `json:"goalsNextPeriod"`
	PromotionRecommended      bool     `json:"promotionRecommended"`
	SalaryIncreaseRecommended bool     `json:"salaryIncreaseRecommended"`
	RecommendedIncreasePct    *float64 `json:"recommendedIncreasePercentage"`
}

func (h *Handler) draftFromPayload(w http.ResponseWriter, r *http.Request, payload evaluationPayload, evaluatorID string) (evaluation.Draft, bool) {
	draft := evaluation.Draft{
		EmployeeID:                payload.EmployeeID,
		EvaluatorID:               evaluatorID,
		PeriodType:                payload.PeriodType,
		OverallRating:             payload.OverallRating,
		Strengths:                 payload.Strengths,
		AreasForImprovement:       payload.AreasForImprovement,
		Achievements:              payload.Achievements,
		GoalsNextPeriod:           payload.GoalsNextPeriod,
		PromotionRecommended:      payload.PromotionRecommended,
		SalaryIncreaseRecommended: payload.SalaryIncreaseRecommended,
		RecommendedIncreasePct:    payload.RecommendedIncreasePct,
	}
	if payload.PeriodStart != "" {
		if parsed, err := shared.ParseDate(payload.PeriodStart); err == nil {
			draft.PeriodStart = parsed
		}
	}
	if payload.PeriodEnd != "" {
		if parsed, err := shared.ParseDate(payload.PeriodEnd); err == nil {
			draft.PeriodEnd = parsed
		}
	}

	if issues := evaluation.Validate(draft); len(issues) > 0 {
		fields := make([]shared.ValidationIssue, 0, len(issues))
		for _, issue := range issues {
			fields = append(fields, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), fields)
		return evaluation.Draft{}, false
	}
	return draft, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload evaluationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	eval, err := h.Service.Create(r.Context(), draft)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_create_failed", "failed to create evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.create", "evaluation", eval.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"employeeId": eval.EmployeeID, "periodType": eval.PeriodType, "overallRating": eval.OverallRating}); err != nil {
		slog.Warn("audit evaluation.create failed", "err", err)
	}
	h.notifyEmployee(r, eval.EmployeeID, "evaluation_created", "New performance evaluation",
		fmt.Sprintf("A %s evaluation covering %s to %s is ready for your review.", eval.PeriodType, eval.PeriodStart.Format("2006-01-02"), eval.PeriodEnd.Format("2006-01-02")))

	api.Created(w, eval, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	evaluationID := chi.URLParam(r, "evaluationID")

	var payload evaluationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	draft, ok := h.draftFromPayload(w, r, payload, user.UserID)
	if !ok {
		return
	}

	eval, err := h.Service.Update(r.Context(), evaluationID, draft)
	if errors.Is(err, evaluation.ErrEvaluationNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_update_failed", "failed to update evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.update", "evaluation", eval.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"overallRating": eval.OverallRating}); err != nil {
		slog.Warn("audit evaluation.update failed", "err", err)
	}
	api.Success(w, eval, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	evaluationID := chi.URLParam(r, "evaluationID")

	err := h.Service.Delete(r.Context(), evaluationID)
	if errors.Is(err, evaluation.ErrEvaluationNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_delete_failed", "failed to delete evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.delete", "evaluation", evaluationID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit evaluation.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	eval, err := h.Service.Acknowledge(r.Context(), evaluationID, user.UserID, payload.Comments)
	switch {
	case errors.Is(err, evaluation.ErrEvaluationNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, evaluation.ErrNotOwnEvaluation):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluated employee may acknowledge", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, evaluation.ErrAlreadyAcknowledged):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "evaluation has already been acknowledged", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "evaluation_acknowledge_failed", "failed to acknowledge evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.acknowledge", "evaluation", eval.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit evaluation.acknowledge failed", "err", err)
	}
	if eval.EvaluatorID != "" {
		if err := h.Notify.Create(r.Context(), eval.EvaluatorID, "evaluation_acknowledged", "Evaluation acknowledged",
			fmt.Sprintf("%s acknowledged their %s evaluation.", eval.EmployeeName, eval.PeriodType)); err != nil {
			slog.Warn("evaluation acknowledge notification failed", "err", err)
		}
	}
	api.Success(w, eval, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyEmployee(r *http.Request, employeeID, ntype, title, body string) {
	userID, err := h.Service.EmployeeUserID(r.Context(), employeeID)
	if err != nil {
		slog.Warn("evaluation notification target lookup failed", "employeeId", employeeID, "err", err)
		return
	}
	if err := h.Notify.Create(r.Context(), userID, ntype, title, body); err != nil {
		slog.Warn("evaluation notification failed", "err", err)
	}
}
