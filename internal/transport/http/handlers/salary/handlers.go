package salaryhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/domain/salary"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
	"talenthub/internal/transport/http/shared"
)

type Handler struct {
	Service     *salary.Service
	Perms       middleware.PermissionStore
	Audit       *audit.Service
	Notify      *notifications.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *salary.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service, idempotency *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr/salary-reviews", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSalaryRequest, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{reviewID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermSalaryRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermSalaryRequest, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermSalaryRequest, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermSalaryApprove, h.Perms)).Post("/approve", h.handleApprove)
			r.With(middleware.RequirePermission(auth.PermSalaryApprove, h.Perms)).Post("/reject", h.handleReject)
			r.With(middleware.RequirePermission(auth.PermSalaryApprove, h.Perms)).Post("/implement", h.handleImplement)
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

	status := r.URL.Query().Get("status")
	if status != "" {
		v := shared.NewValidator()
		v.Enum("status", status, salary.Statuses, "must be pending, approved, rejected, or implemented")
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
	}

	page := shared.ParsePagination(r, 50, 200)
	reviews, err := h.Service.List(r.Context(), employeeID, status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_list_failed", "failed to list salary reviews", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reviews, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	review, err := h.Service.Get(r.Context(), chi.URLParam(r, "reviewID"))
	if errors.Is(err, salary.ErrReviewNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "salary review not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_get_failed", "failed to load salary review", middleware.GetRequestID(r.Context()))
		return
	}

	if !auth.Privileged(user.Role) {
		ownID, err := h.Service.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil || ownID != review.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
			return
		}
	}
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

type reviewPayload struct {
	EmployeeID     string  `json:"employeeId"`
	ProposedSalary float64 `json:"proposedSalary"`
	Reason         string  `json:"reason"`
	Justification  string  `json:"justification"`
	EffectiveDate  string  `json:"effectiveDate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	v.Required("reason", payload.Reason, "reason is required")
	if payload.ProposedSalary <= 0 {
		v.Add("proposedSalary", "must be a positive amount")
	}
	var effectiveDate *time.Time
	if payload.EffectiveDate != "" {
		if parsed, ok := v.Date("effectiveDate", payload.EffectiveDate); ok {
			effectiveDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	review, err := h.Service.Create(r.Context(), salary.Draft{
		EmployeeID:     payload.EmployeeID,
		RequestedBy:    user.UserID,
		ProposedSalary: payload.ProposedSalary,
		Reason:         payload.Reason,
		Justification:  payload.Justification,
		EffectiveDate:  effectiveDate,
	})
	var proposalErr *salary.ProposalError
	if errors.As(err, &proposalErr) {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "proposedSalary", Reason: proposalErr.Error()},
		})
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_create_failed", "failed to create salary review", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.review.create", "salary_review", review.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"employeeId": review.EmployeeID, "proposedSalary": review.ProposedSalary, "increasePercentage": review.IncreasePercentage}); err != nil {
		slog.Warn("audit salary.review.create failed", "err", err)
	}
	h.notifyEmployee(r, review, "salary_review_submitted", "Salary review submitted",
		fmt.Sprintf("A salary review proposing %.2f has been submitted for you.", review.ProposedSalary))

	api.Created(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	if payload.ProposedSalary <= 0 {
		v.Add("proposedSalary", "must be a positive amount")
	}
	var effectiveDate *time.Time
	if payload.EffectiveDate != "" {
		if parsed, ok := v.Date("effectiveDate", payload.EffectiveDate); ok {
			effectiveDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	review, err := h.Service.Update(r.Context(), reviewID, payload.ProposedSalary, payload.Reason, payload.Justification, effectiveDate)
	var proposalErr *salary.ProposalError
	switch {
	case errors.Is(err, salary.ErrReviewNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary review not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, salary.ErrNotPending):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "salary review can only be modified while pending", middleware.GetRequestID(r.Context()))
		return
	case errors.As(err, &proposalErr):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "proposedSalary", Reason: proposalErr.Error()},
		})
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "salary_update_failed", "failed to update salary review", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.review.update", "salary_review", review.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"proposedSalary": review.ProposedSalary}); err != nil {
		slog.Warn("audit salary.review.update failed", "err", err)
	}
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "reviewID")

	err := h.Service.Delete(r.Context(), reviewID)
	switch {
	case errors.Is(err, salary.ErrReviewNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary review not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, salary.ErrNotPending):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "salary review can only be deleted while pending", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "salary_delete_failed", "failed to delete salary review", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.review.delete", "salary_review", reviewID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit salary.review.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, salary.ActionApprove, "salary.review.approve", "salary_review_approved", "Salary review approved",
		"Your salary review has been approved.")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, salary.ActionReject, "salary.review.reject", "salary_review_rejected", "Salary review rejected",
		"Your salary review has been rejected.")
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, action, auditAction, ntype, title, body string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Comments string `json:"comments"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	reviewID := chi.URLParam(r, "reviewID")
	review, err := h.Service.Apply(r.Context(), reviewID, action, user.UserID, payload.Comments)
	switch {
	case errors.Is(err, salary.ErrReviewNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary review not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, salary.ErrInvalidState):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "salary review is not in a state that allows this action", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "salary_decision_failed", "failed to apply decision", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, auditAction, "salary_review", review.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": review.Status}); err != nil {
		slog.Warn("audit "+auditAction+" failed", "err", err)
	}
	h.notifyEmployee(r, review, ntype, title, body)
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

// handleImplement honors the Idempotency-Key header: a replay with the same
// key and body returns the stored response instead of running the salary
// write a second time.
func (h *Handler) handleImplement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	reviewID := chi.URLParam(r, "reviewID")
	endpoint := "salary-reviews/implement/" + reviewID

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read request body", middleware.GetRequestID(r.Context()))
		return
	}
	requestHash := middleware.RequestHash(body)

	key := r.Header.Get("Idempotency-Key")
	if key != "" {
		stored, replay, err := h.Idempotency.Check(r.Context(), user.UserID, endpoint, key, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was already used with a different request", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_check_failed", "failed to check idempotency key", middleware.GetRequestID(r.Context()))
			return
		}
		if replay {
			var review salary.Review
			if err := json.NewDecoder(bytes.NewReader(stored)).Decode(&review); err == nil {
				api.Success(w, review, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	review, err := h.Service.Apply(r.Context(), reviewID, salary.ActionImplement, user.UserID, "")
	switch {
	case errors.Is(err, salary.ErrReviewNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary review not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, salary.ErrInvalidState):
		api.Fail(w, http.StatusBadRequest, "invalid_state", "only an approved salary review can be implemented", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "salary_implement_failed", "failed to implement salary review", middleware.GetRequestID(r.Context()))
		return
	}

	if key != "" {
		response, marshalErr := json.Marshal(review)
		if marshalErr == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, endpoint, key, requestHash, response); err != nil {
				slog.Warn("idempotency save failed", "endpoint", endpoint, "err", err)
			}
		}
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.review.implement", "salary_review", review.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"newSalary": review.ProposedSalary}); err != nil {
		slog.Warn("audit salary.review.implement failed", "err", err)
	}
	h.notifyEmployee(r, review, "salary_review_implemented", "Salary change implemented",
		fmt.Sprintf("Your new salary of %.2f is now in effect.", review.ProposedSalary))

	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyEmployee(r *http.Request, review salary.Review, ntype, title, body string) {
	userID, err := h.Service.EmployeeUserID(r.Context(), review.EmployeeID)
	if err != nil {
		slog.Warn("salary notification target lookup failed", "employeeId", review.EmployeeID, "err", err)
		return
	}
	if err := h.Notify.Create(r.Context(), userID, ntype, title, body); err != nil {
		slog.Warn("salary notification failed", "err", err)
	}
}
