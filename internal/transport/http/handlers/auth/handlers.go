package authhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/notifications"
	cryptoutil "talenthub/internal/platform/crypto"
	"talenthub/internal/platform/requestctx"
	"talenthub/internal/transport/http/api"
	"talenthub/internal/transport/http/middleware"
)

type Handler struct {
	Service    *auth.Service
	Secret     string
	Crypto     *cryptoutil.Service
	Mailer     notifications.Mailer
	From       string
	AppBaseURL string
}

func NewHandler(service *auth.Service, secret string, crypto *cryptoutil.Service, mailer notifications.Mailer, from, appBaseURL string) *Handler {
	return &Handler{Service: service, Secret: secret, Crypto: crypto, Mailer: mailer, From: from, AppBaseURL: appBaseURL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

const userStatusActive = "active"

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	account, err := h.Service.FindActiveUserByEmail(r.Context(), payload.Email, userStatusActive)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(account.Password, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if account.MFAEnabled {
		if payload.MFACode == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestctx.GetRequestID(r.Context()))
			return
		}
		secret := ""
		if h.Crypto != nil && h.Crypto.Configured() {
			decoded, err := h.Crypto.DecryptString(account.MFASecretEn)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa configuration", requestctx.GetRequestID(r.Context()))
				return
			}
			secret = decoded
		} else {
			secret = string(account.MFASecretEn)
		}
		if secret == "" || !totp.Validate(payload.MFACode, secret) {
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
			return
		}
	}

	sessionID, err := auth.NewOpaqueToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	sessionExpires := time.Now().Add(auth.RefreshTokenTTL)
	if err := h.Service.CreateSession(r.Context(), account.ID, auth.HashToken(sessionID), sessionExpires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: account.ID, Role: account.Role, SessionID: sessionID}, auth.AccessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateLastLogin(r.Context(), account.ID); err != nil {
		slog.Warn("update last_login failed", "userId", account.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": account.ID, "role": account.Role},
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Service.RevokeSession(r.Context(), user.UserID, auth.HashToken(user.SessionID)); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	claims, err := auth.ParseToken(h.Secret, parts[1])
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	valid, err := h.Service.SessionValid(r.Context(), claims.UserID, auth.HashToken(claims.SessionID))
	if err != nil || !valid {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session expired", requestctx.GetRequestID(r.Context()))
		return
	}

	newSessionID, err := auth.NewOpaqueToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to rotate session", requestctx.GetRequestID(r.Context()))
		return
	}
	sessionExpires := time.Now().Add(auth.RefreshTokenTTL)
	if err := h.Service.RotateSession(r.Context(), claims.UserID, auth.HashToken(claims.SessionID), auth.HashToken(newSessionID), sessionExpires); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to rotate session", requestctx.GetRequestID(r.Context()))
		return
	}

	// Role is re-read so a role change takes effect on the next refresh
	// instead of living as long as the session.
	role, err := h.Service.UserRole(r.Context(), claims.UserID)
	if err != nil {
		role = claims.Role
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    claims.UserID,
		Role:      role,
		SessionID: newSessionID,
	}, auth.AccessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"token": token}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if h.Crypto == nil || !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", requestctx.GetRequestID(r.Context()))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "TalentHub",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	secret := key.Secret()
	encrypted, err := h.Crypto.EncryptString(secret)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.UpdateMFASecret(r.Context(), user.UserID, encrypted); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to store mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": key.URL()}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}
	if h.Crypto == nil || !h.Crypto.Configured() {
		api.Fail(w, http.StatusBadRequest, "mfa_unavailable", "mfa requires encryption key", requestctx.GetRequestID(r.Context()))
		return
	}
	var payload mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	secretEnc, err := h.Service.GetMFASecret(r.Context(), user.UserID)
	if err != nil || len(secretEnc) == 0 {
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestctx.GetRequestID(r.Context()))
		return
	}
	secret, err := h.Crypto.DecryptString(secretEnc)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa secret", requestctx.GetRequestID(r.Context()))
		return
	}
	if !totp.Validate(payload.Code, secret) {
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.SetMFAEnabled(r.Context(), user.UserID, enable); err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa_update_failed", "failed to update mfa", requestctx.GetRequestID(r.Context()))
		return
	}
	status := "disabled"
	if enable {
		status = "enabled"
	}
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	// The response is identical whether or not the email exists.
	userID, err := h.Service.UserIDByEmail(r.Context(), payload.Email)
	if err == nil {
		token, err := auth.NewOpaqueToken()
		if err != nil {
			slog.Warn("password reset token generation failed", "userId", userID, "err", err)
			api.Success(w, map[string]string{"status": "reset_requested"}, requestctx.GetRequestID(r.Context()))
			return
		}
		ttl := 2 * time.Hour
		expires := time.Now().Add(ttl)
		if err := h.Service.CreatePasswordReset(r.Context(), userID, auth.HashToken(token), expires); err != nil {
			slog.Warn("password reset insert failed", "userId", userID, "err", err)
		} else if h.Mailer != nil {
			link := buildResetLink(h.AppBaseURL, token)
			if err := h.Mailer.Send(r.Context(), h.From, payload.Email, "Password reset", buildResetEmailMessage(link, ttl)); err != nil {
				slog.Warn("password reset email failed", "userId", userID, "err", err)
			}
		}
	}

	api.Success(w, map[string]string{"status": "reset_requested"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := validateResetPassword(payload.NewPassword); err != nil {
		api.Fail(w, http.StatusBadRequest, "weak_password", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	userID, err := h.Service.PasswordResetUserID(r.Context(), auth.HashToken(payload.Token))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", requestctx.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update password", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.MarkPasswordResetUsed(r.Context(), auth.HashToken(payload.Token)); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}

	api.Success(w, map[string]string{"status": "password_reset"}, requestctx.GetRequestID(r.Context()))
}

func validateResetPassword(password string) error {
	if len(password) < 10 {
		return errors.New("password must be at least 10 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain upper and lower case letters and a number")
	}
	return nil
}

func buildResetLink(baseURL, token string) string {
	const fallback = "http://localhost:8080"
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		parsed, _ = url.Parse(fallback)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/reset"
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func buildResetEmailMessage(link string, ttl time.Duration) string {
	return fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password. The link expires in %d hour(s).\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.",
		int(ttl.Hours()), link)
}
