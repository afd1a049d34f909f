package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	ratesvc "github.com/rukshanyomal11/CeylonHomes/internal/services/rate"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
	limiter *ratesvc.Limiter
	logger  *zap.Logger
}

func NewAuthHandler(service *authsvc.Service, limiter *ratesvc.Limiter, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: service, limiter: limiter, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if !h.allow(w, r, "register", clientSubject(r, req.Email)) {
		return
	}

	res, err := h.service.Register(r.Context(), authsvc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, authResponse(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if !h.allow(w, r, "login", clientSubject(r, req.Email)) {
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, req.Name, req.Phone)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if !h.allow(w, r, "forgot_password", strings.ToLower(strings.TrimSpace(req.Email))) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := rules.ValidatePasswordMatch(req.NewPassword, req.ConfirmPassword); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.writeAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

// allow checks the per-scope attempt budget. It answers the request
// itself when the caller is over the limit.
func (h *AuthHandler) allow(w http.ResponseWriter, r *http.Request, scope, subject string) bool {
	if h.limiter == nil {
		return true
	}

	retryAfter, allowed, err := h.limiter.AllowAttempt(r.Context(), scope, subject)
	if err != nil {
		h.logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
		return true
	}
	if allowed {
		return true
	}

	httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
		Code:          "RATE_LIMITED",
		Message:       "Too many attempts, please try again later",
		RetryAfterSec: retryAfter,
	})
	return false
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, authsvc.ErrEmailTaken):
		writeBadRequest(w, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, authsvc.ErrPhoneTaken):
		writeBadRequest(w, "PHONE_TAKEN", err.Error())
	case errors.Is(err, authsvc.ErrEmailNotRegistered):
		writeBadRequest(w, "EMAIL_NOT_REGISTERED", err.Error())
	case errors.Is(err, authsvc.ErrWrongPassword):
		writeBadRequest(w, "WRONG_PASSWORD", err.Error())
	case errors.Is(err, authsvc.ErrCodeInvalid):
		writeBadRequest(w, "CODE_INVALID", err.Error())
	case errors.Is(err, authsvc.ErrUnauthorized), errors.Is(err, authsvc.ErrSessionNotFound), errors.Is(err, authsvc.ErrRefreshNotFound):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "INVALID_REQUEST", "request validation failed")
	default:
		h.logger.Error("auth request failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func authResponse(res authsvc.AuthResult) dto.AuthResponse {
	expiresIn := int64(time.Until(res.AccessExpires).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return dto.AuthResponse{
		User:         res.User,
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresInSec: expiresIn,
	}
}

// clientSubject keys rate limits by account first, remote address as
// the fallback.
func clientSubject(r *http.Request, email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		return email
	}
	return r.RemoteAddr
}
