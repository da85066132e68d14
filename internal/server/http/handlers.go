// Package http is the server's JSON API: phone verification, assessment
// submission, plan retrieval, and presigned photo uploads over chi.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelichka/skinform/internal/logging"
	"github.com/avelichka/skinform/internal/plan"
	"github.com/avelichka/skinform/internal/server/assessments"
	"github.com/avelichka/skinform/internal/server/users"
)

// UserService is the slice of users.Service the handlers need.
type UserService interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*users.User, string, error)
	ResetPassword(ctx context.Context, userID, newPassword string) error
}

// AssessmentService is the slice of assessments.Service the handlers need.
type AssessmentService interface {
	Submit(ctx context.Context, userID, idempotencyKey string, form json.RawMessage) (*assessments.Result, error)
	GetPlan(ctx context.Context, userID, assessmentID string) (*plan.DailyProtocol, error)
}

// FileService mints presigned photo upload URLs.
type FileService interface {
	GetPresignedPutURL(ctx context.Context, userID string) (string, string, error)
}

type Handler struct {
	users       UserService
	assessments AssessmentService
	files       FileService
	jwtSecret   []byte
	logger      logging.Logger
}

func NewHandler(us UserService, as AssessmentService, fs FileService, secretKey string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Handler{
		users:       us,
		assessments: as,
		files:       fs,
		jwtSecret:   []byte(secretKey),
		logger:      logger,
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) requestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.RequestOTP(r.Context(), req.Phone); err != nil {
		status, msg := mapDomainError(err)
		writeError(w, status, msg)
		return
	}
	writeMessage(w, http.StatusOK, "verification code sent")
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.users.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		status, msg := mapDomainError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": user.ID,
		"token":   token,
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
		status, msg := mapDomainError(err)
		writeError(w, status, msg)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *Handler) submitAssessment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return
	}

	var req struct {
		IdempotencyKey string          `json:"idempotency_key"`
		Form           json.RawMessage `json:"form"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.assessments.Submit(r.Context(), userID, req.IdempotencyKey, req.Form)
	if err != nil {
		status, msg := mapDomainError(err)
		// Submission failures surface through the envelope the client's
		// pipeline reads, not a bare error object.
		writeJSON(w, status, map[string]any{
			"success": false,
			"message": msg,
		})
		return
	}

	message := fmt.Sprintf("Your personalized routine %q is ready.", result.RoutineName)
	if result.Duplicate {
		message = "This assessment was already processed."
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           message,
		"recommendation_id": result.AssessmentID,
	})
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return
	}

	protocol, err := h.assessments.GetPlan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		status, msg := mapDomainError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, protocol)
}

func (h *Handler) presignPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return
	}

	key, url, err := h.files.GetPresignedPutURL(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "presign failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": url,
		"key": key,
	})
}
