// Package api is the client's gateway to the recommendation server:
// a typed interface over its JSON HTTP endpoints.
package api

import (
	"context"

	"github.com/avelichka/skinform/internal/client/models"
	"github.com/avelichka/skinform/internal/plan"
)

// SubmissionRequest carries one answer set to the server. IdempotencyKey
// identifies the snapshot: resubmitting the same key returns the already
// created recommendation instead of generating a duplicate.
type SubmissionRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Form           *models.AnswerSet `json:"form"`
}

// SubmissionResponse is the server's verdict on a submission.
type SubmissionResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	RecommendationID string `json:"recommendation_id,omitempty"`
}

// VerifyResult is returned when an OTP code is accepted.
type VerifyResult struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// PresignResult carries a presigned upload URL and the storage key the
// uploaded photo will live under.
type PresignResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Client is the remote collaborator contract. All methods honor context
// cancellation; timeouts come from the underlying transport.
type Client interface {
	// RequestOTP asks the server to send a verification code to phone.
	RequestOTP(ctx context.Context, phone string) error

	// VerifyOTP checks the entered code and returns the user's identity and
	// access token on success.
	VerifyOTP(ctx context.Context, phone, code string) (*VerifyResult, error)

	// ResetPassword sets a new account password for the authenticated user.
	ResetPassword(ctx context.Context, newPassword string) error

	// SubmitAssessment sends the answer set for analysis and returns the
	// created recommendation's identifier.
	SubmitAssessment(ctx context.Context, req *SubmissionRequest) (*SubmissionResponse, error)

	// GetPlan fetches the generated protocol for a recommendation id.
	GetPlan(ctx context.Context, recommendationID string) (*plan.DailyProtocol, error)

	// PresignPhoto obtains a presigned PUT URL for a photo upload.
	PresignPhoto(ctx context.Context) (*PresignResult, error)

	// Ping checks server liveness.
	Ping(ctx context.Context) error
}
