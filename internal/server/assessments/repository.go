package assessments

import (
	"context"
)

type Repository interface {
	// CreateWithRoutine inserts an assessment together with its routine in a
	// single transaction, so a stored idempotency key always has a routine.
	// The routine's AssessmentID is filled in from the new assessment.
	CreateWithRoutine(ctx context.Context, assessment *Assessment, routine *Routine) (*Assessment, error)

	// GetByIdempotencyKey returns the assessment submitted under the key, or
	// common.ErrNotFound.
	GetByIdempotencyKey(ctx context.Context, key string) (*Assessment, error)

	// CreateRoutine inserts a generated routine and returns it with the
	// generated id.
	CreateRoutine(ctx context.Context, routine *Routine) (*Routine, error)

	// GetRoutineByAssessment returns the routine generated for an assessment,
	// or common.ErrNotFound.
	GetRoutineByAssessment(ctx context.Context, assessmentID string) (*Routine, error)
}
