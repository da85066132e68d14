package assessments

import (
	"encoding/json"
	"time"
)

// Assessment is one submitted answer set. The form is stored as the JSON the
// client sent; the server never edits answers.
type Assessment struct {
	ID             string
	UserID         string
	IdempotencyKey string
	Form           json.RawMessage
	CreatedAt      time.Time
}

// Routine is the generated daily protocol bound to an assessment.
type Routine struct {
	ID            string
	UserID        string
	AssessmentID  string
	RoutineName   string
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	PlanStructure json.RawMessage
	CustomNotes   string
	CreatedAt     time.Time
}
