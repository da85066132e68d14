// Package assessments stores submitted answer sets and orchestrates plan
// generation: persist the form, ask the planner for a protocol, keep the
// result as a daily routine.
package assessments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/logging"
	"github.com/avelichka/skinform/internal/plan"
	"github.com/avelichka/skinform/internal/server/planner"
)

// Result is what a submission returns to the transport layer. The assessment
// id doubles as the public recommendation id.
type Result struct {
	AssessmentID string
	RoutineName  string
	Duplicate    bool
}

type Service struct {
	repo        Repository
	planner     planner.Planner
	routineDays int
	logger      logging.Logger

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(repo Repository, p planner.Planner, routineDays int, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Service{
		repo:        repo,
		planner:     p,
		routineDays: routineDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit persists the form and generates its routine. Resubmitting the same
// idempotency key returns the already stored result without calling the
// planner again; a key reused by another account is rejected. The key is only
// claimed together with a routine, so a failed generation leaves nothing
// behind and the same key can be resubmitted.
func (s *Service) Submit(ctx context.Context, userID, idempotencyKey string, form json.RawMessage) (*Result, error) {
	if idempotencyKey == "" || len(form) == 0 {
		return nil, fmt.Errorf("%w: idempotency key and form are required", common.ErrValidation)
	}

	existing, err := s.repo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}
	if existing != nil {
		if existing.UserID != userID {
			return nil, fmt.Errorf("%w: idempotency key belongs to another account", common.ErrValidation)
		}
		routine, err := s.repo.GetRoutineByAssessment(ctx, existing.ID)
		if errors.Is(err, common.ErrNotFound) {
			// An assessment without a routine is an interrupted submission;
			// finish it instead of failing the key forever.
			return s.generateForExisting(ctx, existing)
		}
		if err != nil {
			return nil, common.ErrInternal
		}
		return &Result{AssessmentID: existing.ID, RoutineName: routine.RoutineName, Duplicate: true}, nil
	}

	start := s.now()
	protocol, err := s.planner.Generate(ctx, form, s.routineDays, start)
	if err != nil {
		s.logger.Error(ctx, "plan generation failed", "idempotency_key", idempotencyKey, "error", err)
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	routine, err := s.buildRoutine(userID, protocol, start)
	if err != nil {
		return nil, common.ErrInternal
	}

	assessment, err := s.repo.CreateWithRoutine(ctx, &Assessment{
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
		Form:           form,
	}, routine)
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "routine generated",
		"assessment_id", assessment.ID, "routine_name", protocol.RoutineName, "days", protocol.TotalDays)
	return &Result{AssessmentID: assessment.ID, RoutineName: protocol.RoutineName}, nil
}

// generateForExisting retries plan generation for an assessment row that has
// no routine yet.
func (s *Service) generateForExisting(ctx context.Context, assessment *Assessment) (*Result, error) {
	start := s.now()
	protocol, err := s.planner.Generate(ctx, assessment.Form, s.routineDays, start)
	if err != nil {
		s.logger.Error(ctx, "plan generation failed", "assessment_id", assessment.ID, "error", err)
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	routine, err := s.buildRoutine(assessment.UserID, protocol, start)
	if err != nil {
		return nil, common.ErrInternal
	}
	routine.AssessmentID = assessment.ID
	if _, err := s.repo.CreateRoutine(ctx, routine); err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "routine generated",
		"assessment_id", assessment.ID, "routine_name", protocol.RoutineName, "days", protocol.TotalDays)
	return &Result{AssessmentID: assessment.ID, RoutineName: protocol.RoutineName}, nil
}

func (s *Service) buildRoutine(userID string, protocol *plan.DailyProtocol, start time.Time) (*Routine, error) {
	days := protocol.TotalDays
	if days <= 0 {
		days = s.routineDays
	}

	name := protocol.RoutineName
	if name == "" {
		name = "Custom Holistic Protocol"
	}

	structure, err := json.Marshal(protocol)
	if err != nil {
		return nil, err
	}

	return &Routine{
		UserID:        userID,
		RoutineName:   name,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days-1),
		IsActive:      true,
		PlanStructure: structure,
		CustomNotes:   fmt.Sprintf("Generated by AI on %s", start.Format(time.RFC3339)),
	}, nil
}

// GetPlan returns the protocol generated for an assessment. Only the owner
// can read it; anyone else gets common.ErrNotFound.
func (s *Service) GetPlan(ctx context.Context, userID, assessmentID string) (*plan.DailyProtocol, error) {
	routine, err := s.repo.GetRoutineByAssessment(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	if routine.UserID != userID {
		return nil, common.ErrNotFound
	}

	var protocol plan.DailyProtocol
	if err := json.Unmarshal(routine.PlanStructure, &protocol); err != nil {
		return nil, common.ErrInternal
	}
	return &protocol, nil
}
