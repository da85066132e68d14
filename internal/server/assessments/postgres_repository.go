package assessments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) CreateWithRoutine(ctx context.Context, assessment *Assessment, routine *Routine) (*Assessment, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := insertAssessment(ctx, tx, assessment); err != nil {
			return err
		}
		routine.AssessmentID = assessment.ID
		_, err := insertRoutine(ctx, tx, routine)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func insertAssessment(ctx context.Context, q dbx.DBTX, assessment *Assessment) (*Assessment, error) {
	query :=
		`INSERT INTO assessments (user_id, idempotency_key, form)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := q.QueryRowContext(ctx, query,
		assessment.UserID, assessment.IdempotencyKey, []byte(assessment.Form)).
		Scan(&assessment.ID, &assessment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return assessment, nil
}

func (r *PostgresRepository) GetByIdempotencyKey(ctx context.Context, key string) (*Assessment, error) {
	query :=
		`SELECT id, user_id, idempotency_key, form, created_at FROM assessments
		 WHERE idempotency_key = $1
		 `

	assessment := &Assessment{}
	var form []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&assessment.ID, &assessment.UserID, &assessment.IdempotencyKey, &form, &assessment.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	assessment.Form = form
	return assessment, nil
}

func (r *PostgresRepository) CreateRoutine(ctx context.Context, routine *Routine) (*Routine, error) {
	return insertRoutine(ctx, r.db, routine)
}

func insertRoutine(ctx context.Context, q dbx.DBTX, routine *Routine) (*Routine, error) {
	query :=
		`INSERT INTO daily_routines
		     (user_id, assessment_id, routine_name, start_date, end_date, is_active, plan_structure, custom_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := q.QueryRowContext(ctx, query,
		routine.UserID, routine.AssessmentID, routine.RoutineName,
		routine.StartDate, routine.EndDate, routine.IsActive,
		[]byte(routine.PlanStructure), routine.CustomNotes).
		Scan(&routine.ID, &routine.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return routine, nil
}

func (r *PostgresRepository) GetRoutineByAssessment(ctx context.Context, assessmentID string) (*Routine, error) {
	query :=
		`SELECT id, user_id, assessment_id, routine_name, start_date, end_date,
		        is_active, plan_structure, custom_notes, created_at
		 FROM daily_routines
		 WHERE assessment_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	routine := &Routine{}
	var planStructure []byte
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, query, assessmentID).Scan(
		&routine.ID, &routine.UserID, &routine.AssessmentID, &routine.RoutineName,
		&routine.StartDate, &routine.EndDate, &routine.IsActive,
		&planStructure, &notes, &routine.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	routine.PlanStructure = planStructure
	routine.CustomNotes = notes.String
	return routine, nil
}
