// Package submit implements the submission pipeline: one outbound request
// per completed answer set, with a client-side idempotency key so a retry
// after failure cannot create a duplicate recommendation.
package submit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/avelichka/skinform/internal/client/api"
	"github.com/avelichka/skinform/internal/client/models"
	"github.com/avelichka/skinform/internal/client/storage"
	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/logging"
)

// keyRecordKey is the pipeline's own slot in the durable store, next to the
// engines' "formData" and "user" records.
const keyRecordKey = "submissionKey"

// Receipt is the successful outcome of a submission.
type Receipt struct {
	RecommendationID string
	Message          string
}

// keyRecord binds an idempotency key to the answer-set snapshot it was
// minted for. A changed snapshot gets a fresh key; an unchanged one reuses
// the stored key so the server can deduplicate resubmissions.
type keyRecord struct {
	SnapshotHash   string `json:"snapshot_hash"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Pipeline performs at-most-one outstanding submission. It never mutates
// the answer set or the engines' stored records.
type Pipeline struct {
	client   api.Client
	store    storage.Repository
	logger   logging.Logger
	inFlight atomic.Bool
}

func NewPipeline(client api.Client, store storage.Repository, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Pipeline{client: client, store: store, logger: logger}
}

// Submit sends the answer set as-is: step completeness is the caller's
// concern (the skip-photos path submits with Step6 nil). A concurrent call
// while one is outstanding returns ErrSubmissionInFlight. Failures are
// returned with a displayable message and are never retried here; the
// caller may resubmit, which reuses the same idempotency key as long as
// the answers have not changed.
func (p *Pipeline) Submit(ctx context.Context, answers *models.AnswerSet) (*Receipt, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrSubmissionInFlight
	}
	defer p.inFlight.Store(false)

	key, err := p.idempotencyKey(ctx, answers)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.SubmitAssessment(ctx, &api.SubmissionRequest{
		IdempotencyKey: key,
		Form:           answers,
	})
	if err != nil {
		p.logger.Error(ctx, "assessment submission failed", "error", err)
		return nil, fmt.Errorf("failed to submit assessment: %w", err)
	}
	if !resp.Success {
		p.logger.Warn(ctx, "server rejected assessment", "message", resp.Message)
		return nil, fmt.Errorf("failed to submit assessment: %s", resp.Message)
	}

	p.logger.Info(ctx, "assessment submitted", "recommendation_id", resp.RecommendationID)
	return &Receipt{RecommendationID: resp.RecommendationID, Message: resp.Message}, nil
}

// ClearKey removes the stored idempotency record. Called when the form is
// reset: a fresh form that happens to repeat the old answers is a new
// submission and must not replay the old recommendation.
func (p *Pipeline) ClearKey(ctx context.Context) error {
	if err := p.store.Delete(ctx, keyRecordKey); err != nil {
		return fmt.Errorf("deleting idempotency record: %w", err)
	}
	return nil
}

// idempotencyKey returns the key bound to this snapshot, minting and
// persisting a new one when the answers changed since the last attempt.
func (p *Pipeline) idempotencyKey(ctx context.Context, answers *models.AnswerSet) (string, error) {
	hash, err := snapshotHash(answers)
	if err != nil {
		return "", err
	}

	if data, err := p.store.Get(ctx, keyRecordKey); err == nil && data != nil {
		var rec keyRecord
		if err := json.Unmarshal(data, &rec); err == nil && rec.SnapshotHash == hash && rec.IdempotencyKey != "" {
			return rec.IdempotencyKey, nil
		}
	} else if err != nil {
		// A fresh key still lets the submission proceed.
		p.logger.Warn(ctx, "could not read stored idempotency key", "error", err)
	}

	rec := keyRecord{SnapshotHash: hash, IdempotencyKey: uuid.NewString()}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding idempotency record: %w", err)
	}
	if err := p.store.Set(ctx, keyRecordKey, data); err != nil {
		p.logger.Warn(ctx, "could not persist idempotency key", "error", err)
	}
	return rec.IdempotencyKey, nil
}

func snapshotHash(answers *models.AnswerSet) (string, error) {
	data, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encoding answer set: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
