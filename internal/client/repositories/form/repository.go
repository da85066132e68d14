// Package form provides the typed repository owning the "formData" slot of
// the durable store. It wraps the answer set in a versioned JSON envelope so
// later schema changes can be decoded forward-compatibly.
package form

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avelichka/skinform/internal/client/models"
	"github.com/avelichka/skinform/internal/client/storage"
	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/logging"
)

const (
	storageKey    = "formData"
	schemaVersion = 1
)

type envelope struct {
	SchemaVersion int               `json:"schema_version"`
	Form          *models.AnswerSet `json:"form"`
}

// Repository persists the in-progress answer set.
type Repository struct {
	store  storage.Repository
	logger logging.Logger
}

func NewRepository(store storage.Repository, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Repository{store: store, logger: logger}
}

// Load reads the durable copy. An absent record yields an empty answer set.
// An undecodable record is treated the same way: the corruption is logged
// with the stored version for schema-drift diagnosis, never surfaced.
// Store read failures do propagate.
func (r *Repository) Load(ctx context.Context) (*models.AnswerSet, error) {
	data, err := r.store.Get(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("loading form data: %w", err)
	}
	if data == nil {
		return &models.AnswerSet{}, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Error(ctx, "stored form data is undecodable, starting fresh",
			"key", storageKey, "bytes", len(data), "error", err)
		return &models.AnswerSet{}, nil
	}
	if env.Form == nil {
		r.logger.Warn(ctx, "stored form envelope has no payload, starting fresh",
			"key", storageKey, "schema_version", env.SchemaVersion)
		return &models.AnswerSet{}, nil
	}
	if env.SchemaVersion != schemaVersion {
		r.logger.Warn(ctx, "stored form data has unexpected schema version",
			"key", storageKey, "stored", env.SchemaVersion, "expected", schemaVersion)
	}
	return env.Form, nil
}

// Save writes the whole answer set under the fixed key.
func (r *Repository) Save(ctx context.Context, a *models.AnswerSet) error {
	data, err := json.Marshal(envelope{SchemaVersion: schemaVersion, Form: a})
	if err != nil {
		return fmt.Errorf("%w: encoding form data: %v", common.ErrPersistence, err)
	}
	if err := r.store.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("saving form data: %w", err)
	}
	return nil
}

// Delete removes the durable copy entirely.
func (r *Repository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("deleting form data: %w", err)
	}
	return nil
}
