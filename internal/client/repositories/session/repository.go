// Package session provides the typed repository owning the "user" slot of
// the durable store.
package session

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
	storageKey    = "user"
	schemaVersion = 1
)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Session       *models.Session `json:"session"`
}

// Repository persists the authenticated session.
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

// Load returns the stored session, or nil when none exists. Undecodable
// data is logged and treated as no session; store read failures propagate.
func (r *Repository) Load(ctx context.Context) (*models.Session, error) {
	data, err := r.store.Get(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Error(ctx, "stored session is undecodable, treating as logged out",
			"key", storageKey, "bytes", len(data), "error", err)
		return nil, nil
	}
	if env.SchemaVersion != schemaVersion {
		r.logger.Warn(ctx, "stored session has unexpected schema version",
			"key", storageKey, "stored", env.SchemaVersion, "expected", schemaVersion)
	}
	return env.Session, nil
}

// Save writes the session under the fixed key.
func (r *Repository) Save(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(envelope{SchemaVersion: schemaVersion, Session: s})
	if err != nil {
		return fmt.Errorf("%w: encoding session: %v", common.ErrPersistence, err)
	}
	if err := r.store.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Delete removes the stored session.
func (r *Repository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
