// Package cli is the interactive wizard front-end: it sequences the auth
// flow and the six assessment steps over the engines, which own all state.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelichka/skinform/internal/client/api"
	"github.com/avelichka/skinform/internal/client/auth"
	"github.com/avelichka/skinform/internal/client/config"
	"github.com/avelichka/skinform/internal/client/form"
	"github.com/avelichka/skinform/internal/client/photos"
	formrepo "github.com/avelichka/skinform/internal/client/repositories/form"
	sessionrepo "github.com/avelichka/skinform/internal/client/repositories/session"
	"github.com/avelichka/skinform/internal/client/storage"
	"github.com/avelichka/skinform/internal/client/submit"
	"github.com/avelichka/skinform/internal/logging"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	authEngine *auth.Engine
	formEngine *form.Engine
	pipeline   *submit.Pipeline
	uploader   *photos.Uploader
	apiClient  api.Client
	reader     *bufio.Reader

	// lastReceiptID remembers the most recent successful submission so the
	// plan can be shown without re-entering its id.
	lastReceiptID string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing local database: %w", err)
	}

	store := storage.NewSQLiteRepository(db)
	authEngine := auth.NewEngine(sessionrepo.NewRepository(store, logger), c.SessionMaxAge, logger)

	apiClient := api.NewHTTPClient(c.ServerBaseURL, func() string {
		if s := authEngine.Session(); s != nil {
			return s.Token
		}
		return ""
	})

	app := &App{
		config:     c,
		logger:     logger,
		authEngine: authEngine,
		formEngine: form.NewEngine(formrepo.NewRepository(store, logger), logger),
		pipeline:   submit.NewPipeline(apiClient, store, logger),
		uploader:   photos.NewUploader(apiClient, logger),
		apiClient:  apiClient,
		reader:     bufio.NewReader(os.Stdin),
	}
	return app, nil
}

// Run restores persisted state and enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.formEngine.Close()

	if err := a.authEngine.CheckAuth(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}
	if err := a.formEngine.Load(ctx); err != nil {
		fmt.Println("Warning: your saved answers could not be read; starting fresh.")
	}

	if done := a.formEngine.Snapshot().StepsCompleted(); done > 0 {
		fmt.Printf("Welcome back! %d of 6 steps already completed.\n", done)
	}

	a.root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authEngine.State() == auth.StateAuthenticated
}
