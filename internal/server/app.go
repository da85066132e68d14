// Package server initializes and runs the application server.
// It wires the database, SMS delivery, the plan generator, and the HTTP API,
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avelichka/skinform/internal/logging"
	"github.com/avelichka/skinform/internal/server/assessments"
	"github.com/avelichka/skinform/internal/server/config"
	"github.com/avelichka/skinform/internal/server/files"
	sh "github.com/avelichka/skinform/internal/server/http"
	"github.com/avelichka/skinform/internal/server/planner"
	"github.com/avelichka/skinform/internal/server/shared/db"
	"github.com/avelichka/skinform/internal/server/sms"
	"github.com/avelichka/skinform/internal/server/users"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	userService       *users.Service
	assessmentService *assessments.Service
	fileService       *files.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var sender sms.Sender
	if c.TwilioAccountSID != "" {
		sender = sms.NewTwilioSender(c.TwilioAccountSID, c.TwilioAuthToken, c.TwilioFromNumber)
	} else {
		sender = sms.NewLogSender(logger)
	}

	p, err := planner.NewGeminiPlanner(ctx, c.GeminiAPIKey, c.GeminiModel, logger)
	if err != nil {
		return nil, fmt.Errorf("planner init error: %w", err)
	}

	us := users.NewService(rm.Users(), rm.Challenges(), sender, c)
	as := assessments.NewService(rm.Assessments(), p, c.RoutineDays, logger)
	fs := files.NewService(c)

	return &App{
		config:            c,
		logger:            logger,
		userService:       us,
		assessmentService: as,
		fileService:       fs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	handler := sh.NewHandler(app.userService, app.assessmentService, app.fileService, app.config.SecretKey, app.logger)
	s := sh.NewServer(app.config.EndpointAddr, sh.NewRouter(handler), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
