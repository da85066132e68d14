package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/avelichka/skinform/internal/server/assessments"
	"github.com/avelichka/skinform/internal/server/migrations"
	"github.com/avelichka/skinform/internal/server/users"
)

type PostgresRepositoryManager struct {
	db          *sql.DB
	users       users.Repository
	challenges  users.ChallengeRepository
	assessments assessments.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Challenges() users.ChallengeRepository {
	return m.challenges
}

func (m *PostgresRepositoryManager) Assessments() assessments.Repository {
	return m.assessments
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	userRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	challengeRepo, err := users.NewPostgresChallengeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("challenge repo creation error: %w", err)
	}

	assessmentRepo, err := assessments.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("assessment repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:          db,
		users:       userRepo,
		challenges:  challengeRepo,
		assessments: assessmentRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
