package db

import (
	"context"
	"database/sql"

	"github.com/avelichka/skinform/internal/server/assessments"
	"github.com/avelichka/skinform/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Challenges() users.ChallengeRepository
	Assessments() assessments.Repository
}
