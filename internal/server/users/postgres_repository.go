package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichka/skinform/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	query :=
		`SELECT id, phone, password_hash, created_at FROM users
		 WHERE phone = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, phone).
		Scan(&user.ID, &user.Phone, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, phone string) (*User, error) {
	query :=
		`INSERT INTO users (phone)
		 VALUES ($1)
		 RETURNING id, created_at
		 `

	user := &User{Phone: phone}
	err := r.db.QueryRowContext(ctx, query, phone).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, userID string, hash []byte) error {
	query :=
		`UPDATE users SET password_hash = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, hash)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type PostgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) (*PostgresChallengeRepository, error) {
	return &PostgresChallengeRepository{db: db}, nil
}

func (r *PostgresChallengeRepository) Create(ctx context.Context, challenge *Challenge) (*Challenge, error) {
	query :=
		`INSERT INTO otp_challenges (phone, code_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		challenge.Phone, challenge.CodeHash, challenge.ExpiresAt).
		Scan(&challenge.ID, &challenge.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return challenge, nil
}

func (r *PostgresChallengeRepository) Latest(ctx context.Context, phone string) (*Challenge, error) {
	query :=
		`SELECT id, phone, code_hash, attempts, expires_at, consumed_at, created_at
		 FROM otp_challenges
		 WHERE phone = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	challenge := &Challenge{}
	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&challenge.ID, &challenge.Phone, &challenge.CodeHash, &challenge.Attempts,
		&challenge.ExpiresAt, &challenge.ConsumedAt, &challenge.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return challenge, nil
}

func (r *PostgresChallengeRepository) RecordAttempt(ctx context.Context, id string) error {
	query :=
		`UPDATE otp_challenges SET attempts = attempts + 1
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

func (r *PostgresChallengeRepository) Consume(ctx context.Context, id string) error {
	query :=
		`UPDATE otp_challenges SET consumed_at = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}
