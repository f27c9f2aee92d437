package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/account"
)

const uniqueViolation = "23505"

// AccountRepository учетные записи и refresh токены в PostgreSQL
type AccountRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewAccountRepository(db *Storage, log *slog.Logger) *AccountRepository {
	return &AccountRepository{
		db:  db,
		log: log.With(slog.String("repository", "account")),
	}
}

func (r *AccountRepository) Create(ctx context.Context, acc account.Account) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, confirmed, created_at)
         VALUES ($1, lower(trim($2)), $3, $4, $5)`,
		acc.ID, acc.Email, acc.PasswordHash, acc.Confirmed, acc.CreatedAt)
	return mapError(err)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (account.Account, error) {
	return r.find(ctx,
		`SELECT id, email, password_hash, confirmed, created_at FROM accounts WHERE email = lower(trim($1))`,
		email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (account.Account, error) {
	return r.find(ctx,
		`SELECT id, email, password_hash, confirmed, created_at FROM accounts WHERE id = $1`,
		id)
}

func (r *AccountRepository) find(ctx context.Context, query string, arg string) (account.Account, error) {
	var acc account.Account
	err := r.db.Pool().QueryRow(ctx, query, arg).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Confirmed, &acc.CreatedAt)
	if err != nil {
		return account.Account{}, mapError(err)
	}
	return acc, nil
}

func (r *AccountRepository) Confirm(ctx context.Context, email string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE accounts SET confirmed = TRUE WHERE email = lower(trim($1))`, email)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SaveRefresh(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
         VALUES (decode($1, 'hex'), $2, $3)`,
		tokenHash, userID, expiresAt)
	return mapError(err)
}

// TakeRefresh удаляет токен одним запросом, поэтому повторный обмен того же токена невозможен
func (r *AccountRepository) TakeRefresh(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var (
		userID    string
		expiresAt time.Time
	)
	err := r.db.Pool().QueryRow(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = decode($1, 'hex')
         RETURNING user_id, expires_at`,
		tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", account.ErrInvalidRefreshToken
	}
	if err != nil {
		return "", mapError(err)
	}
	if !now.Before(expiresAt) {
		return "", account.ErrInvalidRefreshToken
	}
	return userID, nil
}

func (r *AccountRepository) RevokeRefresh(ctx context.Context, userID string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return mapError(err)
	}
	r.log.Debug("refresh tokens revoked", slog.String("user_id", userID), slog.Int64("count", tag.RowsAffected()))
	return nil
}

// mapError переводит ошибки драйвера в ошибки домена учетных записей
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return account.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return account.ErrUserExists
	}
	return fmt.Errorf("postgres: %w", err)
}
