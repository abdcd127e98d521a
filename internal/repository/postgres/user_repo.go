package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/repository"
)

const uniqueViolation = "23505"

const userColumns = "id, name, username, email, password_hash, phone, photo_url, role, is_deleted, created_at, updated_at"

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		photo_url     TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'user',
		is_deleted    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepo struct {
	db      DB
	timeout time.Duration
}

func NewUserRepo(db DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout}
}

func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByLogin(ctx context.Context, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE NOT is_deleted AND (email = $1 OR username = $1 OR phone = $1)
		LIMIT 1`
	return r.scanUser(ctx, query, value)
}

func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, email, userName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $2 LIMIT 1`
	return r.scanUser(ctx, query, email, userName)
}

func (r *UserRepo) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND ($2 OR NOT is_deleted)`
	return r.scanUser(ctx, query, uid, includeDeleted)
}

func (r *UserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, username, email, phone, photo_url, role, is_deleted, created_at, updated_at
		FROM users
		WHERE NOT is_deleted
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var (
			u    domain.User
			id   uuid.UUID
			role string
		)
		if err := rows.Scan(&id, &u.Name, &u.UserName, &u.Email, &u.Phone, &u.PhotoURL, &role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.ID = id.String()
		u.Role = domain.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	now := time.Now().UTC()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		id, user.Name, user.UserName, user.Email, user.Password,
		user.Phone, user.PhotoURL, string(user.Role), user.IsDeleted, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = id.String()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	uid, err := uuid.Parse(user.ID)
	if err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, phone = $5, photo_url = $6,
		    role = $7, is_deleted = $8, updated_at = $9
		WHERE id = $1`

	_, err = r.db.Exec(ctx, query,
		uid, user.Name, user.Email, user.Password, user.Phone, user.PhotoURL,
		string(user.Role), user.IsDeleted, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}

	user.UpdatedAt = now
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		u    domain.User
		id   uuid.UUID
		role string
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&id, &u.Name, &u.UserName, &u.Email, &u.Password,
		&u.Phone, &u.PhotoURL, &role, &u.IsDeleted,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}

	u.ID = id.String()
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
