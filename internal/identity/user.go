package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrNameTaken marks a registration with an already-used name.
var ErrNameTaken = errors.New("username already exists")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name, passwordHash, role string) (*User, error) {
	const q = `
INSERT INTO users (name, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, name, password_hash, role, created_at
`
	u := &User{}
	err := r.db.QueryRow(ctx, q, name, passwordHash, role).Scan(
		&u.ID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*User, error) {
	const q = `
SELECT id, name, password_hash, role, created_at
FROM users
WHERE name = $1
`
	u := &User{}
	if err := r.db.QueryRow(ctx, q, name).Scan(
		&u.ID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
SELECT id, name, password_hash, role, created_at
FROM users
WHERE id = $1
`
	u := &User{}
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}
