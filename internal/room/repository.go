package room

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRoomInUse is returned when a room cannot be deleted because bookings
// still reference it. The booking ledger is append-only, so such a room
// should be disabled rather than removed.
var ErrRoomInUse = errors.New("room has bookings")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Room, error) {
	const q = `
SELECT id, name, description, capacity, enabled, created_at, updated_at
FROM rooms
ORDER BY name, id
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Description, &rm.Capacity, &rm.Enabled, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Room, error) {
	const q = `
SELECT id, name, description, capacity, enabled, created_at, updated_at
FROM rooms
WHERE id = $1
`
	rm := &Room{}
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&rm.ID, &rm.Name, &rm.Description, &rm.Capacity, &rm.Enabled, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rm, nil
}

// Enabled reports whether the room exists and whether it is enabled.
func (r *Repository) Enabled(ctx context.Context, id string) (enabled, found bool, err error) {
	const q = `SELECT enabled FROM rooms WHERE id = $1`
	rows, err := r.db.Query(ctx, q, id)
	if err != nil {
		return false, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, false, rows.Err()
	}
	if err := rows.Scan(&enabled); err != nil {
		return false, false, err
	}
	return enabled, true, rows.Err()
}

func (r *Repository) Create(ctx context.Context, name, description string, capacity int, enabled bool) (*Room, error) {
	const q = `
INSERT INTO rooms (name, description, capacity, enabled)
VALUES ($1, $2, $3, $4)
RETURNING id, name, description, capacity, enabled, created_at, updated_at
`
	rm := &Room{}
	if err := r.db.QueryRow(ctx, q, name, description, capacity, enabled).Scan(
		&rm.ID, &rm.Name, &rm.Description, &rm.Capacity, &rm.Enabled, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rm, nil
}

// Update applies a partial patch: nil fields keep their current value.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (*Room, error) {
	const q = `
UPDATE rooms SET
  name = COALESCE($2, name),
  description = COALESCE($3, description),
  capacity = COALESCE($4, capacity),
  enabled = COALESCE($5, enabled),
  updated_at = NOW()
WHERE id = $1
RETURNING id, name, description, capacity, enabled, created_at, updated_at
`
	rm := &Room{}
	if err := r.db.QueryRow(ctx, q, id, p.Name, p.Description, p.Capacity, p.Enabled).Scan(
		&rm.ID, &rm.Name, &rm.Description, &rm.Capacity, &rm.Enabled, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM rooms WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, ErrRoomInUse
		}
		return 0, err
	}
	return tag.RowsAffected(), nil
}
