package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombooking/pkg/db"
)

// Partial unique indexes over non-terminal rows; see migrations. A violation
// means a concurrent admission won.
const (
	constraintActiveSlot      = "bookings_active_slot_key"
	constraintActiveRequester = "bookings_active_requester_key"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert creates a pending booking inside a single transaction: conflicting
// active rows are locked and checked before the insert, so two admissions for
// the same slot or the same requester/date serialize instead of both landing.
// The partial unique indexes remain as a backstop; a violation that slips
// through is mapped onto the same error taxonomy.
func (r *Repository) Insert(ctx context.Context, b *Booking) (string, error) {
	var id string
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const lockRequester = `
SELECT id FROM bookings
WHERE user_id = $1 AND booking_date = $2
  AND status IN ('pending', 'approved')
LIMIT 1
FOR UPDATE
`
		var existing string
		err := tx.QueryRow(ctx, lockRequester, b.UserID, b.Date).Scan(&existing)
		if err == nil {
			return ErrDuplicateRequester
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		const lockSlot = `
SELECT id FROM bookings
WHERE room_id = $1 AND booking_date = $2 AND time_slot = $3
  AND status IN ('pending', 'approved')
LIMIT 1
FOR UPDATE
`
		err = tx.QueryRow(ctx, lockSlot, b.RoomID, b.Date, b.Slot).Scan(&existing)
		if err == nil {
			return ErrSlotConflict
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		const insert = `
INSERT INTO bookings (user_id, room_id, booking_date, time_slot, status, reason)
VALUES ($1, $2, $3, $4, 'pending', $5)
RETURNING id
`
		return tx.QueryRow(ctx, insert, b.UserID, b.RoomID, b.Date, b.Slot, b.Reason).Scan(&id)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case constraintActiveSlot:
				return "", ErrSlotConflict
			case constraintActiveRequester:
				return "", ErrDuplicateRequester
			}
		}
		return "", err
	}
	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	const q = `
SELECT id, user_id, room_id, booking_date::text, time_slot, status, reason,
       approver_id, rejection_reason, created_at, updated_at
FROM bookings
WHERE id = $1
`
	b := &Booking{}
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.Date, &b.Slot, &b.Status, &b.Reason,
		&b.ApproverID, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ActiveByRoomDate returns the non-terminal bookings for one room and date,
// the resolver's input.
func (r *Repository) ActiveByRoomDate(ctx context.Context, roomID, date string) ([]Booking, error) {
	const q = `
SELECT id, user_id, room_id, booking_date::text, time_slot, status, reason,
       approver_id, rejection_reason, created_at, updated_at
FROM bookings
WHERE room_id = $1 AND booking_date = $2 AND status IN ('pending', 'approved')
`
	return r.queryBookings(ctx, q, roomID, date)
}

// ActiveOnDate returns all non-terminal bookings for a date, across rooms.
func (r *Repository) ActiveOnDate(ctx context.Context, date string) ([]Booking, error) {
	const q = `
SELECT id, user_id, room_id, booking_date::text, time_slot, status, reason,
       approver_id, rejection_reason, created_at, updated_at
FROM bookings
WHERE booking_date = $1 AND status IN ('pending', 'approved')
`
	return r.queryBookings(ctx, q, date)
}

func (r *Repository) queryBookings(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.Date, &b.Slot, &b.Status, &b.Reason,
			&b.ApproverID, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Decide transitions pending -> approved|rejected. The update is conditioned
// on the row still being pending; zero affected rows means another decision
// (or a cancel) got there first. rejectionReason is persisted only for
// rejections.
func (r *Repository) Decide(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error) {
	const q = `
UPDATE bookings
SET status = $2, approver_id = $3, rejection_reason = $4, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`
	tag, err := r.db.Exec(ctx, q, id, string(to), approverID, rejectionReason)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CancelByRequester transitions a requester's own non-terminal booking to
// cancelled. Same conditional-update discipline as Decide.
func (r *Repository) CancelByRequester(ctx context.Context, id, userID string) (int64, error) {
	const q = `
UPDATE bookings
SET status = 'cancelled', updated_at = NOW()
WHERE id = $1 AND user_id = $2 AND status IN ('pending', 'approved')
`
	tag, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PendingRequest is one row of the approver work queue.
type PendingRequest struct {
	BookingID   string `json:"booking_id"`
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
	Capacity    int    `json:"capacity"`
	Date        string `json:"date"`
	Slot        string `json:"time_slot"`
	Reason      string `json:"reason"`
	RequesterID string `json:"requester_id"`
	Requester   string `json:"requester_name"`
}

func (r *Repository) ListPending(ctx context.Context) ([]PendingRequest, error) {
	const q = `
SELECT b.id, r.id, r.name, r.capacity, b.booking_date::text, b.time_slot, b.reason,
       u.id, u.name
FROM bookings b
JOIN rooms r ON b.room_id = r.id
JOIN users u ON b.user_id = u.id
WHERE b.status = 'pending'
ORDER BY b.booking_date, b.time_slot
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingRequest
	for rows.Next() {
		var p PendingRequest
		if err := rows.Scan(
			&p.BookingID, &p.RoomID, &p.RoomName, &p.Capacity, &p.Date, &p.Slot, &p.Reason,
			&p.RequesterID, &p.Requester,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HistoryItem is a booking joined with room and user display fields.
type HistoryItem struct {
	BookingID       string    `json:"booking_id"`
	UserID          string    `json:"user_id"`
	RoomID          string    `json:"room_id"`
	Status          Status    `json:"status"`
	RoomName        string    `json:"room_name"`
	Capacity        int       `json:"capacity"`
	Date            string    `json:"date"`
	Slot            string    `json:"time_slot"`
	Reason          string    `json:"reason"`
	ReservedBy      string    `json:"reserved_by"`
	ApprovedBy      *string   `json:"approved_by,omitempty"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

const historySelect = `
SELECT b.id, b.user_id, b.room_id, b.status, r.name, r.capacity,
       b.booking_date::text, b.time_slot, b.reason,
       u_req.name, u_app.name, b.rejection_reason, b.created_at
FROM bookings b
JOIN rooms r ON b.room_id = r.id
JOIN users u_req ON b.user_id = u_req.id
LEFT JOIN users u_app ON b.approver_id = u_app.id
`

// ListDecided returns the approver history: everything already approved or
// rejected.
func (r *Repository) ListDecided(ctx context.Context) ([]HistoryItem, error) {
	const q = historySelect + `
WHERE b.status IN ('approved', 'rejected')
ORDER BY b.booking_date DESC, b.time_slot DESC
`
	return r.queryHistory(ctx, q)
}

// ListByUser returns one requester's full booking history, any status.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]HistoryItem, error) {
	const q = historySelect + `
WHERE b.user_id = $1
ORDER BY b.booking_date DESC, b.time_slot DESC
`
	return r.queryHistory(ctx, q, userID)
}

func (r *Repository) queryHistory(ctx context.Context, q string, args ...any) ([]HistoryItem, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryItem
	for rows.Next() {
		var h HistoryItem
		if err := rows.Scan(
			&h.BookingID, &h.UserID, &h.RoomID, &h.Status, &h.RoomName, &h.Capacity,
			&h.Date, &h.Slot, &h.Reason, &h.ReservedBy, &h.ApprovedBy, &h.RejectionReason, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
