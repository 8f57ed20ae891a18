package booking

import (
	"errors"
	"time"
)

// Booking is a ledger row. Rows are never deleted, only status-transitioned,
// so the ledger doubles as an audit trail.
type Booking struct {
	ID              string    `json:"booking_id"`
	UserID          string    `json:"user_id"`
	RoomID          string    `json:"room_id"`
	Date            string    `json:"booking_date"`
	Slot            string    `json:"time_slot"`
	Status          Status    `json:"status"`
	Reason          string    `json:"reason"`
	ApproverID      *string   `json:"approver_id,omitempty"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	// ErrValidation marks malformed or missing caller input.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks an absent room or booking.
	ErrNotFound = errors.New("not found")

	// ErrRoomUnavailable marks a missing or disabled room.
	ErrRoomUnavailable = errors.New("room not found or disabled")

	// ErrPastSlot marks a slot that has already elapsed today.
	ErrPastSlot = errors.New("time slot has already passed")

	// ErrDuplicateRequester marks a second active booking for the same
	// requester on the same date.
	ErrDuplicateRequester = errors.New("requester already has a booking for this date")

	// ErrSlotConflict marks an active booking already occupying the slot.
	ErrSlotConflict = errors.New("time slot is already booked or pending")

	// ErrAlreadyProcessed marks a decision or cancel that lost the race: the
	// booking is no longer in a state the transition applies to.
	ErrAlreadyProcessed = errors.New("booking not found or already processed")
)
