package booking

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roombooking/internal/schedule"
)

// Ledger is the mutable booking store the service drives. The pgx-backed
// Repository implements it; tests substitute fakes.
type Ledger interface {
	Insert(ctx context.Context, b *Booking) (string, error)
	Decide(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error)
	CancelByRequester(ctx context.Context, id, userID string) (int64, error)
}

// RoomDirectory is the narrow room-registry view admission needs.
type RoomDirectory interface {
	Enabled(ctx context.Context, roomID string) (enabled, found bool, err error)
}

// Publisher is the outbound notification sink (best-effort).
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type Service struct {
	ledger Ledger
	rooms  RoomDirectory
	clock  schedule.Clock
	pub    Publisher
}

func NewService(ledger Ledger, rooms RoomDirectory, clock schedule.Clock, pub Publisher) *Service {
	return &Service{ledger: ledger, rooms: rooms, clock: clock, pub: pub}
}

// Submit admits a new booking request. On success the booking is pending and
// its id is returned.
//
// The requester-per-day and slot-occupancy invariants are enforced inside the
// ledger's insert transaction, with partial unique indexes as the backstop;
// concurrent submissions for the same slot serialize there.
func (s *Service) Submit(ctx context.Context, requesterID, roomID, date, slotLabel, reason string) (string, error) {
	requesterID = strings.TrimSpace(requesterID)
	roomID = strings.TrimSpace(roomID)
	date = strings.TrimSpace(date)
	slotLabel = strings.TrimSpace(slotLabel)

	if requesterID == "" || roomID == "" || date == "" || slotLabel == "" {
		return "", fmt.Errorf("%w: requester, room, date and time slot are required", ErrValidation)
	}
	slot, ok := schedule.Lookup(slotLabel)
	if !ok {
		return "", fmt.Errorf("%w: unknown time slot %q", ErrValidation, slotLabel)
	}
	if _, err := schedule.ParseDate(date); err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}

	if slot.Elapsed(s.clock.Now(), date) {
		return "", ErrPastSlot
	}

	enabled, found, err := s.rooms.Enabled(ctx, roomID)
	if err != nil {
		return "", err
	}
	if !found || !enabled {
		return "", ErrRoomUnavailable
	}

	id, err := s.ledger.Insert(ctx, &Booking{
		UserID: requesterID,
		RoomID: roomID,
		Date:   date,
		Slot:   slotLabel,
		Reason: strings.TrimSpace(reason),
	})
	if err != nil {
		return "", err
	}

	s.publish(ctx, "booking.created", map[string]any{
		"booking_id": id,
		"user_id":    requesterID,
		"room_id":    roomID,
		"date":       date,
		"time_slot":  slotLabel,
	})
	return id, nil
}

// Decide transitions a pending booking to approved or rejected. The rejection
// reason is persisted only for rejections; a reason supplied alongside an
// approval is discarded.
func (s *Service) Decide(ctx context.Context, bookingID, decision, approverID, rejectionReason string) (Status, error) {
	bookingID = strings.TrimSpace(bookingID)
	approverID = strings.TrimSpace(approverID)
	if bookingID == "" || approverID == "" {
		return "", fmt.Errorf("%w: booking id and approver are required", ErrValidation)
	}
	to, err := ParseDecision(decision)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var reason *string
	if to == StatusRejected {
		if r := strings.TrimSpace(rejectionReason); r != "" {
			reason = &r
		}
	}

	affected, err := s.ledger.Decide(ctx, bookingID, to, approverID, reason)
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", ErrAlreadyProcessed
	}

	s.publish(ctx, "booking.updated", map[string]any{
		"booking_id": bookingID,
		"status":     string(to),
		"approver":   approverID,
	})
	return to, nil
}

// Cancel lets a requester withdraw their own booking while it is still
// pending or approved.
func (s *Service) Cancel(ctx context.Context, bookingID, requesterID string) error {
	bookingID = strings.TrimSpace(bookingID)
	requesterID = strings.TrimSpace(requesterID)
	if bookingID == "" || requesterID == "" {
		return fmt.Errorf("%w: booking id and requester are required", ErrValidation)
	}

	affected, err := s.ledger.CancelByRequester(ctx, bookingID, requesterID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyProcessed
	}

	s.publish(ctx, "booking.updated", map[string]any{
		"booking_id": bookingID,
		"status":     string(StatusCancelled),
	})
	return nil
}

// publish is fire-and-forget: a broken subscriber must never fail a booking
// operation.
func (s *Service) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, key, v); err != nil {
		log.Printf("[booking] publish %s: %v", key, err)
	}
}
