package dashboard

import (
	"context"

	"roombooking/internal/booking"
	"roombooking/internal/room"
	"roombooking/internal/schedule"
)

type RoomSource interface {
	List(ctx context.Context) ([]room.Room, error)
}

type BookingSource interface {
	ActiveOnDate(ctx context.Context, date string) ([]booking.Booking, error)
}

// Stats are today's occupancy figures. disabled_rooms counts physically
// disabled rooms; elapsed_slots counts slots of enabled rooms that have
// already passed. The two are reported separately, with disabled_rooms kept
// as the legacy combined field name.
type Stats struct {
	Pending       int `json:"pending_slots"`
	Reserved      int `json:"reserved_slots"`
	DisabledRooms int `json:"disabled_rooms"`
	ElapsedSlots  int `json:"elapsed_slots"`
	Free          int `json:"free_slots"`
}

type Aggregator struct {
	Rooms    RoomSource
	Bookings BookingSource
	Clock    schedule.Clock
}

// Stats reduces the slot-state resolver's grid over every room for the
// clock's current date. It deliberately reuses the same derivation as the
// per-room slot view instead of independent counts, so the dashboard can
// never drift from what users see per room.
func (a Aggregator) Stats(ctx context.Context) (Stats, error) {
	now := a.Clock.Now()
	date := schedule.DateOf(now)

	rooms, err := a.Rooms.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	active, err := a.Bookings.ActiveOnDate(ctx, date)
	if err != nil {
		return Stats{}, err
	}

	byRoom := make(map[string][]schedule.ActiveBooking, len(active))
	for _, b := range active {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], schedule.ActiveBooking{
			Slot:     b.Slot,
			Approved: b.Status == booking.StatusApproved,
		})
	}

	var st Stats
	for _, rm := range rooms {
		if !rm.Enabled {
			st.DisabledRooms++
			continue
		}
		for _, slot := range schedule.Resolve(rm.Enabled, date, now, byRoom[rm.ID]) {
			switch slot.Status {
			case schedule.StatusPending:
				st.Pending++
			case schedule.StatusReserved:
				st.Reserved++
			case schedule.StatusDisabled:
				// Enabled room, so only elapse can disable the slot.
				st.ElapsedSlots++
			case schedule.StatusFree:
				st.Free++
			}
		}
	}
	return st, nil
}
