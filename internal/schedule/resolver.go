package schedule

import "time"

// SlotStatus is derived, never persisted; always recomputed from room state,
// bookings and the clock.
type SlotStatus string

const (
	StatusFree     SlotStatus = "free"
	StatusPending  SlotStatus = "pending"
	StatusReserved SlotStatus = "reserved"
	StatusDisabled SlotStatus = "disabled"
)

type SlotState struct {
	Label  string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// ActiveBooking is the minimal shape of a non-terminal (pending/approved)
// booking the resolver needs.
type ActiveBooking struct {
	Slot     string
	Approved bool
}

// Resolve computes the status of every catalog slot for one room on one date.
//
// Precedence per slot, first match wins:
//  1. room disabled        -> disabled
//  2. slot elapsed today   -> disabled (overrides any booking)
//  3. pending booking      -> pending
//  4. approved booking     -> reserved
//  5. otherwise            -> free
//
// At most one active booking can exist per slot (admission enforces it), so
// 3 and 4 are mutually exclusive by construction.
func Resolve(roomEnabled bool, date string, now time.Time, active []ActiveBooking) []SlotState {
	out := make([]SlotState, 0, len(catalog))
	for _, slot := range catalog {
		out = append(out, SlotState{
			Label:  slot.Label,
			Status: resolveOne(slot, roomEnabled, date, now, active),
		})
	}
	return out
}

func resolveOne(slot Slot, roomEnabled bool, date string, now time.Time, active []ActiveBooking) SlotStatus {
	if !roomEnabled {
		return StatusDisabled
	}
	if slot.Elapsed(now, date) {
		return StatusDisabled
	}
	for _, b := range active {
		if b.Slot != slot.Label {
			continue
		}
		if b.Approved {
			return StatusReserved
		}
		return StatusPending
	}
	return StatusFree
}
