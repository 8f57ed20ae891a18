package schedule

import (
	"testing"
	"time"
)

func at(date string, hour, min int) time.Time {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func statusOf(t *testing.T, grid []SlotState, label string) SlotStatus {
	t.Helper()
	for _, s := range grid {
		if s.Label == label {
			return s.Status
		}
	}
	t.Fatalf("slot %q not in grid", label)
	return ""
}

func TestResolve_AllFreeBeforeFirstSlot(t *testing.T) {
	grid := Resolve(true, "2025-10-05", at("2025-10-05", 7, 0), nil)

	if len(grid) != SlotsPerDay() {
		t.Fatalf("expected %d slots, got %d", SlotsPerDay(), len(grid))
	}
	for _, s := range grid {
		if s.Status != StatusFree {
			t.Fatalf("slot %s: expected free, got %s", s.Label, s.Status)
		}
	}
}

func TestResolve_DisabledRoomOverridesEverything(t *testing.T) {
	active := []ActiveBooking{
		{Slot: "08:00-10:00", Approved: true},
		{Slot: "10:00-12:00", Approved: false},
	}
	grid := Resolve(false, "2025-10-05", at("2025-10-05", 9, 0), active)

	for _, s := range grid {
		if s.Status != StatusDisabled {
			t.Fatalf("slot %s: expected disabled, got %s", s.Label, s.Status)
		}
	}
}

func TestResolve_PendingAndReserved(t *testing.T) {
	active := []ActiveBooking{
		{Slot: "08:00-10:00", Approved: false},
		{Slot: "13:00-15:00", Approved: true},
	}
	grid := Resolve(true, "2025-10-05", at("2025-10-05", 7, 30), active)

	if got := statusOf(t, grid, "08:00-10:00"); got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if got := statusOf(t, grid, "13:00-15:00"); got != StatusReserved {
		t.Fatalf("expected reserved, got %s", got)
	}
	if got := statusOf(t, grid, "10:00-12:00"); got != StatusFree {
		t.Fatalf("expected free, got %s", got)
	}
}

func TestResolve_ElapsedOverridesApprovedBooking(t *testing.T) {
	// 10:01 on the booking's date: the 08:00-10:00 slot has ended, so it is
	// disabled even though an approved booking exists.
	active := []ActiveBooking{{Slot: "08:00-10:00", Approved: true}}
	grid := Resolve(true, "2025-10-05", at("2025-10-05", 10, 1), active)

	if got := statusOf(t, grid, "08:00-10:00"); got != StatusDisabled {
		t.Fatalf("expected disabled, got %s", got)
	}
	// 10:00-12:00 is still in progress, not elapsed.
	if got := statusOf(t, grid, "10:00-12:00"); got != StatusFree {
		t.Fatalf("expected free, got %s", got)
	}
}

func TestResolve_ElapsedBoundaryIsInclusive(t *testing.T) {
	// End time exactly reached counts as elapsed.
	grid := Resolve(true, "2025-10-05", at("2025-10-05", 10, 0), nil)

	if got := statusOf(t, grid, "08:00-10:00"); got != StatusDisabled {
		t.Fatalf("at 10:00 expected disabled, got %s", got)
	}
}

func TestResolve_FutureDateNeverElapses(t *testing.T) {
	grid := Resolve(true, "2025-10-06", at("2025-10-05", 23, 59), nil)

	for _, s := range grid {
		if s.Status != StatusFree {
			t.Fatalf("slot %s on future date: expected free, got %s", s.Label, s.Status)
		}
	}
}

func TestResolve_PastDateNeverElapses(t *testing.T) {
	// The elapse rule only applies to the current date; historical grids keep
	// their booking-derived statuses.
	active := []ActiveBooking{{Slot: "08:00-10:00", Approved: true}}
	grid := Resolve(true, "2025-10-04", at("2025-10-05", 12, 0), active)

	if got := statusOf(t, grid, "08:00-10:00"); got != StatusReserved {
		t.Fatalf("expected reserved, got %s", got)
	}
}
