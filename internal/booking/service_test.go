package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func clockAt(date string, hour, min int) fixedClock {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return fixedClock{t: time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)}
}

type ledgerMock struct {
	insertFn func(ctx context.Context, b *Booking) (string, error)
	decideFn func(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error)
	cancelFn func(ctx context.Context, id, userID string) (int64, error)
}

func (m *ledgerMock) Insert(ctx context.Context, b *Booking) (string, error) {
	return m.insertFn(ctx, b)
}
func (m *ledgerMock) Decide(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error) {
	return m.decideFn(ctx, id, to, approverID, rejectionReason)
}
func (m *ledgerMock) CancelByRequester(ctx context.Context, id, userID string) (int64, error) {
	return m.cancelFn(ctx, id, userID)
}

type roomsMock struct {
	enabledFn func(ctx context.Context, roomID string) (bool, bool, error)
}

func (m *roomsMock) Enabled(ctx context.Context, roomID string) (bool, bool, error) {
	return m.enabledFn(ctx, roomID)
}

type pubRecorder struct {
	keys []string
	err  error
}

func (p *pubRecorder) Publish(ctx context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	return p.err
}

func openRoom() *roomsMock {
	return &roomsMock{enabledFn: func(ctx context.Context, roomID string) (bool, bool, error) {
		return true, true, nil
	}}
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(&ledgerMock{}, openRoom(), clockAt("2025-10-05", 7, 0), nil)

	cases := []struct {
		name                        string
		requester, room, date, slot string
	}{
		{"missing requester", "", "r1", "2025-10-05", "08:00-10:00"},
		{"missing room", "u1", "", "2025-10-05", "08:00-10:00"},
		{"missing date", "u1", "r1", "", "08:00-10:00"},
		{"missing slot", "u1", "r1", "2025-10-05", ""},
		{"unknown slot", "u1", "r1", "2025-10-05", "09:00-11:00"},
		{"bad date", "u1", "r1", "05/10/2025", "08:00-10:00"},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(context.Background(), tc.requester, tc.room, tc.date, tc.slot, ""); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestSubmit_PastSlot(t *testing.T) {
	svc := NewService(&ledgerMock{}, openRoom(), clockAt("2025-10-05", 10, 1), nil)

	if _, err := svc.Submit(context.Background(), "u1", "r1", "2025-10-05", "08:00-10:00", ""); !errors.Is(err, ErrPastSlot) {
		t.Fatalf("expected ErrPastSlot, got %v", err)
	}

	// The same slot on a future date is admissible.
	ledger := &ledgerMock{insertFn: func(ctx context.Context, b *Booking) (string, error) {
		return "b1", nil
	}}
	svc = NewService(ledger, openRoom(), clockAt("2025-10-05", 10, 1), nil)
	if _, err := svc.Submit(context.Background(), "u1", "r1", "2025-10-06", "08:00-10:00", ""); err != nil {
		t.Fatalf("future date: unexpected error %v", err)
	}
}

func TestSubmit_RoomUnavailable(t *testing.T) {
	missing := &roomsMock{enabledFn: func(ctx context.Context, roomID string) (bool, bool, error) {
		return false, false, nil
	}}
	svc := NewService(&ledgerMock{}, missing, clockAt("2025-10-05", 7, 0), nil)
	if _, err := svc.Submit(context.Background(), "u1", "nope", "2025-10-05", "08:00-10:00", ""); !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("missing room: expected ErrRoomUnavailable, got %v", err)
	}

	disabled := &roomsMock{enabledFn: func(ctx context.Context, roomID string) (bool, bool, error) {
		return false, true, nil
	}}
	svc = NewService(&ledgerMock{}, disabled, clockAt("2025-10-05", 7, 0), nil)
	if _, err := svc.Submit(context.Background(), "u1", "r1", "2025-10-05", "08:00-10:00", ""); !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("disabled room: expected ErrRoomUnavailable, got %v", err)
	}
}

func TestSubmit_ConflictsPassThroughWithoutNotification(t *testing.T) {
	pub := &pubRecorder{}
	for _, want := range []error{ErrSlotConflict, ErrDuplicateRequester} {
		ledger := &ledgerMock{insertFn: func(ctx context.Context, b *Booking) (string, error) {
			return "", want
		}}
		svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)
		if _, err := svc.Submit(context.Background(), "u1", "r1", "2025-10-05", "08:00-10:00", ""); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
	if len(pub.keys) != 0 {
		t.Fatalf("failed admissions must not publish, got %v", pub.keys)
	}
}

func TestSubmit_Success(t *testing.T) {
	var inserted *Booking
	ledger := &ledgerMock{insertFn: func(ctx context.Context, b *Booking) (string, error) {
		inserted = b
		return "b42", nil
	}}
	pub := &pubRecorder{}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)

	id, err := svc.Submit(context.Background(), " u1 ", "r1", "2025-10-05", "08:00-10:00", "  study group ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "b42" {
		t.Fatalf("expected id b42, got %q", id)
	}
	if inserted.UserID != "u1" || inserted.Reason != "study group" {
		t.Fatalf("inputs not trimmed: %+v", inserted)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "booking.created" {
		t.Fatalf("expected booking.created event, got %v", pub.keys)
	}
}

func TestSubmit_PublisherFailureDoesNotFailAdmission(t *testing.T) {
	ledger := &ledgerMock{insertFn: func(ctx context.Context, b *Booking) (string, error) {
		return "b1", nil
	}}
	pub := &pubRecorder{err: errors.New("broker down")}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)

	if _, err := svc.Submit(context.Background(), "u1", "r1", "2025-10-05", "08:00-10:00", ""); err != nil {
		t.Fatalf("publish failure must not surface: %v", err)
	}
}

func TestDecide_Validation(t *testing.T) {
	svc := NewService(&ledgerMock{}, openRoom(), clockAt("2025-10-05", 7, 0), nil)

	if _, err := svc.Decide(context.Background(), "b1", "maybe", "a1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad decision: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), "b1", "approved", "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing approver: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), "", "approved", "a1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing id: expected ErrValidation, got %v", err)
	}
}

func TestDecide_ApproveDiscardsRejectionReason(t *testing.T) {
	var gotReason *string
	ledger := &ledgerMock{decideFn: func(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error) {
		gotReason = rejectionReason
		return 1, nil
	}}
	pub := &pubRecorder{}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)

	st, err := svc.Decide(context.Background(), "b1", "approved", "a2", "should be ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != StatusApproved {
		t.Fatalf("expected approved, got %s", st)
	}
	if gotReason != nil {
		t.Fatalf("approval must not record a rejection reason, got %q", *gotReason)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "booking.updated" {
		t.Fatalf("expected booking.updated event, got %v", pub.keys)
	}
}

func TestDecide_RejectRecordsReason(t *testing.T) {
	var gotReason *string
	ledger := &ledgerMock{decideFn: func(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error) {
		gotReason = rejectionReason
		return 1, nil
	}}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), nil)

	if _, err := svc.Decide(context.Background(), "b1", "rejected", "a2", " room under maintenance "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReason == nil || *gotReason != "room under maintenance" {
		t.Fatalf("expected trimmed reason, got %v", gotReason)
	}
}

func TestDecide_AlreadyProcessed(t *testing.T) {
	ledger := &ledgerMock{decideFn: func(ctx context.Context, id string, to Status, approverID string, rejectionReason *string) (int64, error) {
		return 0, nil
	}}
	pub := &pubRecorder{}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)

	if _, err := svc.Decide(context.Background(), "b1", "rejected", "a2", ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if len(pub.keys) != 0 {
		t.Fatalf("lost decision must not publish, got %v", pub.keys)
	}
}

func TestCancel(t *testing.T) {
	var gotID, gotUser string
	ledger := &ledgerMock{cancelFn: func(ctx context.Context, id, userID string) (int64, error) {
		gotID, gotUser = id, userID
		return 1, nil
	}}
	pub := &pubRecorder{}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), pub)

	if err := svc.Cancel(context.Background(), "b1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "b1" || gotUser != "u1" {
		t.Fatalf("cancel forwarded wrong args: %s %s", gotID, gotUser)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "booking.updated" {
		t.Fatalf("expected booking.updated event, got %v", pub.keys)
	}
}

func TestCancel_AlreadyProcessed(t *testing.T) {
	ledger := &ledgerMock{cancelFn: func(ctx context.Context, id, userID string) (int64, error) {
		return 0, nil
	}}
	svc := NewService(ledger, openRoom(), clockAt("2025-10-05", 7, 0), nil)

	if err := svc.Cancel(context.Background(), "b1", "u1"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if err := svc.Cancel(context.Background(), "", "u1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
