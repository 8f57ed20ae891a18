package api

import (
	"testing"
	"time"
)

func TestSignAndVerifySession(t *testing.T) {
	now := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)

	token, err := SignSession("secret", "u1", "alice", RoleLecturer, time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := VerifySession(token, "secret", now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "u1" || id.Name != "alice" || id.Role != RoleLecturer {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifySession_Expired(t *testing.T) {
	now := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)

	token, err := SignSession("secret", "u1", "alice", RoleStudent, time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifySession(token, "secret", now.Add(2*time.Hour)); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifySession_WrongSecret(t *testing.T) {
	now := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)

	token, err := SignSession("secret", "u1", "alice", RoleStudent, time.Hour, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifySession(token, "other-secret", now); err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if _, err := VerifySession("", "secret", now); err == nil {
		t.Fatal("expected error for empty token")
	}
}
