package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	issued := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	token, err := GenerateSessionToken("secret", SessionSubject{
		UserID:      "stu-1",
		Role:        "student",
		PermanentID: "IP-2024-001",
	}, issued, 24*time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseSessionToken(token, "secret", issued.Add(time.Minute))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "stu-1" || claims.Role != "student" || claims.PermanentID != "IP-2024-001" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Email != "" {
		t.Fatalf("student token must not carry an email")
	}
}

func TestSessionTokenExpiryWindow(t *testing.T) {
	issued := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	token, err := GenerateSessionToken("secret", SessionSubject{UserID: "adm-1", Role: "admin", Email: "admin@univ.ci"}, issued, 24*time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseSessionToken(token, "secret", issued.Add(23*time.Hour+59*time.Minute)); err != nil {
		t.Fatalf("expected token valid at T+23h59m, got %v", err)
	}
	_, err = ParseSessionToken(token, "secret", issued.Add(24*time.Hour+time.Minute))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token rejected at T+24h01m, got %v", err)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	now := time.Now()
	token, err := GenerateSessionToken("secret", SessionSubject{UserID: "u", Role: "teacher"}, now, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseSessionToken(token, "other", now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature failure, got %v", err)
	}
	if _, err := ParseSessionToken("not-a-token", "secret", now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected malformed token failure, got %v", err)
	}
}

func TestSignResource(t *testing.T) {
	sig := SignResource("secret", "entry-1", "ledger")
	if !VerifyResource("secret", sig, "entry-1", "ledger") {
		t.Fatalf("expected signature to verify")
	}
	if VerifyResource("secret", sig, "entry-2", "ledger") {
		t.Fatalf("expected signature mismatch for other entry")
	}
}
