package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"unisms/internal/models"
)

func TestTaskSurvivesStreamEncoding(t *testing.T) {
	entry := models.LedgerEntry{ID: "h1", Message: "Cours annulé", Status: models.DispatchSent}
	task, err := NewTask("secret", TaskLedger, entry.ID, entry)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	decoded, err := DecodeTask(task.Values())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := decoded.Verify("secret"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if decoded.Type != TaskLedger || decoded.ID != "h1" {
		t.Fatalf("unexpected task: %+v", decoded)
	}
}

func TestTaskRejectsTampering(t *testing.T) {
	task, err := NewTask("secret", TaskLedger, "h1", map[string]string{"message": "original"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	values := task.Values()
	values["data"] = `{"message":"forged"}`
	decoded, err := DecodeTask(values)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := decoded.Verify("secret"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
	if err := task.Verify("other-secret"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for wrong secret, got %v", err)
	}
}

func TestDecodeTaskRequiresFields(t *testing.T) {
	if _, err := DecodeTask(map[string]any{"type": "ledger", "id": "h1"}); err == nil {
		t.Fatal("expected an error for a missing data field")
	}
	if _, err := DecodeTask(map[string]any{"type": 7, "id": "h1", "data": "{}", "signature": "x"}); err == nil {
		t.Fatal("expected an error for a non-string field")
	}
}

func TestProducerWithoutClientIsNoop(t *testing.T) {
	p := NewProducer(nil, "sms:archive", "secret")

	if err := p.PublishLedger(context.Background(), models.LedgerEntry{ID: "h1"}); err != nil {
		t.Fatalf("publish ledger: %v", err)
	}
	if err := p.PublishStatistics(context.Background(), time.Now(), map[string]int{"studentCount": 1}); err != nil {
		t.Fatalf("publish statistics: %v", err)
	}
}
