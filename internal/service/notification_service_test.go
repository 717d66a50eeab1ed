package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"unisms/internal/metrics"
	"unisms/internal/models"
)

type notificationFixture struct {
	svc       *NotificationService
	channel   *scriptedChannel
	ledger    *memLedger
	publisher *memPublisher
	metrics   *metrics.Metrics
}

func newNotificationFixture(failPhones ...string) notificationFixture {
	students := newMemStudents(
		student("s1", "IP-1", "+101", models.LevelL1),
		student("s2", "IP-2", "+102", models.LevelL3),
		student("s3", "IP-3", "+103", models.LevelM2),
	)
	teachers := newMemTeachers(
		teacher("t1", "T-1", "+201"),
		teacher("t2", "T-2", "+202"),
	)
	failures := map[string]bool{}
	for _, p := range failPhones {
		failures[p] = true
	}
	channel := &scriptedChannel{failures: failures}
	ledger := &memLedger{}
	publisher := &memPublisher{}
	m := metrics.New()
	log := zerolog.Nop()

	svc := NewNotificationService(
		NewResolver(students, teachers),
		NewDispatcher(channel, 4, m, log),
		NewLedgerService(ledger, publisher, log),
		m,
		log,
	)
	return notificationFixture{svc: svc, channel: channel, ledger: ledger, publisher: publisher, metrics: m}
}

func allSelectors() []Selector {
	return []Selector{
		{ID: "s1", Type: models.PersonStudent},
		{ID: "s2", Type: models.PersonStudent},
		{ID: "s3", Type: models.PersonStudent},
		{ID: "t1", Type: models.PersonTeacher},
		{ID: "t2", Type: models.PersonTeacher},
	}
}

func TestSendPartialFailureRecordsFullSnapshot(t *testing.T) {
	fx := newNotificationFixture("+101", "+103", "+202")

	result, err := fx.svc.Send(context.Background(), SendInput{
		Message:   "Les cours reprennent lundi",
		Selectors: allSelectors(),
		SentBy:    "adm-1",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.SuccessCount != 2 || result.TotalCount != 5 || result.Status != models.DispatchSent {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(fx.ledger.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(fx.ledger.entries))
	}
	entry := fx.ledger.entries[0]
	if entry.ID != result.HistoryID {
		t.Fatalf("history id mismatch: %s vs %s", entry.ID, result.HistoryID)
	}
	if entry.RecipientCount != 5 || len(entry.Recipients) != 5 || entry.SuccessCount != 2 {
		t.Fatalf("unexpected entry counts: %+v", entry)
	}
	delivered := 0
	for _, r := range entry.Recipients {
		if r.Delivered {
			delivered++
		}
	}
	if delivered != 2 {
		t.Fatalf("expected 2 delivered snapshots, got %d", delivered)
	}
	if entry.SentBy != "adm-1" {
		t.Fatalf("unexpected sentBy %q", entry.SentBy)
	}
	if len(fx.publisher.published) != 1 {
		t.Fatalf("expected entry to be published for archiving")
	}
	if got := testutil.ToFloat64(fx.metrics.Sends(metrics.OutcomeFailed)); got != 3 {
		t.Fatalf("expected 3 failed sends recorded, got %v", got)
	}
}

func TestSendCollapsesDuplicateSelectors(t *testing.T) {
	fx := newNotificationFixture()

	result, err := fx.svc.Send(context.Background(), SendInput{
		Message: "Rappel examen",
		Selectors: []Selector{
			{ID: "s1", Type: models.PersonStudent},
			{ID: "s1", Type: models.PersonStudent},
			{ID: "t1", Type: models.PersonTeacher},
		},
		SentBy: "adm-1",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.TotalCount != 2 || result.SuccessCount != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := fx.channel.calls.Load(); got != 2 {
		t.Fatalf("expected 2 channel sends, got %d", got)
	}
	if len(fx.ledger.entries) != 1 || len(fx.ledger.entries[0].Recipients) != 2 {
		t.Fatalf("unexpected ledger snapshot: %+v", fx.ledger.entries)
	}
}

func TestSendAllFailedIsStillRecorded(t *testing.T) {
	fx := newNotificationFixture("+101", "+102", "+103", "+201", "+202")

	result, err := fx.svc.Send(context.Background(), SendInput{Message: "test", Selectors: allSelectors(), SentBy: "adm-1"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.Status != models.DispatchFailed || result.SuccessCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if calls := fx.channel.calls.Load(); calls != 5 {
		t.Fatalf("expected 5 attempts, got %d", calls)
	}
	if len(fx.ledger.entries) != 1 || fx.ledger.entries[0].Status != models.DispatchFailed {
		t.Fatalf("expected a failed ledger entry, got %+v", fx.ledger.entries)
	}
}

func TestSendWithOnlyUnknownRecipients(t *testing.T) {
	fx := newNotificationFixture()

	_, err := fx.svc.Send(context.Background(), SendInput{
		Message:   "hello",
		Selectors: []Selector{{ID: "ghost", Type: models.PersonTeacher}},
		SentBy:    "adm-1",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(fx.ledger.entries) != 0 || fx.channel.calls.Load() != 0 {
		t.Fatal("nothing should be sent or recorded")
	}
}

func TestSendRejectsEmptyInput(t *testing.T) {
	fx := newNotificationFixture()

	if _, err := fx.svc.Send(context.Background(), SendInput{Message: "", Selectors: allSelectors()}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := fx.svc.Send(context.Background(), SendInput{Message: "hi"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSendLedgerFailureAfterDelivery(t *testing.T) {
	fx := newNotificationFixture()
	fx.ledger.failWith = errors.New("disk full")

	_, err := fx.svc.Send(context.Background(), SendInput{Message: "hi", Selectors: allSelectors(), SentBy: "adm-1"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if calls := fx.channel.calls.Load(); calls != 5 {
		t.Fatalf("sends must have happened before the ledger write, got %d", calls)
	}
	if len(fx.publisher.published) != 0 {
		t.Fatal("unrecorded batches must not be archived")
	}
}
