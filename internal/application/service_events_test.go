package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/adapters/assets"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/memory"
	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

type failingDomainBus struct{}

func (failingDomainBus) PublishDomain(context.Context, contracts.EventEnvelope) error {
	return errors.New("broker down")
}

func (failingDomainBus) PublishAnalytics(context.Context, contracts.EventEnvelope) error {
	return nil
}

type recordingDLQ struct {
	records []contracts.DLQRecord
}

func (d *recordingDLQ) PublishDLQ(_ context.Context, record contracts.DLQRecord) error {
	d.records = append(d.records, record)
	return nil
}

func TestFlushOutboxRoutesEventsByClass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row := mustLock(t, f, validLockInput(f))
	if _, err := f.svc.ApproveLock(ctx, actor(approverID), row.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := f.repos.Outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending records, got %d", len(pending))
	}

	if err := f.svc.FlushOutbox(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	pending, err = f.repos.Outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending after flush: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(pending))
	}

	published := f.bus.DomainEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 domain event, got %d", len(published))
	}
	env := published[0]
	if env.EventType != domain.EventLocked {
		t.Fatalf("unexpected domain event type %q", env.EventType)
	}
	if env.EventClass != domain.CanonicalEventClassDomain {
		t.Fatalf("unexpected event class %q", env.EventClass)
	}
	if env.PartitionKeyPath != "data.lock_id" || env.PartitionKey != "1" {
		t.Fatalf("unexpected partitioning %q=%q", env.PartitionKeyPath, env.PartitionKey)
	}
	if env.SourceService != "nexus-ledger" || env.SchemaVersion != "v1" {
		t.Fatalf("unexpected envelope metadata %+v", env)
	}
	if env.TraceID != "req-"+aliceID {
		t.Fatalf("expected request id as trace id, got %q", env.TraceID)
	}

	analytics := f.bus.AnalyticsEvents()
	if len(analytics) != 1 {
		t.Fatalf("expected 1 analytics event, got %d", len(analytics))
	}
	if analytics[0].EventType != domain.EventApprovalGiven {
		t.Fatalf("unexpected analytics event type %q", analytics[0].EventType)
	}
}

func TestFlushOutboxIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustLock(t, f, validLockInput(f))

	if err := f.svc.FlushOutbox(ctx); err != nil {
		t.Fatalf("first flush: %v", err)
	}
	if err := f.svc.FlushOutbox(ctx); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if got := len(f.bus.DomainEvents()); got != 1 {
		t.Fatalf("expected single publish, got %d", got)
	}
}

func TestFlushOutboxRoutesDomainFailuresToDLQ(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	dlq := &recordingDLQ{}
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:    "nexus-ledger",
			CustodyAccount: custodyAccount,
		},
		Locks:        repos.Locks,
		Stakes:       repos.Stakes,
		Proposals:    repos.Proposals,
		NFTs:         repos.NFTs,
		Roles:        repos.Roles,
		Settings:     repos.Settings,
		Outbox:       repos.Outbox,
		Native:       assets.NewNativeVault(),
		DomainEvents: failingDomainBus{},
		Analytics:    failingDomainBus{},
		DLQ:          dlq,
	})

	input := application.LockInput{
		Beneficiary:       bobID,
		Amount:            units(1),
		ReleaseTime:       time.Now().UTC().Add(48 * time.Hour),
		ApprovalsRequired: 1,
	}
	if _, err := svc.Lock(ctx, actor(aliceID), input); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if err := svc.FlushOutbox(ctx); err == nil {
		t.Fatal("expected flush error when domain publish fails")
	}
	if len(dlq.records) != 1 {
		t.Fatalf("expected 1 dlq record, got %d", len(dlq.records))
	}
	if dlq.records[0].OriginalEvent.EventType != domain.EventLocked {
		t.Fatalf("unexpected dlq event type %q", dlq.records[0].OriginalEvent.EventType)
	}

	pending, err := repos.Outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed record must stay pending, got %d", len(pending))
	}
}
