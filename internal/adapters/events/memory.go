package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
)

// MemoryPublisher records published envelopes, split by bus. The dev
// profile and tests run against it.
type MemoryPublisher struct {
	mu        sync.Mutex
	domain    []contracts.EventEnvelope
	analytics []contracts.EventEnvelope
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishDomain(_ context.Context, envelope contracts.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.domain = append(p.domain, envelope)
	return nil
}

func (p *MemoryPublisher) PublishAnalytics(_ context.Context, envelope contracts.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.analytics = append(p.analytics, envelope)
	return nil
}

func (p *MemoryPublisher) DomainEvents() []contracts.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contracts.EventEnvelope, len(p.domain))
	copy(out, p.domain)
	return out
}

func (p *MemoryPublisher) AnalyticsEvents() []contracts.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contracts.EventEnvelope, len(p.analytics))
	copy(out, p.analytics)
	return out
}

type LoggingDLQPublisher struct {
	logger *slog.Logger
}

func NewLoggingDLQPublisher(logger *slog.Logger) *LoggingDLQPublisher {
	return &LoggingDLQPublisher{logger: logger}
}

func (p *LoggingDLQPublisher) PublishDLQ(ctx context.Context, record contracts.DLQRecord) error {
	if p.logger != nil {
		p.logger.ErrorContext(ctx, "event routed to dlq",
			"module", "events.dlq",
			"layer", "adapter",
			"operation", "publish_dlq",
			"outcome", "failure",
			"event_id", record.OriginalEvent.EventID,
			"event_type", record.OriginalEvent.EventType,
			"error", record.ErrorSummary,
		)
	}
	return nil
}
