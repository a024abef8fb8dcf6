package application

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

// FlushOutbox drains pending records to the configured publishers.
// Domain publish failures go to the DLQ and stop the batch; analytics
// failures are dropped.
func (s *Service) FlushOutbox(ctx context.Context) error {
	if s.outbox == nil {
		return nil
	}
	pending, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		now := s.nowFn()
		switch rec.EventClass {
		case domain.CanonicalEventClassDomain:
			if s.domainEvents != nil {
				if err := s.domainEvents.PublishDomain(ctx, rec.Envelope); err != nil {
					if s.dlq != nil {
						_ = s.dlq.PublishDLQ(ctx, contracts.DLQRecord{
							OriginalEvent: rec.Envelope,
							ErrorSummary:  err.Error(),
							RetryCount:    1,
							FirstSeenAt:   now,
							LastErrorAt:   now,
							SourceTopic:   rec.Envelope.EventType,
							DLQTopic:      s.cfg.DLQTopic,
							TraceID:       rec.Envelope.TraceID,
						})
					}
					return err
				}
			}
		case domain.CanonicalEventClassAnalyticsOnly:
			if s.analytics != nil {
				_ = s.analytics.PublishAnalytics(ctx, rec.Envelope)
			}
		default:
			return fmt.Errorf("unsupported event class %q", rec.EventClass)
		}
		if err := s.outbox.MarkSent(ctx, rec.RecordID, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, traceID string, data any, partitionKey string, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	if !domain.IsCanonicalEmittedEvent(eventType) {
		return domain.ErrInvalidInput
	}
	b, err := json.Marshal(data)
	if err != nil {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(traceID) == "" {
		traceID = uuid.NewString()
	}
	env := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		EventClass:       domain.CanonicalEventClass(eventType),
		OccurredAt:       now,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     partitionKey,
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    "v1",
		Data:             b,
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: env.EventClass,
		Envelope:   env,
		CreatedAt:  now,
	})
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (s *Service) enqueueLocked(ctx context.Context, row domain.Lock, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventLocked, traceID, contracts.LockedPayload{
		LockID:            row.ID,
		Beneficiary:       row.Beneficiary,
		Amount:            amountString(row.Amount),
		TokenID:           row.TokenID,
		TokenAddress:      row.TokenAddress,
		ReleaseTime:       row.ReleaseTime.UTC().Format(time.RFC3339),
		RequiresKYC:       row.RequiresKYC,
		ApprovalsRequired: row.ApprovalsRequired,
	}, strconv.FormatUint(row.ID, 10), now)
}

func (s *Service) enqueueApprovalGiven(ctx context.Context, row domain.Lock, approver, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventApprovalGiven, traceID, contracts.ApprovalGivenPayload{
		LockID:            row.ID,
		Approver:          approver,
		ApprovalsReceived: row.ApprovalsReceived,
	}, strconv.FormatUint(row.ID, 10), now)
}

func (s *Service) enqueueUnlocked(ctx context.Context, row domain.Lock, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventUnlocked, traceID, contracts.UnlockedPayload{
		LockID:      row.ID,
		Beneficiary: row.Beneficiary,
		Amount:      amountString(row.Amount),
		TokenID:     row.TokenID,
		ReleasedAt:  now.UTC().Format(time.RFC3339),
	}, strconv.FormatUint(row.ID, 10), now)
}

func (s *Service) enqueueNexusContractUpdated(ctx context.Context, subject, oldAddr, newAddr, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventNexusContractUpdated, traceID, contracts.NexusContractUpdatedPayload{
		Subject:    subject,
		OldAddress: oldAddr,
		NewAddress: newAddr,
	}, subject, now)
}

func (s *Service) enqueueStaked(ctx context.Context, row domain.Stake, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventStaked, traceID, contracts.StakedPayload{
		Owner:      row.Owner,
		Amount:     amountString(row.Amount),
		LockPeriod: int64(row.LockPeriod / time.Second),
		StakedAt:   now.UTC().Format(time.RFC3339),
	}, row.Owner, now)
}

func (s *Service) enqueueUnstaked(ctx context.Context, owner string, amount, reward *big.Int, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventUnstaked, traceID, contracts.UnstakedPayload{
		Owner:      owner,
		Amount:     amountString(amount),
		Reward:     amountString(reward),
		UnstakedAt: now.UTC().Format(time.RFC3339),
	}, owner, now)
}

func (s *Service) enqueueRewardRateUpdated(ctx context.Context, subject string, oldRate, newRate *big.Int, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventRewardRateUpdated, traceID, contracts.RewardRateUpdatedPayload{
		Subject: subject,
		OldRate: amountString(oldRate),
		NewRate: amountString(newRate),
	}, subject, now)
}

func (s *Service) enqueueProposalCreated(ctx context.Context, row domain.Proposal, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventProposalCreated, traceID, contracts.ProposalCreatedPayload{
		ProposalID:  row.ID,
		Proposer:    row.Proposer,
		Description: row.Description,
		Deadline:    row.Deadline.UTC().Format(time.RFC3339),
	}, strconv.FormatUint(row.ID, 10), now)
}

func (s *Service) enqueueVoted(ctx context.Context, proposalID uint64, voter string, support bool, weight *big.Int, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventVoted, traceID, contracts.VotedPayload{
		ProposalID: proposalID,
		Voter:      voter,
		Support:    support,
		Weight:     amountString(weight),
	}, strconv.FormatUint(proposalID, 10), now)
}

func (s *Service) enqueueProposalExecuted(ctx context.Context, row domain.Proposal, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventProposalExecuted, traceID, contracts.ProposalExecutedPayload{
		ProposalID:   row.ID,
		Passed:       row.Passed,
		VotesFor:     amountString(row.VotesFor),
		VotesAgainst: amountString(row.VotesAgainst),
	}, strconv.FormatUint(row.ID, 10), now)
}

func (s *Service) enqueueNFTMinted(ctx context.Context, row domain.NFTItem, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventNFTMinted, traceID, contracts.NFTMintedPayload{
		TokenID:  row.TokenID,
		Owner:    row.Owner,
		TokenURI: row.TokenURI,
	}, strconv.FormatUint(row.TokenID, 10), now)
}

func (s *Service) enqueuePauseState(ctx context.Context, eventType, subject string, paused bool, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, eventType, traceID, contracts.PauseStatePayload{
		Subject: subject,
		Paused:  paused,
	}, subject, now)
}

func (s *Service) enqueueRoleChange(ctx context.Context, eventType, subject, account string, role domain.Role, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, eventType, traceID, contracts.RoleChangePayload{
		Subject: subject,
		Account: account,
		Role:    string(role),
	}, account, now)
}
