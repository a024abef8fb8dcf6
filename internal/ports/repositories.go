package ports

import (
	"context"
	"math/big"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

type LockRepository interface {
	// Create persists the lock and returns its assigned sequential id.
	Create(ctx context.Context, row domain.Lock) (uint64, error)
	// CreateBatch persists all locks atomically; either every row gets an
	// id or none is stored.
	CreateBatch(ctx context.Context, rows []domain.Lock) ([]uint64, error)
	GetByID(ctx context.Context, id uint64) (domain.Lock, error)
	Update(ctx context.Context, row domain.Lock) error
}

type StakeRepository interface {
	GetByOwner(ctx context.Context, owner string) (domain.Stake, error)
	Save(ctx context.Context, row domain.Stake) error
}

type ProposalRepository interface {
	Create(ctx context.Context, row domain.Proposal) (uint64, error)
	GetByID(ctx context.Context, id uint64) (domain.Proposal, error)
	Update(ctx context.Context, row domain.Proposal) error
}

type NFTRepository interface {
	// Mint persists the item and returns its assigned sequential token id.
	Mint(ctx context.Context, row domain.NFTItem) (uint64, error)
	GetByTokenID(ctx context.Context, tokenID uint64) (domain.NFTItem, error)
	UpdateOwner(ctx context.Context, tokenID uint64, owner string) error
}

type RoleRepository interface {
	Grant(ctx context.Context, account string, role domain.Role) error
	Revoke(ctx context.Context, account string, role domain.Role) error
	Has(ctx context.Context, account string, role domain.Role) (bool, error)
}

// SettingsRepository owns the mutable protocol parameters that must
// survive restarts alongside the entity collections.
type SettingsRepository interface {
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
	RewardRate(ctx context.Context) (*big.Int, error)
	SetRewardRate(ctx context.Context, rate *big.Int) error
	NexusContract(ctx context.Context) (string, error)
	SetNexusContract(ctx context.Context, address string) error
}

type OutboxRecord struct {
	RecordID   string
	EventClass string
	Envelope   contracts.EventEnvelope
	CreatedAt  time.Time
	SentAt     *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}
