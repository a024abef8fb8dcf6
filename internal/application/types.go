package application

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

type Config struct {
	ServiceName          string
	CustodyAccount       string
	MinCustodyLockPeriod time.Duration
	MaxApprovals         int
	MinStake             *big.Int
	MinStakePeriod       time.Duration
	VotingPeriod         time.Duration
	MinVoteThreshold     *big.Int
	OutboxFlushBatchSize int
	DLQTopic             string
}

type Actor struct {
	SubjectID string
	RequestID string
}

type LockInput struct {
	Beneficiary       string
	Amount            *big.Int
	ReleaseTime       time.Time
	RequiresKYC       bool
	ApprovalsRequired int
}

type LockNFTInput struct {
	TokenID           uint64
	Beneficiary       string
	ReleaseTime       time.Time
	RequiresKYC       bool
	ApprovalsRequired int
}

type LockTokenInput struct {
	TokenAddress      string
	Amount            *big.Int
	Beneficiary       string
	ReleaseTime       time.Time
	RequiresKYC       bool
	ApprovalsRequired int
}

type BatchLockInput struct {
	Beneficiaries     []string
	Amounts           []*big.Int
	ReleaseTimes      []time.Time
	RequiresKYC       []bool
	ApprovalsRequired []int
}

type StakeInput struct {
	Amount     *big.Int
	LockPeriod time.Duration
}

type UnstakeResult struct {
	Amount *big.Int
	Reward *big.Int
}

type MintNFTInput struct {
	To       string
	TokenURI string
}

// Service is the custody/staking/governance state machine. Mutating
// operations serialize behind mu; operations that straddle an external
// collaborator call additionally hold the externalCall guard so that a
// reentrant callback fails instead of observing partial state.
type Service struct {
	cfg Config

	locks     ports.LockRepository
	stakes    ports.StakeRepository
	proposals ports.ProposalRepository
	nfts      ports.NFTRepository
	roles     ports.RoleRepository
	settings  ports.SettingsRepository
	outbox    ports.OutboxRepository

	nftCustody ports.NFTCustody
	tokens     ports.TokenTransfer
	native     ports.NativeTransfer
	kyc        ports.KYCVerifier

	domainEvents ports.DomainPublisher
	analytics    ports.AnalyticsPublisher
	dlq          ports.DLQPublisher

	nowFn func() time.Time

	mu           sync.Mutex
	externalCall atomic.Bool
}

type Dependencies struct {
	Config Config

	Locks     ports.LockRepository
	Stakes    ports.StakeRepository
	Proposals ports.ProposalRepository
	NFTs      ports.NFTRepository
	Roles     ports.RoleRepository
	Settings  ports.SettingsRepository
	Outbox    ports.OutboxRepository

	NFTCustody ports.NFTCustody
	Tokens     ports.TokenTransfer
	Native     ports.NativeTransfer
	KYC        ports.KYCVerifier

	DomainEvents ports.DomainPublisher
	Analytics    ports.AnalyticsPublisher
	DLQ          ports.DLQPublisher

	// Now overrides the clock; nil means UTC wall time.
	Now func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "nexus-ledger"
	}
	if cfg.CustodyAccount == "" {
		cfg.CustodyAccount = "nexus-custody"
	}
	if cfg.MinCustodyLockPeriod <= 0 {
		cfg.MinCustodyLockPeriod = domain.MinCustodyLockPeriod
	}
	if cfg.MaxApprovals <= 0 {
		cfg.MaxApprovals = domain.MaxApprovals
	}
	if cfg.MinStake == nil {
		cfg.MinStake = domain.MinStake
	}
	if cfg.MinStakePeriod <= 0 {
		cfg.MinStakePeriod = domain.MinStakePeriod
	}
	if cfg.VotingPeriod <= 0 {
		cfg.VotingPeriod = domain.VotingPeriod
	}
	if cfg.MinVoteThreshold == nil {
		cfg.MinVoteThreshold = domain.MinVoteThreshold
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	if cfg.DLQTopic == "" {
		cfg.DLQTopic = "nexus-ledger.dlq"
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:          cfg,
		locks:        deps.Locks,
		stakes:       deps.Stakes,
		proposals:    deps.Proposals,
		nfts:         deps.NFTs,
		roles:        deps.Roles,
		settings:     deps.Settings,
		outbox:       deps.Outbox,
		nftCustody:   deps.NFTCustody,
		tokens:       deps.Tokens,
		native:       deps.Native,
		kyc:          deps.KYC,
		domainEvents: deps.DomainEvents,
		analytics:    deps.Analytics,
		dlq:          deps.DLQ,
		nowFn:        nowFn,
	}
}

// requireCaller rejects anonymous callers before any state is touched.
func requireCaller(actor Actor) error {
	if actor.SubjectID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// guardEntry rejects calls arriving while an external collaborator call
// is in flight. The primary reentrancy defense is state-before-transfer
// ordering; this guard makes the failure explicit instead of incidental.
func (s *Service) guardEntry() error {
	if s.externalCall.Load() {
		return domain.ErrReentrantCall
	}
	return nil
}

func (s *Service) beginExternal() bool {
	return s.externalCall.CompareAndSwap(false, true)
}

func (s *Service) endExternal() {
	s.externalCall.Store(false)
}

func (s *Service) requireNotPaused(ctx context.Context) error {
	paused, err := s.settings.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return domain.ErrPaused
	}
	return nil
}

func (s *Service) requireRole(ctx context.Context, account string, role domain.Role) error {
	ok, err := s.roles.Has(ctx, account, role)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrMissingRole
	}
	return nil
}
