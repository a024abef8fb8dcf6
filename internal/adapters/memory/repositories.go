package memory

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

type Repositories struct {
	Locks     *LockRepository
	Stakes    *StakeRepository
	Proposals *ProposalRepository
	NFTs      *NFTRepository
	Roles     *RoleRepository
	Settings  *SettingsRepository
	Outbox    *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Locks:     &LockRepository{rows: map[uint64]domain.Lock{}},
		Stakes:    &StakeRepository{rows: map[string]domain.Stake{}},
		Proposals: &ProposalRepository{rows: map[uint64]domain.Proposal{}},
		NFTs:      &NFTRepository{rows: map[uint64]domain.NFTItem{}},
		Roles:     &RoleRepository{rows: map[string]map[domain.Role]bool{}},
		Settings:  &SettingsRepository{rewardRate: new(big.Int).Set(domain.DefaultRewardRate)},
		Outbox:    &OutboxRepository{rows: map[string]ports.OutboxRecord{}, order: []string{}},
	}
}

func cloneLock(row domain.Lock) domain.Lock {
	out := row
	out.ApprovedBy = make(map[string]bool, len(row.ApprovedBy))
	for k, v := range row.ApprovedBy {
		out.ApprovedBy[k] = v
	}
	if row.Amount != nil {
		out.Amount = new(big.Int).Set(row.Amount)
	}
	return out
}

func cloneProposal(row domain.Proposal) domain.Proposal {
	out := row
	out.Voters = make(map[string]bool, len(row.Voters))
	for k, v := range row.Voters {
		out.Voters[k] = v
	}
	if row.VotesFor != nil {
		out.VotesFor = new(big.Int).Set(row.VotesFor)
	}
	if row.VotesAgainst != nil {
		out.VotesAgainst = new(big.Int).Set(row.VotesAgainst)
	}
	return out
}

type LockRepository struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]domain.Lock
}

func (r *LockRepository) Create(_ context.Context, row domain.Lock) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	row.ID = r.nextID
	r.rows[row.ID] = cloneLock(row)
	return row.ID, nil
}

func (r *LockRepository) CreateBatch(_ context.Context, rows []domain.Lock) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		r.nextID++
		row.ID = r.nextID
		r.rows[row.ID] = cloneLock(row)
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *LockRepository) GetByID(_ context.Context, id uint64) (domain.Lock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return domain.Lock{}, domain.ErrLockNotFound
	}
	return cloneLock(row), nil
}

func (r *LockRepository) Update(_ context.Context, row domain.Lock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ID]; !ok {
		return domain.ErrLockNotFound
	}
	r.rows[row.ID] = cloneLock(row)
	return nil
}

type StakeRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Stake
}

func (r *StakeRepository) GetByOwner(_ context.Context, owner string) (domain.Stake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(owner)]
	if !ok {
		return domain.Stake{}, domain.ErrNotFound
	}
	if row.Amount != nil {
		row.Amount = new(big.Int).Set(row.Amount)
	}
	return row, nil
}

func (r *StakeRepository) Save(_ context.Context, row domain.Stake) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.Amount != nil {
		row.Amount = new(big.Int).Set(row.Amount)
	}
	r.rows[strings.TrimSpace(row.Owner)] = row
	return nil
}

type ProposalRepository struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]domain.Proposal
}

func (r *ProposalRepository) Create(_ context.Context, row domain.Proposal) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	row.ID = r.nextID
	r.rows[row.ID] = cloneProposal(row)
	return row.ID, nil
}

func (r *ProposalRepository) GetByID(_ context.Context, id uint64) (domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return domain.Proposal{}, domain.ErrProposalNotFound
	}
	return cloneProposal(row), nil
}

func (r *ProposalRepository) Update(_ context.Context, row domain.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ID]; !ok {
		return domain.ErrProposalNotFound
	}
	r.rows[row.ID] = cloneProposal(row)
	return nil
}

type NFTRepository struct {
	mu          sync.Mutex
	nextTokenID uint64
	rows        map[uint64]domain.NFTItem
}

func (r *NFTRepository) Mint(_ context.Context, row domain.NFTItem) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTokenID++
	row.TokenID = r.nextTokenID
	r.rows[row.TokenID] = row
	return row.TokenID, nil
}

func (r *NFTRepository) GetByTokenID(_ context.Context, tokenID uint64) (domain.NFTItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tokenID]
	if !ok {
		return domain.NFTItem{}, domain.ErrTokenNotFound
	}
	return row, nil
}

func (r *NFTRepository) UpdateOwner(_ context.Context, tokenID uint64, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tokenID]
	if !ok {
		return domain.ErrTokenNotFound
	}
	row.Owner = strings.TrimSpace(owner)
	r.rows[tokenID] = row
	return nil
}

type RoleRepository struct {
	mu   sync.Mutex
	rows map[string]map[domain.Role]bool
}

func (r *RoleRepository) Grant(_ context.Context, account string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account = strings.TrimSpace(account)
	if r.rows[account] == nil {
		r.rows[account] = map[domain.Role]bool{}
	}
	r.rows[account][role] = true
	return nil
}

func (r *RoleRepository) Revoke(_ context.Context, account string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows[strings.TrimSpace(account)], role)
	return nil
}

func (r *RoleRepository) Has(_ context.Context, account string, role domain.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[strings.TrimSpace(account)][role], nil
}

type SettingsRepository struct {
	mu            sync.Mutex
	paused        bool
	rewardRate    *big.Int
	nexusContract string
}

func (r *SettingsRepository) Paused(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused, nil
}

func (r *SettingsRepository) SetPaused(_ context.Context, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
	return nil
}

func (r *SettingsRepository) RewardRate(_ context.Context) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rewardRate == nil {
		return new(big.Int).Set(domain.DefaultRewardRate), nil
	}
	return new(big.Int).Set(r.rewardRate), nil
}

func (r *SettingsRepository) SetRewardRate(_ context.Context, rate *big.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewardRate = new(big.Int).Set(rate)
	return nil
}

func (r *SettingsRepository) NexusContract(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nexusContract, nil
}

func (r *SettingsRepository) SetNexusContract(_ context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nexusContract = strings.TrimSpace(address)
	return nil
}

type OutboxRepository struct {
	mu    sync.Mutex
	rows  map[string]ports.OutboxRecord
	order []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, row ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.RecordID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.RecordID] = row
	r.order = append(r.order, row.RecordID)
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		row, ok := r.rows[id]
		if !ok || row.SentAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	row.SentAt = &at
	r.rows[recordID] = row
	return nil
}
