package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

const (
	settingPaused        = "paused"
	settingRewardRate    = "reward_rate"
	settingNexusContract = "nexus_contract"
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

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Locks:     &LockRepository{db: db},
		Stakes:    &StakeRepository{db: db},
		Proposals: &ProposalRepository{db: db},
		NFTs:      &NFTRepository{db: db},
		Roles:     &RoleRepository{db: db},
		Settings:  &SettingsRepository{db: db},
		Outbox:    &OutboxRepository{db: db},
	}
}

func amountToString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func amountFromString(raw string) *big.Int {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

func toLockModel(row domain.Lock) (lockModel, error) {
	approvedBy, err := json.Marshal(row.ApprovedBy)
	if err != nil {
		return lockModel{}, err
	}
	return lockModel{
		LockID:            row.ID,
		Beneficiary:       row.Beneficiary,
		Amount:            amountToString(row.Amount),
		TokenID:           row.TokenID,
		TokenAddress:      row.TokenAddress,
		ReleaseTime:       row.ReleaseTime.UTC(),
		RequiresKYC:       row.RequiresKYC,
		ApprovalsRequired: row.ApprovalsRequired,
		ApprovalsReceived: row.ApprovalsReceived,
		ApprovedBy:        string(approvedBy),
		Released:          row.Released,
		CreatedAt:         row.CreatedAt.UTC(),
		ReleasedAt:        row.ReleasedAt,
	}, nil
}

func toDomainLock(rec lockModel) domain.Lock {
	approvedBy := map[string]bool{}
	_ = json.Unmarshal([]byte(rec.ApprovedBy), &approvedBy)
	return domain.Lock{
		ID:                rec.LockID,
		Beneficiary:       rec.Beneficiary,
		Amount:            amountFromString(rec.Amount),
		TokenID:           rec.TokenID,
		TokenAddress:      rec.TokenAddress,
		ReleaseTime:       rec.ReleaseTime,
		RequiresKYC:       rec.RequiresKYC,
		ApprovalsRequired: rec.ApprovalsRequired,
		ApprovalsReceived: rec.ApprovalsReceived,
		ApprovedBy:        approvedBy,
		Released:          rec.Released,
		CreatedAt:         rec.CreatedAt,
		ReleasedAt:        rec.ReleasedAt,
	}
}

type LockRepository struct {
	db *gorm.DB
}

func (r *LockRepository) Create(ctx context.Context, row domain.Lock) (uint64, error) {
	rec, err := toLockModel(row)
	if err != nil {
		return 0, err
	}
	rec.LockID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.LockID, nil
}

func (r *LockRepository) CreateBatch(ctx context.Context, rows []domain.Lock) ([]uint64, error) {
	ids := make([]uint64, 0, len(rows))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			rec, err := toLockModel(row)
			if err != nil {
				return err
			}
			rec.LockID = 0
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			ids = append(ids, rec.LockID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *LockRepository) GetByID(ctx context.Context, id uint64) (domain.Lock, error) {
	var rec lockModel
	if err := r.db.WithContext(ctx).Where("lock_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Lock{}, domain.ErrLockNotFound
		}
		return domain.Lock{}, err
	}
	return toDomainLock(rec), nil
}

func (r *LockRepository) Update(ctx context.Context, row domain.Lock) error {
	rec, err := toLockModel(row)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&lockModel{}).Where("lock_id = ?", row.ID).Updates(map[string]any{
		"approvals_received": rec.ApprovalsReceived,
		"approved_by":        rec.ApprovedBy,
		"released":           rec.Released,
		"released_at":        rec.ReleasedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLockNotFound
	}
	return nil
}

type StakeRepository struct {
	db *gorm.DB
}

func (r *StakeRepository) GetByOwner(ctx context.Context, owner string) (domain.Stake, error) {
	var rec stakeModel
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Stake{}, domain.ErrNotFound
		}
		return domain.Stake{}, err
	}
	return domain.Stake{
		Owner:      rec.Owner,
		Amount:     amountFromString(rec.Amount),
		LockPeriod: time.Duration(rec.LockPeriodSeconds) * time.Second,
		StartTime:  rec.StartTime,
		Active:     rec.Active,
	}, nil
}

func (r *StakeRepository) Save(ctx context.Context, row domain.Stake) error {
	rec := stakeModel{
		Owner:             row.Owner,
		Amount:            amountToString(row.Amount),
		LockPeriodSeconds: int64(row.LockPeriod / time.Second),
		StartTime:         row.StartTime.UTC(),
		Active:            row.Active,
		UpdatedAt:         time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Save(&rec).Error
}

type ProposalRepository struct {
	db *gorm.DB
}

func toProposalModel(row domain.Proposal) (proposalModel, error) {
	voters, err := json.Marshal(row.Voters)
	if err != nil {
		return proposalModel{}, err
	}
	return proposalModel{
		ProposalID:   row.ID,
		Description:  row.Description,
		Proposer:     row.Proposer,
		Deadline:     row.Deadline.UTC(),
		VotesFor:     amountToString(row.VotesFor),
		VotesAgainst: amountToString(row.VotesAgainst),
		Executed:     row.Executed,
		Passed:       row.Passed,
		Voters:       string(voters),
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}

func toDomainProposal(rec proposalModel) domain.Proposal {
	voters := map[string]bool{}
	_ = json.Unmarshal([]byte(rec.Voters), &voters)
	return domain.Proposal{
		ID:           rec.ProposalID,
		Description:  rec.Description,
		Proposer:     rec.Proposer,
		Deadline:     rec.Deadline,
		VotesFor:     amountFromString(rec.VotesFor),
		VotesAgainst: amountFromString(rec.VotesAgainst),
		Executed:     rec.Executed,
		Passed:       rec.Passed,
		Voters:       voters,
		CreatedAt:    rec.CreatedAt,
	}
}

func (r *ProposalRepository) Create(ctx context.Context, row domain.Proposal) (uint64, error) {
	rec, err := toProposalModel(row)
	if err != nil {
		return 0, err
	}
	rec.ProposalID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ProposalID, nil
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uint64) (domain.Proposal, error) {
	var rec proposalModel
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Proposal{}, domain.ErrProposalNotFound
		}
		return domain.Proposal{}, err
	}
	return toDomainProposal(rec), nil
}

func (r *ProposalRepository) Update(ctx context.Context, row domain.Proposal) error {
	rec, err := toProposalModel(row)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&proposalModel{}).Where("proposal_id = ?", row.ID).Updates(map[string]any{
		"votes_for":     rec.VotesFor,
		"votes_against": rec.VotesAgainst,
		"executed":      rec.Executed,
		"passed":        rec.Passed,
		"voters":        rec.Voters,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

type NFTRepository struct {
	db *gorm.DB
}

func (r *NFTRepository) Mint(ctx context.Context, row domain.NFTItem) (uint64, error) {
	rec := nftModel{
		Owner:    row.Owner,
		TokenURI: row.TokenURI,
		MintedAt: row.MintedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.TokenID, nil
}

func (r *NFTRepository) GetByTokenID(ctx context.Context, tokenID uint64) (domain.NFTItem, error) {
	var rec nftModel
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NFTItem{}, domain.ErrTokenNotFound
		}
		return domain.NFTItem{}, err
	}
	return domain.NFTItem{
		TokenID:  rec.TokenID,
		Owner:    rec.Owner,
		TokenURI: rec.TokenURI,
		MintedAt: rec.MintedAt,
	}, nil
}

func (r *NFTRepository) UpdateOwner(ctx context.Context, tokenID uint64, owner string) error {
	res := r.db.WithContext(ctx).Model(&nftModel{}).Where("token_id = ?", tokenID).Update("owner", owner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

type RoleRepository struct {
	db *gorm.DB
}

func (r *RoleRepository) Grant(ctx context.Context, account string, role domain.Role) error {
	rec := roleGrantModel{Account: account, Role: string(role), CreatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *RoleRepository) Revoke(ctx context.Context, account string, role domain.Role) error {
	return r.db.WithContext(ctx).
		Where("account = ? AND role = ?", account, string(role)).
		Delete(&roleGrantModel{}).Error
}

func (r *RoleRepository) Has(ctx context.Context, account string, role domain.Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&roleGrantModel{}).
		Where("account = ? AND role = ?", account, string(role)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type SettingsRepository struct {
	db *gorm.DB
}

func (r *SettingsRepository) get(ctx context.Context, key string) (string, bool, error) {
	var rec settingModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Value, true, nil
}

func (r *SettingsRepository) set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Save(&settingModel{Key: key, Value: value}).Error
}

func (r *SettingsRepository) Paused(ctx context.Context) (bool, error) {
	value, ok, err := r.get(ctx, settingPaused)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

func (r *SettingsRepository) SetPaused(ctx context.Context, paused bool) error {
	value := "false"
	if paused {
		value = "true"
	}
	return r.set(ctx, settingPaused, value)
}

func (r *SettingsRepository) RewardRate(ctx context.Context) (*big.Int, error) {
	value, ok, err := r.get(ctx, settingRewardRate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int).Set(domain.DefaultRewardRate), nil
	}
	return amountFromString(value), nil
}

func (r *SettingsRepository) SetRewardRate(ctx context.Context, rate *big.Int) error {
	return r.set(ctx, settingRewardRate, amountToString(rate))
}

func (r *SettingsRepository) NexusContract(ctx context.Context) (string, error) {
	value, _, err := r.get(ctx, settingNexusContract)
	return value, err
}

func (r *SettingsRepository) SetNexusContract(ctx context.Context, address string) error {
	return r.set(ctx, settingNexusContract, address)
}

type OutboxRepository struct {
	db *gorm.DB
}

func (r *OutboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	envelope, err := json.Marshal(record.Envelope)
	if err != nil {
		return err
	}
	rec := outboxModel{
		RecordID:   record.RecordID,
		EventClass: record.EventClass,
		Envelope:   string(envelope),
		CreatedAt:  record.CreatedAt.UTC(),
		SentAt:     record.SentAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var recs []outboxModel
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(recs))
	for _, rec := range recs {
		var envelope contracts.EventEnvelope
		if err := json.Unmarshal([]byte(rec.Envelope), &envelope); err != nil {
			continue
		}
		out = append(out, ports.OutboxRecord{
			RecordID:   rec.RecordID,
			EventClass: rec.EventClass,
			Envelope:   envelope,
			CreatedAt:  rec.CreatedAt,
			SentAt:     rec.SentAt,
		})
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("record_id = ?", recordID).
		Update("sent_at", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
