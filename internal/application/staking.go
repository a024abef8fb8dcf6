package application

import (
	"context"
	"errors"
	"math/big"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// Stake deposits native value for at least the configured lock period.
// One active stake per owner.
func (s *Service) Stake(ctx context.Context, actor Actor, input StakeInput) (domain.Stake, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Stake{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Stake{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.Stake{}, err
	}
	if input.Amount == nil || input.Amount.Cmp(s.cfg.MinStake) < 0 {
		return domain.Stake{}, domain.ErrStakeTooLow
	}
	if input.LockPeriod < s.cfg.MinStakePeriod {
		return domain.Stake{}, domain.ErrLockPeriodTooShort
	}
	existing, err := s.stakes.GetByOwner(ctx, actor.SubjectID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Stake{}, err
	}
	if err == nil && existing.Active {
		return domain.Stake{}, domain.ErrAlreadyStaking
	}
	now := s.nowFn()
	row := domain.Stake{
		Owner:      actor.SubjectID,
		Amount:     new(big.Int).Set(input.Amount),
		LockPeriod: input.LockPeriod,
		StartTime:  now,
		Active:     true,
	}
	if err := s.stakes.Save(ctx, row); err != nil {
		return domain.Stake{}, err
	}
	if err := s.enqueueStaked(ctx, row, actor.RequestID, now); err != nil {
		return domain.Stake{}, err
	}
	return row, nil
}

// CalculateReward is a pure read of the accrued reward at the current
// clock. Owners without an active stake accrue zero.
func (s *Service) CalculateReward(ctx context.Context, owner string) (*big.Int, error) {
	if owner == "" {
		return nil, domain.ErrInvalidInput
	}
	row, err := s.stakes.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return new(big.Int), nil
		}
		return nil, err
	}
	rate, err := s.settings.RewardRate(ctx)
	if err != nil {
		return nil, err
	}
	return row.Reward(rate, s.nowFn()), nil
}

// Unstake deactivates a matured stake and pays principal plus reward.
// The deactivation is committed before the payout; a payout failure
// restores the stake.
func (s *Service) Unstake(ctx context.Context, actor Actor) (UnstakeResult, error) {
	if err := requireCaller(actor); err != nil {
		return UnstakeResult{}, err
	}
	if !s.beginExternal() {
		return UnstakeResult{}, domain.ErrReentrantCall
	}
	defer s.endExternal()

	s.mu.Lock()
	if err := s.requireNotPaused(ctx); err != nil {
		s.mu.Unlock()
		return UnstakeResult{}, err
	}
	row, err := s.stakes.GetByOwner(ctx, actor.SubjectID)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, domain.ErrNotFound) {
			return UnstakeResult{}, domain.ErrNoActiveStake
		}
		return UnstakeResult{}, err
	}
	if !row.Active {
		s.mu.Unlock()
		return UnstakeResult{}, domain.ErrNoActiveStake
	}
	now := s.nowFn()
	if !row.Unlocked(now) {
		s.mu.Unlock()
		return UnstakeResult{}, domain.ErrStakeStillLocked
	}
	rate, err := s.settings.RewardRate(ctx)
	if err != nil {
		s.mu.Unlock()
		return UnstakeResult{}, err
	}
	principal := new(big.Int).Set(row.Amount)
	reward := row.Reward(rate, now)

	restore := row
	row.Active = false
	row.Amount = new(big.Int)
	if err := s.stakes.Save(ctx, row); err != nil {
		s.mu.Unlock()
		return UnstakeResult{}, err
	}
	s.mu.Unlock()

	payout := new(big.Int).Add(principal, reward)
	if s.native == nil {
		return UnstakeResult{}, domain.ErrNativeTransferFailed
	}
	if err := s.native.Transfer(ctx, actor.SubjectID, payout); err != nil {
		s.mu.Lock()
		_ = s.stakes.Save(ctx, restore)
		s.mu.Unlock()
		return UnstakeResult{}, domain.ErrNativeTransferFailed
	}

	if err := s.enqueueUnstaked(ctx, actor.SubjectID, principal, reward, actor.RequestID, now); err != nil {
		return UnstakeResult{}, err
	}
	return UnstakeResult{Amount: principal, Reward: reward}, nil
}

// UpdateRewardRate changes the accrual rate going forward. Rewards are
// priced at withdrawal time with the rate then in effect; already-elapsed
// intervals are not retroactively repriced.
func (s *Service) UpdateRewardRate(ctx context.Context, actor Actor, rate *big.Int) error {
	if err := requireCaller(actor); err != nil {
		return err
	}
	if err := s.guardEntry(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleAdmin); err != nil {
		return err
	}
	if rate == nil || rate.Sign() < 0 {
		return domain.ErrInvalidRewardRate
	}
	old, err := s.settings.RewardRate(ctx)
	if err != nil {
		return err
	}
	if err := s.settings.SetRewardRate(ctx, rate); err != nil {
		return err
	}
	return s.enqueueRewardRateUpdated(ctx, actor.SubjectID, old, rate, actor.RequestID, s.nowFn())
}

// GetStake is a read-only lookup.
func (s *Service) GetStake(ctx context.Context, owner string) (domain.Stake, error) {
	return s.stakes.GetByOwner(ctx, owner)
}

// RewardRate reports the accrual rate currently in effect.
func (s *Service) RewardRate(ctx context.Context) (*big.Int, error) {
	return s.settings.RewardRate(ctx)
}
