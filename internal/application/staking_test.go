package application_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func TestStakeRejectsBelowMinimum(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Stake(context.Background(), actor(aliceID), application.StakeInput{
		Amount:     big.NewInt(100),
		LockPeriod: domain.MinStakePeriod,
	})
	if err != domain.ErrStakeTooLow {
		t.Fatalf("expected ErrStakeTooLow, got %v", err)
	}
}

func TestStakeRejectsShortLockPeriod(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Stake(context.Background(), actor(aliceID), application.StakeInput{
		Amount:     units(1),
		LockPeriod: 7 * 24 * time.Hour,
	})
	if err != domain.ErrLockPeriodTooShort {
		t.Fatalf("expected ErrLockPeriodTooShort, got %v", err)
	}
}

func TestStakeOneActivePerOwner(t *testing.T) {
	f := newFixture(t)
	mustStake(t, f, aliceID, units(1), domain.MinStakePeriod)
	_, err := f.svc.Stake(context.Background(), actor(aliceID), application.StakeInput{
		Amount:     units(2),
		LockPeriod: domain.MinStakePeriod,
	})
	if err != domain.ErrAlreadyStaking {
		t.Fatalf("expected ErrAlreadyStaking, got %v", err)
	}
}

func TestRewardAccruesPerSecond(t *testing.T) {
	f := newFixture(t)
	mustStake(t, f, aliceID, units(2), domain.MinStakePeriod)
	f.advance(1000 * time.Second)

	got, err := f.svc.CalculateReward(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("calculate reward: %v", err)
	}
	// 2e18 * 1e14 * 1000 / 1e18
	want := new(big.Int).Mul(big.NewInt(1e14), big.NewInt(2000))
	if got.Cmp(want) != 0 {
		t.Fatalf("expected reward %s, got %s", want, got)
	}
}

func TestRewardIsZeroWithoutStake(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.CalculateReward(context.Background(), bobID)
	if err != nil {
		t.Fatalf("calculate reward: %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("expected zero reward, got %s", got)
	}
}

func TestUnstakeBeforeMaturity(t *testing.T) {
	f := newFixture(t)
	mustStake(t, f, aliceID, units(1), domain.MinStakePeriod)
	f.advance(29 * 24 * time.Hour)
	if _, err := f.svc.Unstake(context.Background(), actor(aliceID)); err != domain.ErrStakeStillLocked {
		t.Fatalf("expected ErrStakeStillLocked, got %v", err)
	}
}

func TestUnstakeWithoutStake(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Unstake(context.Background(), actor(aliceID)); err != domain.ErrNoActiveStake {
		t.Fatalf("expected ErrNoActiveStake, got %v", err)
	}
}

func TestUnstakePaysPrincipalPlusReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustStake(t, f, aliceID, units(1), domain.MinStakePeriod)
	f.advance(domain.MinStakePeriod)

	result, err := f.svc.Unstake(ctx, actor(aliceID))
	if err != nil {
		t.Fatalf("unstake: %v", err)
	}
	if result.Amount.Cmp(units(1)) != 0 {
		t.Fatalf("expected principal of 1 unit, got %s", result.Amount)
	}
	elapsed := int64(domain.MinStakePeriod / time.Second)
	wantReward := new(big.Int).Mul(big.NewInt(1e14), big.NewInt(elapsed))
	if result.Reward.Cmp(wantReward) != 0 {
		t.Fatalf("expected reward %s, got %s", wantReward, result.Reward)
	}
	wantPayout := new(big.Int).Add(result.Amount, result.Reward)
	if got := f.vault.PaidTo(aliceID); got.Cmp(wantPayout) != 0 {
		t.Fatalf("expected payout %s, got %s", wantPayout, got)
	}

	if _, err := f.svc.Unstake(ctx, actor(aliceID)); err != domain.ErrNoActiveStake {
		t.Fatalf("second unstake: expected ErrNoActiveStake, got %v", err)
	}
}

func TestUnstakeRestoresStakeWhenPayoutFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustStake(t, f, aliceID, units(1), domain.MinStakePeriod)
	f.advance(domain.MinStakePeriod)

	f.native.fail = true
	if _, err := f.svc.Unstake(ctx, actor(aliceID)); err != domain.ErrNativeTransferFailed {
		t.Fatalf("expected ErrNativeTransferFailed, got %v", err)
	}
	row, err := f.svc.GetStake(ctx, aliceID)
	if err != nil {
		t.Fatalf("get stake: %v", err)
	}
	if !row.Active || row.Amount.Cmp(units(1)) != 0 {
		t.Fatalf("stake not restored: %+v", row)
	}

	f.native.fail = false
	if _, err := f.svc.Unstake(ctx, actor(aliceID)); err != nil {
		t.Fatalf("retry unstake: %v", err)
	}
}

func TestUpdateRewardRateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.UpdateRewardRate(context.Background(), actor(aliceID), big.NewInt(1)); err != domain.ErrMissingRole {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
}

func TestUpdateRewardRateRejectsNegative(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.UpdateRewardRate(context.Background(), actor(adminID), big.NewInt(-1)); err != domain.ErrInvalidRewardRate {
		t.Fatalf("expected ErrInvalidRewardRate, got %v", err)
	}
}

func TestUpdateRewardRateRepricesAccrual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustStake(t, f, aliceID, units(1), domain.MinStakePeriod)

	if err := f.svc.UpdateRewardRate(ctx, actor(adminID), new(big.Int)); err != nil {
		t.Fatalf("update reward rate: %v", err)
	}
	rate, err := f.svc.RewardRate(ctx)
	if err != nil {
		t.Fatalf("reward rate: %v", err)
	}
	if rate.Sign() != 0 {
		t.Fatalf("expected zero rate, got %s", rate)
	}

	f.advance(1000 * time.Second)
	got, err := f.svc.CalculateReward(ctx, aliceID)
	if err != nil {
		t.Fatalf("calculate reward: %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("expected zero reward at zero rate, got %s", got)
	}
}
