package domain

import (
	"math/big"
	"time"
)

const MinStakePeriod = 30 * 24 * time.Hour

var (
	// MinStake is one whole unit in base denomination.
	MinStake = big.NewInt(1e18)

	// RewardScale normalizes the fixed-point reward rate: the rate is
	// expressed in base units per second per RewardScale staked.
	RewardScale = big.NewInt(1e18)

	// DefaultRewardRate is 0.0001 units per second per staked unit.
	DefaultRewardRate = big.NewInt(1e14)
)

// Stake is the single active deposit record an owner may hold.
type Stake struct {
	Owner      string
	Amount     *big.Int
	LockPeriod time.Duration
	StartTime  time.Time
	Active     bool
}

// Reward returns amount * rate * elapsed / RewardScale for the elapsed
// interval between StartTime and now. Inactive stakes earn nothing.
func (s Stake) Reward(rate *big.Int, now time.Time) *big.Int {
	if !s.Active || s.Amount == nil || rate == nil {
		return new(big.Int)
	}
	elapsed := int64(now.Sub(s.StartTime) / time.Second)
	if elapsed <= 0 {
		return new(big.Int)
	}
	reward := new(big.Int).Mul(s.Amount, rate)
	reward.Mul(reward, big.NewInt(elapsed))
	return reward.Quo(reward, RewardScale)
}

// Unlocked reports whether the lock period has elapsed.
func (s Stake) Unlocked(now time.Time) bool {
	return !now.Before(s.StartTime.Add(s.LockPeriod))
}
