package domain

import (
	"math/big"
	"testing"
	"time"
)

func TestStakeReward(t *testing.T) {
	start := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	row := Stake{
		Owner:      "acct-alice",
		Amount:     big.NewInt(2e18),
		LockPeriod: MinStakePeriod,
		StartTime:  start,
		Active:     true,
	}

	// 2e18 * 1e14 * 1000 / 1e18
	got := row.Reward(DefaultRewardRate, start.Add(1000*time.Second))
	want := new(big.Int).Mul(big.NewInt(1e14), big.NewInt(2000))
	if got.Cmp(want) != 0 {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if got := row.Reward(DefaultRewardRate, start); got.Sign() != 0 {
		t.Fatalf("expected zero reward at start, got %s", got)
	}
	if got := row.Reward(DefaultRewardRate, start.Add(-time.Hour)); got.Sign() != 0 {
		t.Fatalf("expected zero reward before start, got %s", got)
	}

	row.Active = false
	if got := row.Reward(DefaultRewardRate, start.Add(time.Hour)); got.Sign() != 0 {
		t.Fatalf("inactive stake must earn nothing, got %s", got)
	}
}

func TestStakeUnlocked(t *testing.T) {
	start := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	row := Stake{StartTime: start, LockPeriod: MinStakePeriod}

	if row.Unlocked(start.Add(MinStakePeriod - time.Second)) {
		t.Fatal("stake must stay locked before the period elapses")
	}
	if !row.Unlocked(start.Add(MinStakePeriod)) {
		t.Fatal("stake must unlock exactly at maturity")
	}
}

func TestLockKind(t *testing.T) {
	if got := (Lock{Amount: big.NewInt(1)}).Kind(); got != AssetNative {
		t.Fatalf("expected native, got %s", got)
	}
	if got := (Lock{TokenID: 7}).Kind(); got != AssetNFT {
		t.Fatalf("expected nft, got %s", got)
	}
	if got := (Lock{TokenAddress: "0xpi", Amount: big.NewInt(1)}).Kind(); got != AssetToken {
		t.Fatalf("expected token, got %s", got)
	}
}

func TestProposalMajority(t *testing.T) {
	p := Proposal{VotesFor: big.NewInt(2), VotesAgainst: big.NewInt(1)}
	if !p.Majority() {
		t.Fatal("expected majority")
	}
	p.VotesAgainst = big.NewInt(2)
	if p.Majority() {
		t.Fatal("tie must not be a majority")
	}
	if (Proposal{}).Majority() {
		t.Fatal("nil tallies must not be a majority")
	}
}
