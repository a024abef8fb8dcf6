package domain

import (
	"math/big"
	"time"
)

const VotingPeriod = 7 * 24 * time.Hour

// MinVoteThreshold is the active stake required to propose or vote.
var MinVoteThreshold = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))

// Proposal is one governance item. Vote tallies only grow, by the voter's
// active stake at the moment of voting, and each voter is counted once.
type Proposal struct {
	ID           uint64
	Description  string
	Proposer     string
	Deadline     time.Time
	VotesFor     *big.Int
	VotesAgainst *big.Int
	Executed     bool
	Passed       bool
	Voters       map[string]bool
	CreatedAt    time.Time
}

func (p Proposal) HasVoted(voter string) bool {
	return p.Voters[voter]
}

// Majority reports whether the proposal passes under the simple-majority
// rule applied at execution time.
func (p Proposal) Majority() bool {
	if p.VotesFor == nil || p.VotesAgainst == nil {
		return false
	}
	return p.VotesFor.Cmp(p.VotesAgainst) > 0
}
