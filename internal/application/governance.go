package application

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// CreateProposal opens a governance item for the fixed voting window.
// The proposer must hold an active stake at or above the vote threshold.
func (s *Service) CreateProposal(ctx context.Context, actor Actor, description string) (domain.Proposal, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Proposal{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Proposal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Proposal{}, domain.ErrInvalidInput
	}
	weight, err := s.activeStakeAmount(ctx, actor.SubjectID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if weight.Cmp(s.cfg.MinVoteThreshold) < 0 {
		return domain.Proposal{}, domain.ErrInsufficientStakeToPropose
	}
	now := s.nowFn()
	row := domain.Proposal{
		Description:  description,
		Proposer:     actor.SubjectID,
		Deadline:     now.Add(s.cfg.VotingPeriod),
		VotesFor:     new(big.Int),
		VotesAgainst: new(big.Int),
		Voters:       map[string]bool{},
		CreatedAt:    now,
	}
	id, err := s.proposals.Create(ctx, row)
	if err != nil {
		return domain.Proposal{}, err
	}
	row.ID = id
	if err := s.enqueueProposalCreated(ctx, row, actor.RequestID, now); err != nil {
		return domain.Proposal{}, err
	}
	return row, nil
}

// Vote records the caller's full active stake for or against, once.
func (s *Service) Vote(ctx context.Context, actor Actor, proposalID uint64, support bool) (domain.Proposal, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Proposal{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Proposal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	weight, err := s.activeStakeAmount(ctx, actor.SubjectID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if weight.Cmp(s.cfg.MinVoteThreshold) < 0 {
		return domain.Proposal{}, domain.ErrInsufficientStakeToVote
	}
	row, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	now := s.nowFn()
	if !now.Before(row.Deadline) {
		return domain.Proposal{}, domain.ErrVotingEnded
	}
	if row.HasVoted(actor.SubjectID) {
		return domain.Proposal{}, domain.ErrAlreadyVoted
	}
	if row.Voters == nil {
		row.Voters = map[string]bool{}
	}
	row.Voters[actor.SubjectID] = true
	if support {
		row.VotesFor = new(big.Int).Add(row.VotesFor, weight)
	} else {
		row.VotesAgainst = new(big.Int).Add(row.VotesAgainst, weight)
	}
	if err := s.proposals.Update(ctx, row); err != nil {
		return domain.Proposal{}, err
	}
	if err := s.enqueueVoted(ctx, row.ID, actor.SubjectID, support, weight, actor.RequestID, now); err != nil {
		return domain.Proposal{}, err
	}
	return row, nil
}

// ExecuteProposal finalizes a proposal exactly once after its deadline.
// Simple majority: passed iff votesFor > votesAgainst.
func (s *Service) ExecuteProposal(ctx context.Context, actor Actor, proposalID uint64) (domain.Proposal, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Proposal{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Proposal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleAdmin); err != nil {
		return domain.Proposal{}, err
	}
	row, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	now := s.nowFn()
	if now.Before(row.Deadline) {
		return domain.Proposal{}, domain.ErrVotingNotEnded
	}
	if row.Executed {
		return domain.Proposal{}, domain.ErrAlreadyExecuted
	}
	row.Executed = true
	row.Passed = row.Majority()
	if err := s.proposals.Update(ctx, row); err != nil {
		return domain.Proposal{}, err
	}
	if err := s.enqueueProposalExecuted(ctx, row, actor.RequestID, now); err != nil {
		return domain.Proposal{}, err
	}
	return row, nil
}

// GetProposal is a read-only lookup.
func (s *Service) GetProposal(ctx context.Context, proposalID uint64) (domain.Proposal, error) {
	return s.proposals.GetByID(ctx, proposalID)
}

// activeStakeAmount snapshots the caller's active stake; zero when none.
func (s *Service) activeStakeAmount(ctx context.Context, owner string) (*big.Int, error) {
	row, err := s.stakes.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return new(big.Int), nil
		}
		return nil, err
	}
	if !row.Active {
		return new(big.Int), nil
	}
	return new(big.Int).Set(row.Amount), nil
}
