package application

import (
	"context"
	"strings"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// MintNFT issues the next sequential item of the nexus collection to the
// given owner. MINTER role required; rejected while paused.
func (s *Service) MintNFT(ctx context.Context, actor Actor, input MintNFTInput) (domain.NFTItem, error) {
	if err := requireCaller(actor); err != nil {
		return domain.NFTItem{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.NFTItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.NFTItem{}, err
	}
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleMinter); err != nil {
		return domain.NFTItem{}, err
	}
	input.To = strings.TrimSpace(input.To)
	input.TokenURI = strings.TrimSpace(input.TokenURI)
	if input.To == "" || input.TokenURI == "" {
		return domain.NFTItem{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	row := domain.NFTItem{
		Owner:    input.To,
		TokenURI: input.TokenURI,
		MintedAt: now,
	}
	tokenID, err := s.nfts.Mint(ctx, row)
	if err != nil {
		return domain.NFTItem{}, err
	}
	row.TokenID = tokenID
	if err := s.enqueueNFTMinted(ctx, row, actor.RequestID, now); err != nil {
		return domain.NFTItem{}, err
	}
	return row, nil
}

// GetNFT is a read-only lookup.
func (s *Service) GetNFT(ctx context.Context, tokenID uint64) (domain.NFTItem, error) {
	return s.nfts.GetByTokenID(ctx, tokenID)
}
