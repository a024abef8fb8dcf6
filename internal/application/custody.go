package application

import (
	"context"
	"math/big"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// Lock escrows native value for a beneficiary behind a time gate and an
// approval quorum.
func (s *Service) Lock(ctx context.Context, actor Actor, input LockInput) (domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Lock{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Lock{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.Lock{}, err
	}
	now := s.nowFn()
	row, err := s.buildNativeLock(input, now)
	if err != nil {
		return domain.Lock{}, err
	}
	id, err := s.locks.Create(ctx, row)
	if err != nil {
		return domain.Lock{}, err
	}
	row.ID = id
	if err := s.enqueueLocked(ctx, row, actor.RequestID, now); err != nil {
		return domain.Lock{}, err
	}
	return row, nil
}

// BatchLock performs per-item native locks as one atomic operation.
func (s *Service) BatchLock(ctx context.Context, actor Actor, input BatchLockInput) ([]domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return nil, err
	}
	if err := s.guardEntry(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	n := len(input.Beneficiaries)
	if len(input.Amounts) != n || len(input.ReleaseTimes) != n ||
		len(input.RequiresKYC) != n || len(input.ApprovalsRequired) != n {
		return nil, domain.ErrArrayLengthMismatch
	}
	if n == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := s.nowFn()
	rows := make([]domain.Lock, 0, n)
	for i := 0; i < n; i++ {
		row, err := s.buildNativeLock(LockInput{
			Beneficiary:       input.Beneficiaries[i],
			Amount:            input.Amounts[i],
			ReleaseTime:       input.ReleaseTimes[i],
			RequiresKYC:       input.RequiresKYC[i],
			ApprovalsRequired: input.ApprovalsRequired[i],
		}, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	ids, err := s.locks.CreateBatch(ctx, rows)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ID = ids[i]
		if err := s.enqueueLocked(ctx, rows[i], actor.RequestID, now); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// LockNFT takes custody of an item the caller owns in the configured
// nexus collection. The ownership transfer is an external call, so the
// reentrancy guard is held across it.
func (s *Service) LockNFT(ctx context.Context, actor Actor, input LockNFTInput) (domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Lock{}, err
	}
	if !s.beginExternal() {
		return domain.Lock{}, domain.ErrReentrantCall
	}
	defer s.endExternal()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.Lock{}, err
	}
	nexusAddr, err := s.settings.NexusContract(ctx)
	if err != nil {
		return domain.Lock{}, err
	}
	if nexusAddr == "" || s.nftCustody == nil {
		return domain.Lock{}, domain.ErrNexusContractNotSet
	}
	now := s.nowFn()
	if err := validateLockTerms(input.ReleaseTime, input.ApprovalsRequired, now, s.cfg); err != nil {
		return domain.Lock{}, err
	}
	if input.Beneficiary == "" || input.TokenID == 0 {
		return domain.Lock{}, domain.ErrInvalidInput
	}
	owner, err := s.nftCustody.OwnerOf(ctx, input.TokenID)
	if err != nil {
		return domain.Lock{}, err
	}
	if owner != actor.SubjectID {
		return domain.Lock{}, domain.ErrNotNFTOwner
	}
	if err := s.nftCustody.TransferFrom(ctx, actor.SubjectID, s.cfg.CustodyAccount, input.TokenID); err != nil {
		return domain.Lock{}, domain.ErrNFTTransferFailed
	}
	row := domain.Lock{
		Beneficiary:       input.Beneficiary,
		Amount:            nil,
		TokenID:           input.TokenID,
		TokenAddress:      nexusAddr,
		ReleaseTime:       input.ReleaseTime,
		RequiresKYC:       input.RequiresKYC,
		ApprovalsRequired: input.ApprovalsRequired,
		ApprovedBy:        map[string]bool{},
		CreatedAt:         now,
	}
	id, err := s.locks.Create(ctx, row)
	if err != nil {
		// Undo the custody transfer so no item is stranded.
		_ = s.nftCustody.TransferFrom(ctx, s.cfg.CustodyAccount, actor.SubjectID, input.TokenID)
		return domain.Lock{}, err
	}
	row.ID = id
	if err := s.enqueueLocked(ctx, row, actor.RequestID, now); err != nil {
		return domain.Lock{}, err
	}
	return row, nil
}

// LockToken pulls fungible tokens from the caller into custody. The pull
// is an external call and precedes the internal commit, so the guard is
// held and a failed commit pushes the funds back.
func (s *Service) LockToken(ctx context.Context, actor Actor, input LockTokenInput) (domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Lock{}, err
	}
	if !s.beginExternal() {
		return domain.Lock{}, domain.ErrReentrantCall
	}
	defer s.endExternal()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.Lock{}, err
	}
	if s.tokens == nil || input.TokenAddress == "" {
		return domain.Lock{}, domain.ErrInvalidInput
	}
	if input.Amount == nil || input.Amount.Sign() <= 0 {
		return domain.Lock{}, domain.ErrNoFundsSent
	}
	now := s.nowFn()
	if err := validateLockTerms(input.ReleaseTime, input.ApprovalsRequired, now, s.cfg); err != nil {
		return domain.Lock{}, err
	}
	if input.Beneficiary == "" {
		return domain.Lock{}, domain.ErrInvalidInput
	}
	if err := s.tokens.Pull(ctx, input.TokenAddress, actor.SubjectID, input.Amount); err != nil {
		return domain.Lock{}, domain.ErrTokenTransferFailed
	}
	row := domain.Lock{
		Beneficiary:       input.Beneficiary,
		Amount:            new(big.Int).Set(input.Amount),
		TokenAddress:      input.TokenAddress,
		ReleaseTime:       input.ReleaseTime,
		RequiresKYC:       input.RequiresKYC,
		ApprovalsRequired: input.ApprovalsRequired,
		ApprovedBy:        map[string]bool{},
		CreatedAt:         now,
	}
	id, err := s.locks.Create(ctx, row)
	if err != nil {
		_ = s.tokens.Push(ctx, input.TokenAddress, actor.SubjectID, input.Amount)
		return domain.Lock{}, err
	}
	row.ID = id
	if err := s.enqueueLocked(ctx, row, actor.RequestID, now); err != nil {
		return domain.Lock{}, err
	}
	return row, nil
}

// ApproveLock counts one endorsement toward the lock's quorum. A given
// approver is counted at most once per lock.
func (s *Service) ApproveLock(ctx context.Context, actor Actor, lockID uint64) (domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Lock{}, err
	}
	if err := s.guardEntry(); err != nil {
		return domain.Lock{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireNotPaused(ctx); err != nil {
		return domain.Lock{}, err
	}
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleApprover); err != nil {
		return domain.Lock{}, err
	}
	row, err := s.locks.GetByID(ctx, lockID)
	if err != nil {
		return domain.Lock{}, err
	}
	if row.Released {
		return domain.Lock{}, domain.ErrAlreadyReleased
	}
	if row.HasApproved(actor.SubjectID) {
		return domain.Lock{}, domain.ErrAlreadyApproved
	}
	if row.ApprovedBy == nil {
		row.ApprovedBy = map[string]bool{}
	}
	row.ApprovedBy[actor.SubjectID] = true
	row.ApprovalsReceived++
	if err := s.locks.Update(ctx, row); err != nil {
		return domain.Lock{}, err
	}
	if err := s.enqueueApprovalGiven(ctx, row, actor.SubjectID, actor.RequestID, s.nowFn()); err != nil {
		return domain.Lock{}, err
	}
	return row, nil
}

// Unlock releases a matured, fully approved lock to its beneficiary.
// The released flag is committed before the asset moves; a transfer
// failure rolls the flag back and surfaces a transfer error.
func (s *Service) Unlock(ctx context.Context, actor Actor, lockID uint64) (domain.Lock, error) {
	if err := requireCaller(actor); err != nil {
		return domain.Lock{}, err
	}
	if !s.beginExternal() {
		return domain.Lock{}, domain.ErrReentrantCall
	}
	defer s.endExternal()

	s.mu.Lock()
	if err := s.requireNotPaused(ctx); err != nil {
		s.mu.Unlock()
		return domain.Lock{}, err
	}
	row, err := s.locks.GetByID(ctx, lockID)
	if err != nil {
		s.mu.Unlock()
		return domain.Lock{}, err
	}
	if row.Beneficiary != actor.SubjectID {
		s.mu.Unlock()
		return domain.Lock{}, domain.ErrNotBeneficiary
	}
	if row.Released {
		s.mu.Unlock()
		return domain.Lock{}, domain.ErrAlreadyReleased
	}
	now := s.nowFn()
	if now.Before(row.ReleaseTime) {
		s.mu.Unlock()
		return domain.Lock{}, domain.ErrReleaseTimeNotReached
	}
	if row.ApprovalsReceived < row.ApprovalsRequired {
		s.mu.Unlock()
		return domain.Lock{}, domain.ErrInsufficientApprovals
	}
	if row.RequiresKYC {
		ok, kycErr := s.verifyKYC(ctx, row.Beneficiary)
		if kycErr != nil {
			s.mu.Unlock()
			return domain.Lock{}, kycErr
		}
		if !ok {
			s.mu.Unlock()
			return domain.Lock{}, domain.ErrKYCNotVerified
		}
	}
	// State before transfer: mark released so a reentrant callback sees a
	// terminal lock.
	row.Released = true
	row.ReleasedAt = &now
	if err := s.locks.Update(ctx, row); err != nil {
		s.mu.Unlock()
		return domain.Lock{}, err
	}
	s.mu.Unlock()

	if err := s.payOut(ctx, row); err != nil {
		s.mu.Lock()
		row.Released = false
		row.ReleasedAt = nil
		_ = s.locks.Update(ctx, row)
		s.mu.Unlock()
		return domain.Lock{}, err
	}

	if err := s.enqueueUnlocked(ctx, row, actor.RequestID, now); err != nil {
		return domain.Lock{}, err
	}
	return row, nil
}

func (s *Service) payOut(ctx context.Context, row domain.Lock) error {
	switch row.Kind() {
	case domain.AssetNative:
		if s.native == nil {
			return domain.ErrNativeTransferFailed
		}
		if err := s.native.Transfer(ctx, row.Beneficiary, row.Amount); err != nil {
			return domain.ErrNativeTransferFailed
		}
	case domain.AssetNFT:
		if s.nftCustody == nil {
			return domain.ErrNexusContractNotSet
		}
		if err := s.nftCustody.TransferFrom(ctx, s.cfg.CustodyAccount, row.Beneficiary, row.TokenID); err != nil {
			return domain.ErrNFTTransferFailed
		}
	case domain.AssetToken:
		if s.tokens == nil {
			return domain.ErrTokenTransferFailed
		}
		if err := s.tokens.Push(ctx, row.TokenAddress, row.Beneficiary, row.Amount); err != nil {
			return domain.ErrTokenTransferFailed
		}
	}
	return nil
}

// GetLock is a read-only lookup.
func (s *Service) GetLock(ctx context.Context, lockID uint64) (domain.Lock, error) {
	return s.locks.GetByID(ctx, lockID)
}

// UpdateNexusContract repoints the NFT collection collaborator address.
func (s *Service) UpdateNexusContract(ctx context.Context, actor Actor, address string) error {
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
	if address == "" {
		return domain.ErrInvalidInput
	}
	old, err := s.settings.NexusContract(ctx)
	if err != nil {
		return err
	}
	if err := s.settings.SetNexusContract(ctx, address); err != nil {
		return err
	}
	return s.enqueueNexusContractUpdated(ctx, actor.SubjectID, old, address, actor.RequestID, s.nowFn())
}

// NexusContract reports the configured NFT collection address.
func (s *Service) NexusContract(ctx context.Context) (string, error) {
	return s.settings.NexusContract(ctx)
}

// VerifyKYC consults the external oracle. Read-only; the oracle is
// currently a permissive stub.
func (s *Service) VerifyKYC(ctx context.Context, account string) (bool, error) {
	if account == "" {
		return false, domain.ErrInvalidInput
	}
	return s.verifyKYC(ctx, account)
}

func (s *Service) verifyKYC(ctx context.Context, account string) (bool, error) {
	if s.kyc == nil {
		return true, nil
	}
	return s.kyc.Verify(ctx, account)
}

func (s *Service) buildNativeLock(input LockInput, now time.Time) (domain.Lock, error) {
	if input.Amount == nil || input.Amount.Sign() <= 0 {
		return domain.Lock{}, domain.ErrNoFundsSent
	}
	if input.Beneficiary == "" {
		return domain.Lock{}, domain.ErrInvalidInput
	}
	if err := validateLockTerms(input.ReleaseTime, input.ApprovalsRequired, now, s.cfg); err != nil {
		return domain.Lock{}, err
	}
	return domain.Lock{
		Beneficiary:       input.Beneficiary,
		Amount:            new(big.Int).Set(input.Amount),
		ReleaseTime:       input.ReleaseTime,
		RequiresKYC:       input.RequiresKYC,
		ApprovalsRequired: input.ApprovalsRequired,
		ApprovedBy:        map[string]bool{},
		CreatedAt:         now,
	}, nil
}

func validateLockTerms(releaseTime time.Time, approvalsRequired int, now time.Time, cfg Config) error {
	if releaseTime.Before(now.Add(cfg.MinCustodyLockPeriod)) {
		return domain.ErrReleaseTimeTooSoon
	}
	if approvalsRequired < 1 {
		return domain.ErrApprovalsRequired
	}
	if approvalsRequired > cfg.MaxApprovals {
		return domain.ErrTooManyApprovals
	}
	return nil
}
