package http

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KOSASIH/nexus-revoluter/internal/adapters/assets"
	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func actorFromRequest(r *http.Request) application.Actor {
	return application.Actor{
		SubjectID: subjectFromContext(r.Context()),
		RequestID: requestIDFromContext(r.Context()),
	}
}

func parseAmount(raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.ErrInvalidInput
	}
	return v, nil
}

func uint64Param(r *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}

func toLockResponse(row domain.Lock) contracts.LockResponse {
	amount := "0"
	if row.Amount != nil {
		amount = row.Amount.String()
	}
	return contracts.LockResponse{
		LockID:            row.ID,
		Beneficiary:       row.Beneficiary,
		Amount:            amount,
		TokenID:           row.TokenID,
		TokenAddress:      row.TokenAddress,
		ReleaseTime:       row.ReleaseTime.Unix(),
		RequiresKYC:       row.RequiresKYC,
		ApprovalsRequired: row.ApprovalsRequired,
		ApprovalsReceived: row.ApprovalsReceived,
		Released:          row.Released,
	}
}

func toStakeResponse(row domain.Stake) contracts.StakeResponse {
	amount := "0"
	if row.Amount != nil {
		amount = row.Amount.String()
	}
	return contracts.StakeResponse{
		Owner:      row.Owner,
		Amount:     amount,
		LockPeriod: int64(row.LockPeriod / time.Second),
		StartTime:  row.StartTime.Unix(),
		Active:     row.Active,
	}
}

func toProposalResponse(row domain.Proposal) contracts.ProposalResponse {
	votesFor, votesAgainst := "0", "0"
	if row.VotesFor != nil {
		votesFor = row.VotesFor.String()
	}
	if row.VotesAgainst != nil {
		votesAgainst = row.VotesAgainst.String()
	}
	return contracts.ProposalResponse{
		ProposalID:   row.ID,
		Description:  row.Description,
		Proposer:     row.Proposer,
		Deadline:     row.Deadline.Unix(),
		VotesFor:     votesFor,
		VotesAgainst: votesAgainst,
		Executed:     row.Executed,
		Passed:       row.Passed,
	}
}

func (h *Handler) createLock(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid amount")
		return
	}
	row, err := h.service.Lock(r.Context(), actorFromRequest(r), application.LockInput{
		Beneficiary:       req.Beneficiary,
		Amount:            amount,
		ReleaseTime:       time.Unix(req.ReleaseTime, 0).UTC(),
		RequiresKYC:       req.RequiresKYC,
		ApprovalsRequired: req.ApprovalsRequired,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, toLockResponse(row))
}

func (h *Handler) createNFTLock(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateNFTLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	row, err := h.service.LockNFT(r.Context(), actorFromRequest(r), application.LockNFTInput{
		TokenID:           req.TokenID,
		Beneficiary:       req.Beneficiary,
		ReleaseTime:       time.Unix(req.ReleaseTime, 0).UTC(),
		RequiresKYC:       req.RequiresKYC,
		ApprovalsRequired: req.ApprovalsRequired,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, toLockResponse(row))
}

func (h *Handler) createTokenLock(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateTokenLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid amount")
		return
	}
	row, err := h.service.LockToken(r.Context(), actorFromRequest(r), application.LockTokenInput{
		TokenAddress:      req.TokenAddress,
		Amount:            amount,
		Beneficiary:       req.Beneficiary,
		ReleaseTime:       time.Unix(req.ReleaseTime, 0).UTC(),
		RequiresKYC:       req.RequiresKYC,
		ApprovalsRequired: req.ApprovalsRequired,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, toLockResponse(row))
}

func (h *Handler) createBatchLocks(w http.ResponseWriter, r *http.Request) {
	var req contracts.BatchLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	amounts := make([]*big.Int, 0, len(req.Amounts))
	for _, raw := range req.Amounts {
		amount, err := parseAmount(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid amount")
			return
		}
		amounts = append(amounts, amount)
	}
	releaseTimes := make([]time.Time, 0, len(req.ReleaseTimes))
	for _, ts := range req.ReleaseTimes {
		releaseTimes = append(releaseTimes, time.Unix(ts, 0).UTC())
	}
	rows, err := h.service.BatchLock(r.Context(), actorFromRequest(r), application.BatchLockInput{
		Beneficiaries:     req.Beneficiaries,
		Amounts:           amounts,
		ReleaseTimes:      releaseTimes,
		RequiresKYC:       req.RequiresKYC,
		ApprovalsRequired: req.ApprovalsRequired,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	writeSuccess(w, http.StatusCreated, contracts.BatchLockResponse{LockIDs: ids})
}

func (h *Handler) getLock(w http.ResponseWriter, r *http.Request) {
	lockID, err := uint64Param(r, "lock_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid lock id")
		return
	}
	row, err := h.service.GetLock(r.Context(), lockID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toLockResponse(row))
}

func (h *Handler) approveLock(w http.ResponseWriter, r *http.Request) {
	lockID, err := uint64Param(r, "lock_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid lock id")
		return
	}
	row, err := h.service.ApproveLock(r.Context(), actorFromRequest(r), lockID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toLockResponse(row))
}

func (h *Handler) releaseLock(w http.ResponseWriter, r *http.Request) {
	lockID, err := uint64Param(r, "lock_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid lock id")
		return
	}
	row, err := h.service.Unlock(r.Context(), actorFromRequest(r), lockID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toLockResponse(row))
}

func (h *Handler) getNexusContract(w http.ResponseWriter, r *http.Request) {
	address, err := h.service.NexusContract(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.UpdateNexusContractRequest{Address: address})
}

func (h *Handler) updateNexusContract(w http.ResponseWriter, r *http.Request) {
	var req contracts.UpdateNexusContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	if err := h.service.UpdateNexusContract(r.Context(), actorFromRequest(r), req.Address); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "nexus contract updated")
}

func (h *Handler) getKYCStatus(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	verified, err := h.service.VerifyKYC(r.Context(), account)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.KYCResponse{Account: account, Verified: verified})
}

func (h *Handler) stake(w http.ResponseWriter, r *http.Request) {
	var req contracts.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid amount")
		return
	}
	row, err := h.service.Stake(r.Context(), actorFromRequest(r), application.StakeInput{
		Amount:     amount,
		LockPeriod: time.Duration(req.LockPeriod) * time.Second,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, toStakeResponse(row))
}

func (h *Handler) unstake(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Unstake(r.Context(), actorFromRequest(r))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.UnstakeResponse{
		Owner:  subjectFromContext(r.Context()),
		Amount: result.Amount.String(),
		Reward: result.Reward.String(),
	})
}

func (h *Handler) getStake(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	row, err := h.service.GetStake(r.Context(), owner)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toStakeResponse(row))
}

func (h *Handler) getReward(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	reward, err := h.service.CalculateReward(r.Context(), owner)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.RewardResponse{Owner: owner, Reward: reward.String()})
}

func (h *Handler) getRewardRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.RewardRate(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.UpdateRewardRateRequest{Rate: rate.String()})
}

func (h *Handler) updateRewardRate(w http.ResponseWriter, r *http.Request) {
	var req contracts.UpdateRewardRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	rate, err := parseAmount(req.Rate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid rate")
		return
	}
	if err := h.service.UpdateRewardRate(r.Context(), actorFromRequest(r), rate); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "reward rate updated")
}

func (h *Handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	row, err := h.service.CreateProposal(r.Context(), actorFromRequest(r), req.Description)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, toProposalResponse(row))
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uint64Param(r, "proposal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid proposal id")
		return
	}
	var req contracts.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	row, err := h.service.Vote(r.Context(), actorFromRequest(r), proposalID, req.Support)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toProposalResponse(row))
}

func (h *Handler) executeProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uint64Param(r, "proposal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid proposal id")
		return
	}
	row, err := h.service.ExecuteProposal(r.Context(), actorFromRequest(r), proposalID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toProposalResponse(row))
}

func (h *Handler) getProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uint64Param(r, "proposal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid proposal id")
		return
	}
	row, err := h.service.GetProposal(r.Context(), proposalID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, toProposalResponse(row))
}

func (h *Handler) mintNFT(w http.ResponseWriter, r *http.Request) {
	var req contracts.MintNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	row, err := h.service.MintNFT(r.Context(), actorFromRequest(r), application.MintNFTInput{
		To:       req.To,
		TokenURI: req.TokenURI,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.NFTResponse{
		TokenID:  row.TokenID,
		Owner:    row.Owner,
		TokenURI: row.TokenURI,
	})
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	address, err := h.service.NexusContract(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.CollectionResponse{
		Name:     assets.CollectionName,
		Symbol:   assets.CollectionSymbol,
		Contract: address,
	})
}

func (h *Handler) getNFT(w http.ResponseWriter, r *http.Request) {
	tokenID, err := uint64Param(r, "token_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid token id")
		return
	}
	row, err := h.service.GetNFT(r.Context(), tokenID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, contracts.NFTResponse{
		TokenID:  row.TokenID,
		Owner:    row.Owner,
		TokenURI: row.TokenURI,
	})
}

func (h *Handler) grantRole(w http.ResponseWriter, r *http.Request) {
	var req contracts.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	if err := h.service.GrantRole(r.Context(), actorFromRequest(r), req.Account, domain.Role(req.Role)); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "role granted")
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	var req contracts.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	if err := h.service.RevokeRole(r.Context(), actorFromRequest(r), req.Account, domain.Role(req.Role)); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "role revoked")
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Pause(r.Context(), actorFromRequest(r)); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "paused")
}

func (h *Handler) unpause(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unpause(r.Context(), actorFromRequest(r)); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "unpaused")
}
