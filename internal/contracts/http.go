package contracts

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

// Amounts travel as base-unit decimal strings to survive uint256 scale.

type CreateLockRequest struct {
	Beneficiary       string `json:"beneficiary"`
	Amount            string `json:"amount"`
	ReleaseTime       int64  `json:"release_time"`
	RequiresKYC       bool   `json:"requires_kyc"`
	ApprovalsRequired int    `json:"approvals_required"`
}

type CreateNFTLockRequest struct {
	TokenID           uint64 `json:"token_id"`
	Beneficiary       string `json:"beneficiary"`
	ReleaseTime       int64  `json:"release_time"`
	RequiresKYC       bool   `json:"requires_kyc"`
	ApprovalsRequired int    `json:"approvals_required"`
}

type CreateTokenLockRequest struct {
	TokenAddress      string `json:"token_address"`
	Amount            string `json:"amount"`
	Beneficiary       string `json:"beneficiary"`
	ReleaseTime       int64  `json:"release_time"`
	RequiresKYC       bool   `json:"requires_kyc"`
	ApprovalsRequired int    `json:"approvals_required"`
}

type BatchLockRequest struct {
	Beneficiaries     []string `json:"beneficiaries"`
	Amounts           []string `json:"amounts"`
	ReleaseTimes      []int64  `json:"release_times"`
	RequiresKYC       []bool   `json:"requires_kyc"`
	ApprovalsRequired []int    `json:"approvals_required"`
}

type LockResponse struct {
	LockID            uint64 `json:"lock_id"`
	Beneficiary       string `json:"beneficiary"`
	Amount            string `json:"amount"`
	TokenID           uint64 `json:"token_id"`
	TokenAddress      string `json:"token_address"`
	ReleaseTime       int64  `json:"release_time"`
	RequiresKYC       bool   `json:"requires_kyc"`
	ApprovalsRequired int    `json:"approvals_required"`
	ApprovalsReceived int    `json:"approvals_received"`
	Released          bool   `json:"released"`
}

type BatchLockResponse struct {
	LockIDs []uint64 `json:"lock_ids"`
}

type UpdateNexusContractRequest struct {
	Address string `json:"address"`
}

type KYCResponse struct {
	Account  string `json:"account"`
	Verified bool   `json:"verified"`
}

type StakeRequest struct {
	Amount     string `json:"amount"`
	LockPeriod int64  `json:"lock_period_seconds"`
}

type StakeResponse struct {
	Owner      string `json:"owner"`
	Amount     string `json:"amount"`
	LockPeriod int64  `json:"lock_period_seconds"`
	StartTime  int64  `json:"start_time"`
	Active     bool   `json:"active"`
}

type UnstakeResponse struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
	Reward string `json:"reward"`
}

type RewardResponse struct {
	Owner  string `json:"owner"`
	Reward string `json:"reward"`
}

type UpdateRewardRateRequest struct {
	Rate string `json:"rate"`
}

type CreateProposalRequest struct {
	Description string `json:"description"`
}

type VoteRequest struct {
	Support bool `json:"support"`
}

type ProposalResponse struct {
	ProposalID   uint64 `json:"proposal_id"`
	Description  string `json:"description"`
	Proposer     string `json:"proposer"`
	Deadline     int64  `json:"deadline"`
	VotesFor     string `json:"votes_for"`
	VotesAgainst string `json:"votes_against"`
	Executed     bool   `json:"executed"`
	Passed       bool   `json:"passed"`
}

type MintNFTRequest struct {
	To       string `json:"to"`
	TokenURI string `json:"token_uri"`
}

type CollectionResponse struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Contract string `json:"contract,omitempty"`
}

type NFTResponse struct {
	TokenID  uint64 `json:"token_id"`
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri"`
}

type RoleRequest struct {
	Account string `json:"account"`
	Role    string `json:"role"`
}
