package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type LockedPayload struct {
	LockID            uint64 `json:"lock_id"`
	Beneficiary       string `json:"beneficiary"`
	Amount            string `json:"amount"`
	TokenID           uint64 `json:"token_id"`
	TokenAddress      string `json:"token_address"`
	ReleaseTime       string `json:"release_time"`
	RequiresKYC       bool   `json:"requires_kyc"`
	ApprovalsRequired int    `json:"approvals_required"`
}

type ApprovalGivenPayload struct {
	LockID            uint64 `json:"lock_id"`
	Approver          string `json:"approver"`
	ApprovalsReceived int    `json:"approvals_received"`
}

type UnlockedPayload struct {
	LockID      uint64 `json:"lock_id"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	TokenID     uint64 `json:"token_id"`
	ReleasedAt  string `json:"released_at"`
}

type NexusContractUpdatedPayload struct {
	Subject    string `json:"subject"`
	OldAddress string `json:"old_address"`
	NewAddress string `json:"new_address"`
}

type StakedPayload struct {
	Owner      string `json:"owner"`
	Amount     string `json:"amount"`
	LockPeriod int64  `json:"lock_period_seconds"`
	StakedAt   string `json:"staked_at"`
}

type UnstakedPayload struct {
	Owner      string `json:"owner"`
	Amount     string `json:"amount"`
	Reward     string `json:"reward"`
	UnstakedAt string `json:"unstaked_at"`
}

type RewardRateUpdatedPayload struct {
	Subject string `json:"subject"`
	OldRate string `json:"old_rate"`
	NewRate string `json:"new_rate"`
}

type ProposalCreatedPayload struct {
	ProposalID  uint64 `json:"proposal_id"`
	Proposer    string `json:"proposer"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

type VotedPayload struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Support    bool   `json:"support"`
	Weight     string `json:"weight"`
}

type ProposalExecutedPayload struct {
	ProposalID   uint64 `json:"proposal_id"`
	Passed       bool   `json:"passed"`
	VotesFor     string `json:"votes_for"`
	VotesAgainst string `json:"votes_against"`
}

type NFTMintedPayload struct {
	TokenID  uint64 `json:"token_id"`
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri"`
}

type PauseStatePayload struct {
	Subject string `json:"subject"`
	Paused  bool   `json:"paused"`
}

type RoleChangePayload struct {
	Subject string `json:"subject"`
	Account string `json:"account"`
	Role    string `json:"role"`
}

type DLQRecord struct {
	OriginalEvent EventEnvelope `json:"original_event"`
	ErrorSummary  string        `json:"error_summary"`
	RetryCount    int           `json:"retry_count"`
	FirstSeenAt   time.Time     `json:"first_seen_at"`
	LastErrorAt   time.Time     `json:"last_error_at"`
	SourceTopic   string        `json:"source_topic,omitempty"`
	DLQTopic      string        `json:"dlq_topic,omitempty"`
	TraceID       string        `json:"trace_id,omitempty"`
}
