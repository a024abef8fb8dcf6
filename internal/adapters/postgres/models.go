package postgres

import (
	"time"
)

// Amounts are stored as numeric(78,0) and travel through GORM as
// base-10 strings to survive uint256 scale.

type lockModel struct {
	LockID            uint64     `gorm:"column:lock_id;primaryKey;autoIncrement"`
	Beneficiary       string     `gorm:"column:beneficiary"`
	Amount            string     `gorm:"column:amount"`
	TokenID           uint64     `gorm:"column:token_id"`
	TokenAddress      string     `gorm:"column:token_address"`
	ReleaseTime       time.Time  `gorm:"column:release_time"`
	RequiresKYC       bool       `gorm:"column:requires_kyc"`
	ApprovalsRequired int        `gorm:"column:approvals_required"`
	ApprovalsReceived int        `gorm:"column:approvals_received"`
	ApprovedBy        string     `gorm:"column:approved_by"`
	Released          bool       `gorm:"column:released"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	ReleasedAt        *time.Time `gorm:"column:released_at"`
}

func (lockModel) TableName() string { return "locks" }

type stakeModel struct {
	Owner             string    `gorm:"column:owner;primaryKey"`
	Amount            string    `gorm:"column:amount"`
	LockPeriodSeconds int64     `gorm:"column:lock_period_seconds"`
	StartTime         time.Time `gorm:"column:start_time"`
	Active            bool      `gorm:"column:active"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (stakeModel) TableName() string { return "stakes" }

type proposalModel struct {
	ProposalID   uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement"`
	Description  string    `gorm:"column:description"`
	Proposer     string    `gorm:"column:proposer"`
	Deadline     time.Time `gorm:"column:deadline"`
	VotesFor     string    `gorm:"column:votes_for"`
	VotesAgainst string    `gorm:"column:votes_against"`
	Executed     bool      `gorm:"column:executed"`
	Passed       bool      `gorm:"column:passed"`
	Voters       string    `gorm:"column:voters"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (proposalModel) TableName() string { return "proposals" }

type nftModel struct {
	TokenID  uint64    `gorm:"column:token_id;primaryKey;autoIncrement"`
	Owner    string    `gorm:"column:owner"`
	TokenURI string    `gorm:"column:token_uri"`
	MintedAt time.Time `gorm:"column:minted_at"`
}

func (nftModel) TableName() string { return "nft_items" }

type roleGrantModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	Role      string    `gorm:"column:role;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (roleGrantModel) TableName() string { return "role_grants" }

type settingModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (settingModel) TableName() string { return "settings" }

type outboxModel struct {
	RecordID   string     `gorm:"column:record_id;primaryKey"`
	EventClass string     `gorm:"column:event_class"`
	Envelope   string     `gorm:"column:envelope"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	SentAt     *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "ledger_outbox" }
