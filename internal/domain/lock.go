package domain

import (
	"math/big"
	"time"
)

// Custody protocol parameters. Amounts are expressed in the chain's base
// unit (1e18 = one whole Pi-equivalent).
const (
	MinCustodyLockPeriod = 24 * time.Hour
	MaxApprovals         = 10
)

type AssetKind string

const (
	AssetNative AssetKind = "native"
	AssetNFT    AssetKind = "nft"
	AssetToken  AssetKind = "token"
)

// Lock is one escrow record. Exactly one of {native amount, NFT token id,
// fungible token amount} is set; TokenAddress is empty for native value.
type Lock struct {
	ID                uint64
	Beneficiary       string
	Amount            *big.Int
	TokenID           uint64
	TokenAddress      string
	ReleaseTime       time.Time
	RequiresKYC       bool
	ApprovalsRequired int
	ApprovalsReceived int
	ApprovedBy        map[string]bool
	Released          bool
	CreatedAt         time.Time
	ReleasedAt        *time.Time
}

func (l Lock) Kind() AssetKind {
	switch {
	case l.TokenID > 0:
		return AssetNFT
	case l.TokenAddress != "":
		return AssetToken
	default:
		return AssetNative
	}
}

// HasApproved reports whether the given approver was already counted.
func (l Lock) HasApproved(approver string) bool {
	return l.ApprovedBy[approver]
}
