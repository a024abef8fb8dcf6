package domain

import "errors"

// Kind discriminates ledger failures for callers and the HTTP adapter.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindTransfer      Kind = "transfer"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the failure kind, or "" for unclassified errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

var (
	ErrInvalidInput        = &Error{KindValidation, "invalid input"}
	ErrNoFundsSent         = &Error{KindValidation, "no funds sent"}
	ErrReleaseTimeTooSoon  = &Error{KindValidation, "release time too soon"}
	ErrApprovalsRequired   = &Error{KindValidation, "at least one approval required"}
	ErrTooManyApprovals    = &Error{KindValidation, "too many approvals required"}
	ErrArrayLengthMismatch = &Error{KindValidation, "array length mismatch"}
	ErrStakeTooLow         = &Error{KindValidation, "stake amount too low"}
	ErrLockPeriodTooShort  = &Error{KindValidation, "lock period too short"}
	ErrInvalidRewardRate   = &Error{KindValidation, "invalid reward rate"}
	ErrInvalidRole         = &Error{KindValidation, "unknown role"}

	ErrUnauthorized               = &Error{KindAuthorization, "unauthorized"}
	ErrMissingRole                = &Error{KindAuthorization, "missing required role"}
	ErrNotBeneficiary             = &Error{KindAuthorization, "not beneficiary"}
	ErrNotNFTOwner                = &Error{KindAuthorization, "not nft owner"}
	ErrInsufficientStakeToPropose = &Error{KindAuthorization, "insufficient stake to propose"}
	ErrInsufficientStakeToVote    = &Error{KindAuthorization, "insufficient stake to vote"}

	ErrPaused                = &Error{KindState, "paused"}
	ErrReentrantCall         = &Error{KindState, "reentrant call"}
	ErrAlreadyReleased       = &Error{KindState, "lock already released"}
	ErrAlreadyApproved       = &Error{KindState, "already approved"}
	ErrReleaseTimeNotReached = &Error{KindState, "release time not reached"}
	ErrInsufficientApprovals = &Error{KindState, "insufficient approvals"}
	ErrKYCNotVerified        = &Error{KindState, "beneficiary not kyc verified"}
	ErrNexusContractNotSet   = &Error{KindState, "nexus contract not set"}
	ErrAlreadyStaking        = &Error{KindState, "already staking"}
	ErrNoActiveStake         = &Error{KindState, "no active stake"}
	ErrStakeStillLocked      = &Error{KindState, "stake still locked"}
	ErrAlreadyVoted          = &Error{KindState, "already voted"}
	ErrVotingEnded           = &Error{KindState, "voting period ended"}
	ErrVotingNotEnded        = &Error{KindState, "voting period not ended"}
	ErrAlreadyExecuted       = &Error{KindState, "proposal already executed"}

	ErrTokenTransferFailed  = &Error{KindTransfer, "token transfer failed"}
	ErrNFTTransferFailed    = &Error{KindTransfer, "nft transfer failed"}
	ErrNativeTransferFailed = &Error{KindTransfer, "native transfer failed"}

	ErrNotFound         = &Error{KindNotFound, "not found"}
	ErrLockNotFound     = &Error{KindNotFound, "lock not found"}
	ErrProposalNotFound = &Error{KindNotFound, "proposal not found"}
	ErrTokenNotFound    = &Error{KindNotFound, "token not found"}

	ErrConflict = &Error{KindConflict, "conflict"}
)
