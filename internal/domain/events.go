package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
)

const (
	EventLocked               = "custody.locked"
	EventApprovalGiven        = "custody.approval_given"
	EventUnlocked             = "custody.unlocked"
	EventNexusContractUpdated = "custody.nexus_contract_updated"
	EventStaked               = "staking.staked"
	EventUnstaked             = "staking.unstaked"
	EventRewardRateUpdated    = "staking.reward_rate_updated"
	EventProposalCreated      = "governance.proposal_created"
	EventVoted                = "governance.voted"
	EventProposalExecuted     = "governance.proposal_executed"
	EventNFTMinted            = "nft.minted"
	EventPaused               = "ledger.paused"
	EventUnpaused             = "ledger.unpaused"
	EventRoleGranted          = "access.role_granted"
	EventRoleRevoked          = "access.role_revoked"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventLocked, EventApprovalGiven, EventUnlocked, EventNexusContractUpdated,
		EventStaked, EventUnstaked, EventRewardRateUpdated,
		EventProposalCreated, EventVoted, EventProposalExecuted,
		EventNFTMinted, EventPaused, EventUnpaused, EventRoleGranted, EventRoleRevoked:
		return true
	default:
		return false
	}
}

// CanonicalEventClass routes value-moving transitions to the domain bus;
// everything else is analytics-only.
func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventLocked, EventUnlocked, EventStaked, EventUnstaked,
		EventProposalExecuted, EventNFTMinted:
		return CanonicalEventClassDomain
	case EventApprovalGiven, EventNexusContractUpdated, EventRewardRateUpdated,
		EventProposalCreated, EventVoted, EventPaused, EventUnpaused,
		EventRoleGranted, EventRoleRevoked:
		return CanonicalEventClassAnalyticsOnly
	default:
		return ""
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	switch eventType {
	case EventLocked, EventApprovalGiven, EventUnlocked:
		return "data.lock_id"
	case EventStaked, EventUnstaked:
		return "data.owner"
	case EventProposalCreated, EventVoted, EventProposalExecuted:
		return "data.proposal_id"
	case EventNFTMinted:
		return "data.token_id"
	case EventNexusContractUpdated, EventRewardRateUpdated, EventPaused,
		EventUnpaused, EventRoleGranted, EventRoleRevoked:
		return "data.subject"
	default:
		return ""
	}
}
