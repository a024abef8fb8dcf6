package ports

import (
	"context"
	"math/big"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
)

// NFTCustody is the nexus collection collaborator: ownership queries and
// custody transfers for locked items.
type NFTCustody interface {
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
	TransferFrom(ctx context.Context, from, to string, tokenID uint64) error
}

// TokenTransfer is the fungible-token collaborator. Pull draws funds from
// an account into custody (fails on insufficient balance or allowance);
// Push pays custody funds out.
type TokenTransfer interface {
	Pull(ctx context.Context, tokenAddress, from string, amount *big.Int) error
	Push(ctx context.Context, tokenAddress, to string, amount *big.Int) error
}

// NativeTransfer pays native value out of the ledger treasury.
type NativeTransfer interface {
	Transfer(ctx context.Context, to string, amount *big.Int) error
}

// KYCVerifier is the external identity-verification oracle.
type KYCVerifier interface {
	Verify(ctx context.Context, account string) (bool, error)
}

// TokenVerifier authenticates a bearer token and returns the caller's
// subject identifier.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type DomainPublisher interface {
	PublishDomain(ctx context.Context, envelope contracts.EventEnvelope) error
}

type AnalyticsPublisher interface {
	PublishAnalytics(ctx context.Context, envelope contracts.EventEnvelope) error
}

type DLQPublisher interface {
	PublishDLQ(ctx context.Context, record contracts.DLQRecord) error
}
