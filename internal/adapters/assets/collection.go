package assets

import (
	"context"
	"strings"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

// CollectionName and CollectionSymbol identify the nexus item collection.
const (
	CollectionName   = "Nexus Revoluter"
	CollectionSymbol = "NEXUS"
)

// Collection adapts the NFT repository into the custody collaborator:
// ownership lookups and custody transfers operate on the same minted
// items the ledger tracks.
type Collection struct {
	nfts ports.NFTRepository
}

func NewCollection(nfts ports.NFTRepository) *Collection {
	return &Collection{nfts: nfts}
}

func (c *Collection) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	row, err := c.nfts.GetByTokenID(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return row.Owner, nil
}

func (c *Collection) TransferFrom(ctx context.Context, from, to string, tokenID uint64) error {
	row, err := c.nfts.GetByTokenID(ctx, tokenID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(row.Owner, strings.TrimSpace(from)) {
		return domain.ErrNFTTransferFailed
	}
	return c.nfts.UpdateOwner(ctx, tokenID, to)
}
