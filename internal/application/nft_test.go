package application_test

import (
	"context"
	"testing"

	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func TestMintNFTRequiresMinterRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.MintNFT(context.Background(), actor(aliceID), application.MintNFTInput{
		To:       aliceID,
		TokenURI: "ipfs://item-1",
	})
	if err != domain.ErrMissingRole {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
}

func TestMintNFTValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.MintNFT(ctx, actor(adminID), application.MintNFTInput{
		TokenURI: "ipfs://item-1",
	}); err != domain.ErrInvalidInput {
		t.Fatalf("missing owner: expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.MintNFT(ctx, actor(adminID), application.MintNFTInput{
		To: aliceID,
	}); err != domain.ErrInvalidInput {
		t.Fatalf("missing uri: expected ErrInvalidInput, got %v", err)
	}
}

func TestMintNFTAssignsSequentialTokenIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		item, err := f.svc.MintNFT(ctx, actor(adminID), application.MintNFTInput{
			To:       aliceID,
			TokenURI: "ipfs://item",
		})
		if err != nil {
			t.Fatalf("mint %d: %v", want, err)
		}
		if item.TokenID != want {
			t.Fatalf("expected token id %d, got %d", want, item.TokenID)
		}
	}

	item, err := f.svc.GetNFT(ctx, 2)
	if err != nil {
		t.Fatalf("get nft: %v", err)
	}
	if item.Owner != aliceID {
		t.Fatalf("unexpected owner %q", item.Owner)
	}
	if _, err := f.svc.GetNFT(ctx, 99); err != domain.ErrTokenNotFound {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}
