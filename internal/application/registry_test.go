package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func TestGrantRoleRequiresDefaultAdmin(t *testing.T) {
	f := newFixture(t)
	err := f.svc.GrantRole(context.Background(), actor(aliceID), bobID, domain.RoleApprover)
	if err != domain.ErrMissingRole {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
}

func TestGrantRoleRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	err := f.svc.GrantRole(context.Background(), actor(adminID), bobID, domain.Role("OVERLORD"))
	if err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestGrantAndRevokeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.GrantRole(ctx, actor(adminID), bobID, domain.RoleApprover); err != nil {
		t.Fatalf("grant: %v", err)
	}
	has, err := f.svc.HasRole(ctx, bobID, domain.RoleApprover)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if !has {
		t.Fatal("expected role to be granted")
	}

	if err := f.svc.RevokeRole(ctx, actor(adminID), bobID, domain.RoleApprover); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	has, err = f.svc.HasRole(ctx, bobID, domain.RoleApprover)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if has {
		t.Fatal("expected role to be revoked")
	}
}

func TestPauseRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Pause(context.Background(), actor(aliceID)); err != domain.ErrMissingRole {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
}

func TestPauseBlocksMutatingOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Pause(ctx, actor(adminID)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	paused, err := f.svc.Paused(ctx)
	if err != nil {
		t.Fatalf("paused: %v", err)
	}
	if !paused {
		t.Fatal("expected paused state")
	}

	if _, err := f.svc.Lock(ctx, actor(aliceID), validLockInput(f)); err != domain.ErrPaused {
		t.Fatalf("lock: expected ErrPaused, got %v", err)
	}
	if _, err := f.svc.Stake(ctx, actor(aliceID), application.StakeInput{
		Amount:     units(1),
		LockPeriod: domain.MinStakePeriod,
	}); err != domain.ErrPaused {
		t.Fatalf("stake: expected ErrPaused, got %v", err)
	}
	if _, err := f.svc.MintNFT(ctx, actor(adminID), application.MintNFTInput{
		To:       aliceID,
		TokenURI: "ipfs://item-1",
	}); err != domain.ErrPaused {
		t.Fatalf("mint: expected ErrPaused, got %v", err)
	}

	if err := f.svc.Unpause(ctx, actor(adminID)); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := f.svc.Lock(ctx, actor(aliceID), application.LockInput{
		Beneficiary:       aliceID,
		Amount:            units(1),
		ReleaseTime:       f.now.Add(48 * time.Hour),
		ApprovalsRequired: 1,
	}); err != nil {
		t.Fatalf("lock after unpause: %v", err)
	}
}
