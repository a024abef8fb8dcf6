package application_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/adapters/assets"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/events"
	"github.com/KOSASIH/nexus-revoluter/internal/adapters/memory"
	"github.com/KOSASIH/nexus-revoluter/internal/application"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

const (
	custodyAccount = "nexus-custody"

	adminID    = "acct-admin"
	approverID = "acct-approver"
	aliceID    = "acct-alice"
	bobID      = "acct-bob"
)

// flakyVault wraps the real vault so tests can force payout failures.
type flakyVault struct {
	*assets.NativeVault
	fail bool
}

func (v *flakyVault) Transfer(ctx context.Context, to string, amount *big.Int) error {
	if v.fail {
		return errors.New("vault unavailable")
	}
	return v.NativeVault.Transfer(ctx, to, amount)
}

// stubKYC approves every account unless explicitly denied.
type stubKYC struct {
	denied map[string]bool
}

func (k *stubKYC) Verify(_ context.Context, account string) (bool, error) {
	return !k.denied[account], nil
}

type fixture struct {
	svc    *application.Service
	repos  *memory.Repositories
	bus    *events.MemoryPublisher
	vault  *assets.NativeVault
	native *flakyVault
	tokens *assets.TokenLedger
	kyc    *stubKYC
	now    time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:  memory.NewRepositories(),
		bus:    events.NewMemoryPublisher(),
		vault:  assets.NewNativeVault(),
		tokens: assets.NewTokenLedger(custodyAccount),
		kyc:    &stubKYC{denied: map[string]bool{}},
		now:    time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC),
	}
	f.native = &flakyVault{NativeVault: f.vault}
	f.svc = application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:    "nexus-ledger",
			CustodyAccount: custodyAccount,
		},
		Locks:        f.repos.Locks,
		Stakes:       f.repos.Stakes,
		Proposals:    f.repos.Proposals,
		NFTs:         f.repos.NFTs,
		Roles:        f.repos.Roles,
		Settings:     f.repos.Settings,
		Outbox:       f.repos.Outbox,
		NFTCustody:   assets.NewCollection(f.repos.NFTs),
		Tokens:       f.tokens,
		Native:       f.native,
		KYC:          f.kyc,
		DomainEvents: f.bus,
		Analytics:    f.bus,
		DLQ:          events.NewLoggingDLQPublisher(nil),
		Now:          func() time.Time { return f.now },
	})
	ctx := context.Background()
	for _, role := range []domain.Role{domain.RoleDefaultAdmin, domain.RoleAdmin, domain.RoleMinter} {
		if err := f.repos.Roles.Grant(ctx, adminID, role); err != nil {
			t.Fatalf("seed role %s: %v", role, err)
		}
	}
	if err := f.repos.Roles.Grant(ctx, approverID, domain.RoleApprover); err != nil {
		t.Fatalf("seed approver role: %v", err)
	}
	return f
}

func actor(subject string) application.Actor {
	return application.Actor{SubjectID: subject, RequestID: "req-" + subject}
}

// units scales whole tokens into the base denomination.
func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func mustLock(t *testing.T, f *fixture, input application.LockInput) domain.Lock {
	t.Helper()
	row, err := f.svc.Lock(context.Background(), actor(aliceID), input)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	return row
}

func mustStake(t *testing.T, f *fixture, owner string, amount *big.Int, period time.Duration) {
	t.Helper()
	_, err := f.svc.Stake(context.Background(), actor(owner), application.StakeInput{
		Amount:     amount,
		LockPeriod: period,
	})
	if err != nil {
		t.Fatalf("stake for %s: %v", owner, err)
	}
}
