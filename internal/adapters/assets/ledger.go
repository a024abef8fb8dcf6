package assets

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// TokenLedger is a balance-and-allowance book for fungible tokens,
// keyed by token address. Pull consumes allowance granted to the
// custody account; Push pays out of custody.
type TokenLedger struct {
	custodyAccount string

	mu         sync.Mutex
	balances   map[string]map[string]*big.Int
	allowances map[string]map[string]*big.Int
}

func NewTokenLedger(custodyAccount string) *TokenLedger {
	return &TokenLedger{
		custodyAccount: strings.TrimSpace(custodyAccount),
		balances:       map[string]map[string]*big.Int{},
		allowances:     map[string]map[string]*big.Int{},
	}
}

func tokenKey(tokenAddress string) string {
	return strings.ToLower(strings.TrimSpace(tokenAddress))
}

// Credit funds an account directly. Used for seeding and for test setup.
func (l *TokenLedger) Credit(tokenAddress, account string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(tokenKey(tokenAddress), strings.TrimSpace(account), amount)
}

// Approve lets the custody account pull up to amount from owner.
func (l *TokenLedger) Approve(tokenAddress, owner string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tk := tokenKey(tokenAddress)
	if l.allowances[tk] == nil {
		l.allowances[tk] = map[string]*big.Int{}
	}
	l.allowances[tk][strings.TrimSpace(owner)] = new(big.Int).Set(amount)
}

func (l *TokenLedger) BalanceOf(tokenAddress, account string) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[tokenKey(tokenAddress)][strings.TrimSpace(account)]
	if bal == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(bal)
}

func (l *TokenLedger) Pull(_ context.Context, tokenAddress, from string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tk := tokenKey(tokenAddress)
	from = strings.TrimSpace(from)
	allowance := l.allowances[tk][from]
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return domain.ErrTokenTransferFailed
	}
	if err := l.sub(tk, from, amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	l.add(tk, l.custodyAccount, amount)
	return nil
}

func (l *TokenLedger) Push(_ context.Context, tokenAddress, to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tk := tokenKey(tokenAddress)
	if err := l.sub(tk, l.custodyAccount, amount); err != nil {
		return err
	}
	l.add(tk, strings.TrimSpace(to), amount)
	return nil
}

func (l *TokenLedger) add(tk, account string, amount *big.Int) {
	if l.balances[tk] == nil {
		l.balances[tk] = map[string]*big.Int{}
	}
	bal := l.balances[tk][account]
	if bal == nil {
		bal = new(big.Int)
		l.balances[tk][account] = bal
	}
	bal.Add(bal, amount)
}

func (l *TokenLedger) sub(tk, account string, amount *big.Int) error {
	bal := l.balances[tk][account]
	if bal == nil || bal.Cmp(amount) < 0 {
		return domain.ErrTokenTransferFailed
	}
	bal.Sub(bal, amount)
	return nil
}
