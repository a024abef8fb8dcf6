package assets

import (
	"context"
	"math/big"
	"strings"
	"sync"
)

// NativeVault is the treasury for native value. Transfers always
// succeed; the vault tracks cumulative payouts per account so callers
// can audit what left the treasury.
type NativeVault struct {
	mu   sync.Mutex
	paid map[string]*big.Int
}

func NewNativeVault() *NativeVault {
	return &NativeVault{paid: map[string]*big.Int{}}
}

func (v *NativeVault) Transfer(_ context.Context, to string, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	to = strings.TrimSpace(to)
	bal := v.paid[to]
	if bal == nil {
		bal = new(big.Int)
		v.paid[to] = bal
	}
	bal.Add(bal, amount)
	return nil
}

// PaidTo reports the total native value transferred to an account.
func (v *NativeVault) PaidTo(account string) *big.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	bal := v.paid[strings.TrimSpace(account)]
	if bal == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(bal)
}
