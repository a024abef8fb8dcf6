package domain

import "time"

// NFTItem is one minted item of the nexus collection. Token ids are
// sequential from 1 and never reused.
type NFTItem struct {
	TokenID  uint64
	Owner    string
	TokenURI string
	MintedAt time.Time
}
