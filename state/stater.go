// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/kinetixfi/kinetix-tokenomics/cache"
	"github.com/kinetixfi/kinetix-tokenomics/kv"
)

const slotCacheSize = 16384

// Stater is the state creator.
type Stater struct {
	db    kv.Getter
	cache *cache.LRU[storageKey, rlp.RawValue]
}

// NewStater create a new stater.
func NewStater(db kv.Getter) *Stater {
	c, _ := cache.NewLRU[storageKey, rlp.RawValue](slotCacheSize)
	return &Stater{db, c}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return New(s.db, s.cache)
}

// CacheStats returns hit/miss statistics of the slot cache.
func (s *Stater) CacheStats() *cache.Stats {
	return s.cache.Stats()
}
