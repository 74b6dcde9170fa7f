// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/kinetixfi/kinetix-tokenomics/cache"
	"github.com/kinetixfi/kinetix-tokenomics/kv"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Stage abstracts the slot changes made on a state.
type Stage struct {
	changes map[storageKey]rlp.RawValue
	cache   *cache.LRU[storageKey, rlp.RawValue]
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() []storageKey {
	keys := make([]storageKey, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b storageKey) int {
		return bytes.Compare(a.bytes(), b.bytes())
	})
	return keys
}

// Hash computes a digest of the change set, chained onto parent.
func (s *Stage) Hash(parent thor.Bytes32) thor.Bytes32 {
	keys := s.sortedKeys()
	return thor.Blake2bFn(func(w io.Writer) {
		w.Write(parent[:])
		for _, k := range keys {
			w.Write(k.bytes())
			w.Write(thor.Blake2b(s.changes[k]).Bytes())
		}
	})
}

// Commit writes all changes into the given putter.
// The shared slot cache is updated afterwards.
func (s *Stage) Commit(putter kv.Putter) error {
	bucket := StorageBucket.NewPutter(putter)
	for _, k := range s.sortedKeys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bucket.Delete(k.bytes())
		} else {
			err = bucket.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if s.cache != nil {
		for k, v := range s.changes {
			s.cache.Add(k, v)
		}
	}
	metricStorageCounter().AddWithLabel(int64(len(s.changes)), map[string]string{"type": "write"})
	return nil
}
