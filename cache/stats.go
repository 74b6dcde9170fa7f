// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	lastRate  atomic.Int64
}

// Hit records a hit and returns the hits so far.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss and returns the misses so far.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Counts returns the hits and misses so far.
func (cs *Stats) Counts() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// HitRate returns the hit rate in permille and whether it moved since the previous call.
// The rate of a cache never looked up is zero.
func (cs *Stats) HitRate() (bool, int64) {
	hit, miss := cs.Counts()
	var rate int64
	if lookups := hit + miss; lookups > 0 {
		rate = hit * 1000 / lookups
	}
	return cs.lastRate.Swap(rate) != rate, rate
}
