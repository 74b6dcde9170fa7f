// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the protocol.
const (
	Epoch uint64 = 7 * 24 * 3600 // length of a voting epoch in seconds.

	MaxLockDuration uint64 = 4 * 365 * 24 * 3600 // upper bound of an escrow lock.

	MaxDirectRefundRate uint64 = 99 // percent of a vesting deposit that may be refunded at once.
)

// RewardPrecision scales reward-per-token accumulators.
var RewardPrecision = big.NewInt(1e18)

// EpochStart returns the start of the epoch containing t.
func EpochStart(t uint64) uint64 {
	return t / Epoch * Epoch
}
