// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Summary is the summary of the vote controller.
type Summary struct {
	Governor         thor.Address          `json:"governor"`
	EmergencyCouncil thor.Address          `json:"emergencyCouncil"`
	TotalWeight      *math.HexOrDecimal256 `json:"totalWeight"`
	EpochStart       uint64                `json:"epochStart"`
	NextEpoch        uint64                `json:"nextEpoch"`
	PoolCount        uint64                `json:"poolCount"`
	Whitelist        []thor.Address        `json:"whitelist"`
}

type Pool struct {
	Address thor.Address          `json:"address"`
	Kind    string                `json:"kind"`
	Active  bool                  `json:"active"`
	Ledger  thor.Address          `json:"ledger"`
	Weight  *math.HexOrDecimal256 `json:"weight"`
}

// PoolDetail adds the state of the pool's reward ledger.
type PoolDetail struct {
	Pool
	RewardTokens []thor.Address        `json:"rewardTokens"`
	LedgerSupply *math.HexOrDecimal256 `json:"ledgerSupply"`
}

type Vote struct {
	Pool   thor.Address          `json:"pool"`
	Weight *math.HexOrDecimal256 `json:"weight"`
}

// Reward is what a voting token has earned on a ledger and not claimed yet.
type Reward struct {
	Ledger thor.Address          `json:"ledger"`
	Token  thor.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Token is a voting-power token and its current allocation.
type Token struct {
	ID          uint64                `json:"id"`
	Owner       thor.Address          `json:"owner"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	End         uint64                `json:"end"`
	VotingPower *math.HexOrDecimal256 `json:"votingPower"`
	Voted       bool                  `json:"voted"`
	UsedWeight  *math.HexOrDecimal256 `json:"usedWeight"`
	LastVoted   uint64                `json:"lastVoted"`
	Votes       []*Vote               `json:"votes"`
	Rewards     []*Reward             `json:"rewards"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}
