// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Summary struct {
	DepositToken     thor.Address          `json:"depositToken"`
	ClaimToken       thor.Address          `json:"claimToken"`
	Duration         uint64                `json:"duration"`
	DirectRefundRate uint64                `json:"directRefundRate"`
	Governor         thor.Address          `json:"governor"`
	TotalSupply      *math.HexOrDecimal256 `json:"totalSupply"`
}

// Position is the vesting state of an account as of the head block.
type Position struct {
	Address             thor.Address          `json:"address"`
	Balance             *math.HexOrDecimal256 `json:"balance"`
	CumulativeClaimable *math.HexOrDecimal256 `json:"cumulativeClaimable"`
	Claimed             *math.HexOrDecimal256 `json:"claimed"`
	LastUpdate          uint64                `json:"lastUpdate"`
	Vested              *math.HexOrDecimal256 `json:"vested"`
	Claimable           *math.HexOrDecimal256 `json:"claimable"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}
