// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Token struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	Minter      thor.Address          `json:"minter"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Token   thor.Address          `json:"token"`
	Owner   thor.Address          `json:"owner"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}
