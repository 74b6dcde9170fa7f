// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Dev token addresses.
var (
	DevKNX  = thor.BytesToAddress([]byte("KNX"))
	DevXKNX = thor.BytesToAddress([]byte("xKNX"))
	DevUSDC = thor.BytesToAddress([]byte("USDC"))
)

var devAccounts = func() []thor.Address {
	accs := make([]thor.Address, 0, 10)
	for i := range 10 {
		accs = append(accs, thor.BytesToAddress(thor.Blake2b(fmt.Appendf(nil, "kinetix-dev-%d", i)).Bytes()))
	}
	return accs
}()

// DevAccounts returns pre-alloced accounts for solo mode.
// The first account is the governor, the second the emergency council.
func DevAccounts() []thor.Address {
	return append([]thor.Address(nil), devAccounts...)
}

// DevConfig returns the genesis configuration of the dev network.
func DevConfig() *CustomGenesis {
	launchTime := 100 * thor.Epoch

	bal, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	balances := make([]Balance, 0, len(devAccounts))
	for _, a := range devAccounts {
		balances = append(balances, Balance{Owner: a, Amount: NewAmount(bal)})
	}

	governor := devAccounts[0]
	return &CustomGenesis{
		LaunchTime:       launchTime,
		Governor:         governor,
		EmergencyCouncil: devAccounts[1],
		Tokens: []Token{
			{Address: DevKNX, Name: "Kinetix", Symbol: "KNX", Minter: governor, Balances: balances},
			{Address: DevXKNX, Name: "Escrowed Kinetix", Symbol: "xKNX", Minter: governor, Balances: balances},
			{Address: DevUSDC, Name: "USD Coin", Symbol: "USDC", Minter: governor, Balances: balances},
		},
		Escrow: Escrow{Token: DevKNX},
		Vesting: &Vesting{
			DepositToken:     DevXKNX,
			ClaimToken:       DevKNX,
			Duration:         26 * thor.Epoch,
			DirectRefundRate: 50,
			Reserve:          NewAmount(bal),
		},
		Voter: Voter{
			Whitelist:  []thor.Address{DevUSDC},
			FeeAmounts: []uint32{500, 3000},
			Pairs:      []Pair{{TokenA: DevKNX, TokenB: DevUSDC}},
			Pools:      []Pool{{TokenA: DevKNX, TokenB: DevXKNX, Fee: 3000}},
		},
	}
}

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	gen, err := NewCustomNet(DevConfig())
	if err != nil {
		panic(err)
	}
	gen.name = "devnet"
	return gen
}
