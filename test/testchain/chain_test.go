// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

func Test_ChainDefault(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	accs := genesis.DevAccounts()
	knx := NewContract(chain, accs[2], genesis.DevKNX, builtin.Token.ABI)

	for range 10 {
		_, err := knx.MintTransaction("transfer", common.Address(accs[3]), big.NewInt(1))
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(10), chain.Runtime().Head().Number)

	var bal *big.Int
	require.NoError(t, knx.Attach(accs[3]).CallInto("balanceOf", &bal, common.Address(accs[3])))
	assert.Equal(t, "1000000000000000000000000010", bal.String())

	_, err = knx.MintTransaction("transfer", common.Address(thor.Address{}), big.NewInt(1))
	assert.Error(t, err)
}

func Test_AdvanceEpochs(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	start := thor.EpochStart(chain.Now())
	chain.AdvanceEpochs(2)
	assert.Equal(t, start+2*thor.Epoch, chain.Now())
}
