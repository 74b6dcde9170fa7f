// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/api/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	ts        *httptest.Server
	thorChain *testchain.Chain
)

func TestVesting(t *testing.T) {
	initVestingServer(t)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getVesting":       getVesting,
		"getPosition":      getPosition,
		"getEmptyPosition": getEmptyPosition,
		"getBadAddress":    getBadAddress,
	} {
		t.Run(name, tt)
	}
}

func getVesting(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/vesting")
	require.Equal(t, http.StatusOK, code, string(res))

	var summary vesting.Summary
	require.NoError(t, json.Unmarshal(res, &summary))
	assert.Equal(t, genesis.DevXKNX, summary.DepositToken)
	assert.Equal(t, genesis.DevKNX, summary.ClaimToken)
	assert.Equal(t, 26*thor.Epoch, summary.Duration)
	assert.Equal(t, uint64(50), summary.DirectRefundRate)
	assert.Equal(t, genesis.DevAccounts()[0], summary.Governor)
	assert.Equal(t, big.NewInt(500), (*big.Int)(summary.TotalSupply))
}

// The deposit of 1000 refunds half directly and vests the other half,
// then a quarter of the duration elapses.
func getPosition(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/vesting/"+genesis.DevAccounts()[2].String())
	require.Equal(t, http.StatusOK, code, string(res))

	var pos vesting.Position
	require.NoError(t, json.Unmarshal(res, &pos))
	assert.Equal(t, big.NewInt(500), (*big.Int)(pos.Balance))
	assert.Equal(t, big.NewInt(500), (*big.Int)(pos.Vested))
	assert.Equal(t, big.NewInt(125), (*big.Int)(pos.Claimable))
	assert.Zero(t, (*big.Int)(pos.Claimed).Sign())
}

func getEmptyPosition(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/vesting/"+genesis.DevAccounts()[5].String())
	require.Equal(t, http.StatusOK, code, string(res))

	var pos vesting.Position
	require.NoError(t, json.Unmarshal(res, &pos))
	assert.Zero(t, (*big.Int)(pos.Balance).Sign())
	assert.Zero(t, (*big.Int)(pos.Claimable).Sign())
}

func getBadAddress(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/vesting/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)
}

func initVestingServer(t *testing.T) {
	var err error
	thorChain, err = testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	owner := genesis.DevAccounts()[2]
	amount := big.NewInt(1000)
	_, err = thorChain.MintFromABI(owner, genesis.DevXKNX, builtin.Token.ABI, "approve", common.Address(builtin.Vesting.Address), amount)
	require.NoError(t, err)
	_, err = thorChain.MintFromABI(owner, builtin.Vesting.Address, builtin.Vesting.ABI, "deposit", amount)
	require.NoError(t, err)

	// the head block carries the new time
	thorChain.Advance(26 * thor.Epoch / 4)
	_, err = thorChain.MintFromABI(owner, genesis.DevKNX, builtin.Token.ABI, "transfer", common.Address(genesis.DevAccounts()[3]), big.NewInt(1))
	require.NoError(t, err)

	router := mux.NewRouter()
	vesting.New(thorChain.Runtime()).Mount(router, "/vesting")
	ts = httptest.NewServer(router)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
