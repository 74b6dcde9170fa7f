// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter_test

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

	"github.com/kinetixfi/kinetix-tokenomics/api/voter"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	ts        *httptest.Server
	thorChain *testchain.Chain
	pair      thor.Address
)

func TestVoter(t *testing.T) {
	initVoterServer(t)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getVoter":        getVoter,
		"getPools":        getPools,
		"getPool":         getPool,
		"getPoolNotFound": getPoolNotFound,
		"getToken":        getToken,
		"getTokenUnknown": getTokenUnknown,
	} {
		t.Run(name, tt)
	}
}

func getVoter(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/voter")
	require.Equal(t, http.StatusOK, code, string(res))

	var summary voter.Summary
	require.NoError(t, json.Unmarshal(res, &summary))
	accs := genesis.DevAccounts()
	assert.Equal(t, accs[0], summary.Governor)
	assert.Equal(t, accs[1], summary.EmergencyCouncil)
	assert.Equal(t, uint64(2), summary.PoolCount)
	assert.Equal(t, thor.EpochStart(thorChain.Now()), summary.EpochStart)
	assert.Equal(t, summary.EpochStart+thor.Epoch, summary.NextEpoch)
	assert.Contains(t, summary.Whitelist, genesis.DevUSDC)
	assert.Positive(t, (*big.Int)(summary.TotalWeight).Sign())
}

func getPools(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/voter/pools")
	require.Equal(t, http.StatusOK, code, string(res))

	var pools []*voter.Pool
	require.NoError(t, json.Unmarshal(res, &pools))
	require.Len(t, pools, 2)

	kinds := make([]string, 0, len(pools))
	for _, p := range pools {
		assert.True(t, p.Active)
		assert.False(t, p.Ledger.IsZero())
		kinds = append(kinds, p.Kind)
	}
	assert.ElementsMatch(t, []string{"pair", "concentrated"}, kinds)
}

func getPool(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/voter/pools/"+pair.String())
	require.Equal(t, http.StatusOK, code, string(res))

	var detail voter.PoolDetail
	require.NoError(t, json.Unmarshal(res, &detail))
	assert.Equal(t, pair, detail.Address)
	assert.Equal(t, "pair", detail.Kind)
	assert.ElementsMatch(t, []thor.Address{genesis.DevKNX, genesis.DevUSDC}, detail.RewardTokens)
	assert.Equal(t, (*big.Int)(detail.Weight), (*big.Int)(detail.LedgerSupply))
}

func getPoolNotFound(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/voter/pools/"+thor.BytesToAddress([]byte("nowhere")).String())
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/voter/pools/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)
}

func getToken(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/voter/tokens/1")
	require.Equal(t, http.StatusOK, code, string(res))

	var token voter.Token
	require.NoError(t, json.Unmarshal(res, &token))
	assert.Equal(t, uint64(1), token.ID)
	assert.Equal(t, genesis.DevAccounts()[2], token.Owner)
	assert.Equal(t, big.NewInt(1e18), (*big.Int)(token.Amount))
	assert.True(t, token.Voted)
	assert.Equal(t, thorChain.Now(), token.LastVoted)
	assert.Equal(t, (*big.Int)(token.VotingPower), (*big.Int)(token.UsedWeight))
	require.Len(t, token.Votes, 1)
	assert.Equal(t, pair, token.Votes[0].Pool)
	assert.Equal(t, (*big.Int)(token.UsedWeight), (*big.Int)(token.Votes[0].Weight))
	assert.Empty(t, token.Rewards)
}

func getTokenUnknown(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/voter/tokens/99")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/voter/tokens/abc")
	assert.Equal(t, http.StatusBadRequest, code)
}

func initVoterServer(t *testing.T) {
	var err error
	thorChain, err = testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	owner := genesis.DevAccounts()[2]
	amount := big.NewInt(1e18)

	_, err = thorChain.MintFromABI(owner, genesis.DevKNX, builtin.Token.ABI, "approve", common.Address(builtin.Escrow.Address), amount)
	require.NoError(t, err)
	_, err = thorChain.MintFromABI(owner, builtin.Escrow.Address, builtin.Escrow.ABI, "createLock", amount, new(big.Int).SetUint64(thor.MaxLockDuration))
	require.NoError(t, err)

	var pairAddr common.Address
	require.NoError(t, testchain.NewContract(thorChain, owner, builtin.PairFactory.Address, builtin.PairFactory.ABI).
		CallInto("getPair", &pairAddr, common.Address(genesis.DevKNX), common.Address(genesis.DevUSDC)))
	pair = thor.Address(pairAddr)

	_, err = thorChain.MintFromABI(owner, builtin.Voter.Address, builtin.Voter.ABI, "vote",
		big.NewInt(1), []common.Address{pairAddr}, []*big.Int{big.NewInt(1)})
	require.NoError(t, err)

	router := mux.NewRouter()
	voter.New(thorChain.Runtime()).Mount(router, "/voter")
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
