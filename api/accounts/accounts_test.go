// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/api/accounts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
)

var (
	ts        *httptest.Server
	thorChain *testchain.Chain
)

func TestAccounts(t *testing.T) {
	initAccountServer(t)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"callContract":          callContract,
		"callContractBadInput":  callContractBadInput,
		"batchCall":             batchCall,
		"batchCallReverted":     batchCallReverted,
		"batchCallBadClauses":   batchCallBadClauses,
		"batchCallUnknownField": batchCallUnknownField,
	} {
		t.Run(name, tt)
	}
}

func encode(t *testing.T, method string, args ...any) string {
	m, ok := builtin.Token.ABI.MethodByName(method)
	require.True(t, ok)
	data, err := m.EncodeInput(args...)
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func balanceOf(t *testing.T, owner common.Address) *big.Int {
	res, code := httpPost(t, ts.URL+"/accounts/"+genesis.DevKNX.String(), accounts.CallData{
		Data: encode(t, "balanceOf", owner),
	})
	require.Equal(t, http.StatusOK, code, string(res))

	var result accounts.CallResult
	require.NoError(t, json.Unmarshal(res, &result))
	require.False(t, result.Reverted)

	m, _ := builtin.Token.ABI.MethodByName("balanceOf")
	var bal *big.Int
	require.NoError(t, m.DecodeOutput(hexutil.MustDecode(result.Data), &bal))
	return bal
}

func callContract(t *testing.T) {
	bal := balanceOf(t, common.Address(genesis.DevAccounts()[3]))
	assert.Equal(t, "1000000000000000000000000000", bal.String())
}

func callContractBadInput(t *testing.T) {
	_, code := httpPost(t, ts.URL+"/accounts/0xbad", accounts.CallData{Data: "0x70a08231"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/accounts/"+genesis.DevKNX.String(), accounts.CallData{Data: "0x01"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func batchCall(t *testing.T) {
	accs := genesis.DevAccounts()
	caller := accs[2]
	to := common.Address(accs[3])
	before := balanceOf(t, to)

	body := map[string]any{
		"caller": caller,
		"clauses": []any{
			map[string]any{"to": genesis.DevKNX, "data": encode(t, "transfer", to, big.NewInt(10))},
			map[string]any{"to": genesis.DevKNX, "data": encode(t, "balanceOf", to)},
		},
	}
	res, code := httpPost(t, ts.URL+"/accounts/*", body)
	require.Equal(t, http.StatusOK, code, string(res))

	var results accounts.BatchCallResults
	require.NoError(t, json.Unmarshal(res, &results))
	require.Len(t, results, 2)
	assert.Len(t, results[0].Events, 1)
	assert.Equal(t, genesis.DevKNX, results[0].Events[0].Address)

	// the second clause observes the first one
	m, _ := builtin.Token.ABI.MethodByName("balanceOf")
	var bal *big.Int
	require.NoError(t, m.DecodeOutput(hexutil.MustDecode(results[1].Data), &bal))
	assert.Equal(t, new(big.Int).Add(before, big.NewInt(10)), bal)

	// nothing committed
	assert.Equal(t, before, balanceOf(t, to))
	assert.Equal(t, uint32(0), thorChain.Runtime().Head().Number)
}

func batchCallReverted(t *testing.T) {
	tooMuch := new(big.Int).Lsh(big.NewInt(1), 100)
	body := map[string]any{
		"caller": genesis.DevAccounts()[2],
		"clauses": []any{
			map[string]any{"to": genesis.DevKNX, "data": encode(t, "transfer", common.Address(genesis.DevAccounts()[3]), tooMuch)},
		},
	}
	res, code := httpPost(t, ts.URL+"/accounts/*", body)
	require.Equal(t, http.StatusOK, code, string(res))

	var results accounts.BatchCallResults
	require.NoError(t, json.Unmarshal(res, &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Reverted)
	assert.NotEmpty(t, results[0].RevertError)
}

func batchCallBadClauses(t *testing.T) {
	for _, body := range []any{
		map[string]any{"clauses": []any{}},
		map[string]any{"clauses": []any{map[string]any{"data": "0x70a08231"}}},
		map[string]any{"clauses": []any{map[string]any{"to": genesis.DevKNX, "data": "0xzz"}}},
	} {
		res, code := httpPost(t, ts.URL+"/accounts/*", body)
		assert.Equal(t, http.StatusBadRequest, code, string(res))
	}
}

func batchCallUnknownField(t *testing.T) {
	_, code := httpPost(t, ts.URL+"/accounts/*", map[string]any{"gas": 1})
	assert.Equal(t, http.StatusBadRequest, code)
}

func initAccountServer(t *testing.T) {
	var err error
	thorChain, err = testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	router := mux.NewRouter()
	accounts.New(thorChain.Runtime()).Mount(router, "/accounts")
	ts = httptest.NewServer(router)
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
