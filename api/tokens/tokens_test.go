// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/api/tokens"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var ts *httptest.Server

func TestTokens(t *testing.T) {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer thorChain.Close()

	router := mux.NewRouter()
	tokens.New(thorChain.Runtime()).Mount(router, "/tokens")
	ts = httptest.NewServer(router)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getToken":        getToken,
		"getBalance":      getBalance,
		"getUnknownToken": getUnknownToken,
		"getBadAddress":   getBadAddress,
	} {
		t.Run(name, tt)
	}
}

func getToken(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/tokens/"+genesis.DevUSDC.String())
	require.Equal(t, http.StatusOK, code, string(res))

	var tok tokens.Token
	require.NoError(t, json.Unmarshal(res, &tok))
	assert.Equal(t, genesis.DevUSDC, tok.Address)
	assert.Equal(t, uint8(18), tok.Decimals)
	assert.NotEmpty(t, tok.Symbol)
	assert.Positive(t, (*big.Int)(tok.TotalSupply).Sign())
}

func getBalance(t *testing.T) {
	owner := genesis.DevAccounts()[4]
	res, code := httpGet(t, ts.URL+"/tokens/"+genesis.DevKNX.String()+"/balances/"+owner.String())
	require.Equal(t, http.StatusOK, code, string(res))

	var bal tokens.Balance
	require.NoError(t, json.Unmarshal(res, &bal))
	assert.Equal(t, owner, bal.Owner)
	assert.Equal(t, "1000000000000000000000000000", (*big.Int)(bal.Balance).String())
}

func getUnknownToken(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/tokens/"+thor.BytesToAddress([]byte("nowhere")).String())
	assert.Equal(t, http.StatusNotFound, code)
}

func getBadAddress(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/tokens/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/tokens/"+genesis.DevKNX.String()+"/balances/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
