// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/api/transactions"
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	ts        *httptest.Server
	thorChain *testchain.Chain
)

func TestTransactions(t *testing.T) {
	initTransactionServer(t, true)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"sendTransaction":          sendTransaction,
		"sendRevertingTransaction": sendRevertingTransaction,
		"sendKnownTransaction":     sendKnownTransaction,
		"sendBadTransaction":       sendBadTransaction,
		"getReceiptWithBadID":      getReceiptWithBadID,
		"getReceiptOfUnknownTx":    getReceiptOfUnknownTx,
	} {
		t.Run(name, tt)
	}
}

func TestSendDisabled(t *testing.T) {
	initTransactionServer(t, false)
	defer ts.Close()

	_, code := httpPost(t, ts.URL+"/transactions", transferBody(1, 1))
	assert.Equal(t, http.StatusForbidden, code)
}

func transferBody(nonce uint64, amount int64) map[string]any {
	method, _ := builtin.Token.ABI.MethodByName("transfer")
	data, err := method.EncodeInput(common.Address(genesis.DevAccounts()[3]), big.NewInt(amount))
	if err != nil {
		panic(err)
	}
	return map[string]any{
		"origin": genesis.DevAccounts()[2],
		"nonce":  nonce,
		"clauses": []any{
			map[string]any{"to": genesis.DevKNX, "data": hexutil.Encode(data)},
		},
	}
}

func sendTx(t *testing.T, body any) thor.Bytes32 {
	res, code := httpPost(t, ts.URL+"/transactions", body)
	require.Equal(t, http.StatusOK, code, string(res))
	var result transactions.SendTxResult
	require.NoError(t, json.Unmarshal(res, &result))
	return result.ID
}

func getReceipt(t *testing.T, id string) *types.Receipt {
	res, code := httpGet(t, ts.URL+"/transactions/"+id+"/receipt")
	require.Equal(t, http.StatusOK, code, string(res))
	var receipt *types.Receipt
	require.NoError(t, json.Unmarshal(res, &receipt))
	return receipt
}

func sendTransaction(t *testing.T) {
	id := sendTx(t, transferBody(10, 5))

	receipt := getReceipt(t, id.String())
	require.NotNil(t, receipt)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, id, receipt.Meta.TxID)
	assert.Equal(t, genesis.DevAccounts()[2], receipt.Meta.TxOrigin)
	assert.Equal(t, thorChain.Runtime().Head().StateRoot, receipt.StateRoot)
	require.Len(t, receipt.Outputs, 1)
	require.Len(t, receipt.Outputs[0].Events, 1)
	assert.Equal(t, genesis.DevKNX, receipt.Outputs[0].Events[0].Address)
}

func sendRevertingTransaction(t *testing.T) {
	tooMuch := new(big.Int).Lsh(big.NewInt(1), 100)
	body := transferBody(11, 0)
	method, _ := builtin.Token.ABI.MethodByName("transfer")
	data, err := method.EncodeInput(common.Address(genesis.DevAccounts()[3]), tooMuch)
	require.NoError(t, err)
	body["clauses"] = []any{map[string]any{"to": genesis.DevKNX, "data": hexutil.Encode(data)}}

	id := sendTx(t, body)
	receipt := getReceipt(t, id.String())
	require.NotNil(t, receipt)
	assert.True(t, receipt.Reverted)
	assert.NotEmpty(t, receipt.RevertReason)
	assert.Empty(t, receipt.Outputs)
}

func sendKnownTransaction(t *testing.T) {
	body := transferBody(12, 1)
	sendTx(t, body)

	_, code := httpPost(t, ts.URL+"/transactions", body)
	assert.Equal(t, http.StatusForbidden, code)
}

func sendBadTransaction(t *testing.T) {
	noClauses := transferBody(13, 1)
	noClauses["clauses"] = []any{}

	noOrigin := transferBody(14, 1)
	delete(noOrigin, "origin")

	badData := transferBody(15, 1)
	badData["clauses"] = []any{map[string]any{"to": genesis.DevKNX, "data": "0xzz"}}

	for _, body := range []any{noClauses, noOrigin, badData, map[string]any{"unknown": 1}} {
		res, code := httpPost(t, ts.URL+"/transactions", body)
		assert.Equal(t, http.StatusBadRequest, code, string(res))
	}
}

func getReceiptWithBadID(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/transactions/0x01/receipt")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(res), "id")
}

func getReceiptOfUnknownTx(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/transactions/"+thor.Blake2b([]byte("unknown")).String()+"/receipt")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", strings.TrimSpace(string(res)))
}

func initTransactionServer(t *testing.T, enableSend bool) {
	var err error
	thorChain, err = testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	router := mux.NewRouter()
	transactions.New(thorChain.Runtime(), enableSend).Mount(router, "/transactions")
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

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
