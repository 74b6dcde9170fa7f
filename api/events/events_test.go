// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
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

	"github.com/kinetixfi/kinetix-tokenomics/api/events"
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/test/testchain"
)

const defaultLogLimit uint64 = 5

var ts *httptest.Server

func TestEvents(t *testing.T) {
	thorChain := initEventServer(t)
	defer ts.Close()

	accs := genesis.DevAccounts()
	knx := testchain.NewContract(thorChain, accs[2], genesis.DevKNX, builtin.Token.ABI)
	for range 3 {
		_, err := knx.MintTransaction("transfer", common.Address(accs[3]), big.NewInt(1))
		require.NoError(t, err)
	}

	transferEvent, ok := builtin.Token.ABI.EventByName("Transfer")
	require.True(t, ok)
	topic0 := transferEvent.ID()
	from := uint64(1)

	for name, tt := range map[string]func(*testing.T){
		"filterTransfers": func(t *testing.T) {
			filter := map[string]any{
				"criteriaSet": []any{map[string]any{"address": genesis.DevKNX, "topic0": topic0}},
				"range":       map[string]any{"unit": "block", "from": from},
				"options":     map[string]any{"includeIndexes": true},
			}
			res, code := httpPost(t, ts.URL+"/logs/event", filter)
			require.Equal(t, http.StatusOK, code, string(res))

			var fes []*types.FilteredEvent
			require.NoError(t, json.Unmarshal(res, &fes))
			require.Len(t, fes, 3)
			for i, fe := range fes {
				assert.Equal(t, genesis.DevKNX, fe.Address)
				assert.Equal(t, uint32(i+1), fe.Meta.BlockNumber)
				assert.Equal(t, accs[2], fe.Meta.TxOrigin)
				require.NotNil(t, fe.Meta.LogIndex)
				assert.Equal(t, topic0, *fe.Topics[0])
			}
		},
		"descOrder": func(t *testing.T) {
			filter := map[string]any{
				"range": map[string]any{"from": from},
				"order": "desc",
			}
			res, code := httpPost(t, ts.URL+"/logs/event", filter)
			require.Equal(t, http.StatusOK, code, string(res))

			var fes []*types.FilteredEvent
			require.NoError(t, json.Unmarshal(res, &fes))
			require.Len(t, fes, 3)
			assert.Equal(t, uint32(3), fes[0].Meta.BlockNumber)
			assert.Nil(t, fes[0].Meta.LogIndex)
		},
		"exceedLimit": func(t *testing.T) {
			filter := map[string]any{"options": map[string]any{"limit": defaultLogLimit + 1}}
			_, code := httpPost(t, ts.URL+"/logs/event", filter)
			assert.Equal(t, http.StatusForbidden, code)
		},
		"tooManyResults": func(t *testing.T) {
			// genesis alone emits more events than the limit
			_, code := httpPost(t, ts.URL+"/logs/event", map[string]any{})
			assert.Equal(t, http.StatusForbidden, code)
		},
		"badRange": func(t *testing.T) {
			filter := map[string]any{"range": map[string]any{"from": 3, "to": 1}}
			_, code := httpPost(t, ts.URL+"/logs/event", filter)
			assert.Equal(t, http.StatusBadRequest, code)

			filter = map[string]any{"range": map[string]any{"unit": "epoch"}}
			_, code = httpPost(t, ts.URL+"/logs/event", filter)
			assert.Equal(t, http.StatusBadRequest, code)
		},
		"nullCriteria": func(t *testing.T) {
			_, code := httpPost(t, ts.URL+"/logs/event", map[string]any{"criteriaSet": []any{nil}})
			assert.Equal(t, http.StatusBadRequest, code)
		},
		"unknownField": func(t *testing.T) {
			_, code := httpPost(t, ts.URL+"/logs/event", map[string]any{"foo": 1})
			assert.Equal(t, http.StatusBadRequest, code)
		},
	} {
		t.Run(name, tt)
	}
}

func initEventServer(t *testing.T) *testchain.Chain {
	thorChain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(thorChain.Close)

	router := mux.NewRouter()
	events.New(thorChain.LogDB(), defaultLogLimit).Mount(router, "/logs/event")
	ts = httptest.NewServer(router)
	return thorChain
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
