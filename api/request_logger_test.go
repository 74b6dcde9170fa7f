// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/log"
)

func TestRequestLoggerHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(log.JSONHandler(&buf))

	var received string
	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		w.WriteHeader(http.StatusAccepted)
	}), logger)

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(`{"origin":"0x1"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, `{"origin":"0x1"}`, received, "handler should still read the body")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "API Request", record["msg"])
	assert.Equal(t, "/transactions", record["URI"])
	assert.Equal(t, http.MethodPost, record["Method"])
	assert.Equal(t, `{"origin":"0x1"}`, record["Body"])
	assert.Equal(t, float64(http.StatusAccepted), record["Status"])
}
