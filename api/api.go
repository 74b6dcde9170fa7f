// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/kinetixfi/kinetix-tokenomics/api/accounts"
	"github.com/kinetixfi/kinetix-tokenomics/api/events"
	"github.com/kinetixfi/kinetix-tokenomics/api/subscriptions"
	"github.com/kinetixfi/kinetix-tokenomics/api/tokens"
	"github.com/kinetixfi/kinetix-tokenomics/api/transactions"
	"github.com/kinetixfi/kinetix-tokenomics/api/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/api/voter"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint32
	SkipLogs        bool
	EnableReqLogger bool
	EnableMetrics   bool
	LogsLimit       uint64
	// SoloMode accepts transactions over http.
	SoloMode bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	if !opts.SkipLogs && rt.LogDB() != nil {
		events.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	transactions.New(rt, opts.SoloMode).
		Mount(router, "/transactions")
	tokens.New(rt).
		Mount(router, "/tokens")
	voter.New(rt).
		Mount(router, "/voter")
	vesting.New(rt).
		Mount(router, "/vesting")
	subs := subscriptions.New(rt, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	genesisID := rt.GenesisID().String()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			next.ServeHTTP(w, req)
		})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
