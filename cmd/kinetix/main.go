// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/kinetixfi/kinetix-tokenomics/api"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/metrics"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

const shutdownTimeout = 5 * time.Second

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Kinetix"
	app.Usage = "Node of the Kinetix vote-escrow tokenomics"
	app.Flags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		memoryFlag,
		cacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiBacktraceLimitFlag,
		apiLogsLimitFlag,
		enableAPILogsFlag,
		skipLogsFlag,
		soloFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Action = action
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func action(ctx *cli.Context) error {
	initLogger(ctx)
	defer func() { log.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	dbs, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer dbs.Close()

	rt, err := runtime.New(dbs.main, dbs.logDB(), gene, func() uint64 {
		return uint64(time.Now().Unix())
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		SoloMode:        ctx.Bool(soloFlag.Name),
	})
	defer closeSubs()

	servers := []*namedServer{
		{"API", ctx.String(apiAddrFlag.Name), &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}},
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		servers = append(servers, &namedServer{
			"metrics", ctx.String(metricsAddrFlag.Name),
			&http.Server{Handler: metrics.HTTPHandler(), ReadHeaderTimeout: time.Second},
		})
	}

	printStartupMessage(gene, rt, dbs.dir, servers)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sigCtx, servers)
}

type namedServer struct {
	name string
	addr string
	srv  *http.Server
}

// serve runs the servers until ctx is done or one of them fails, then shuts all of them down.
func serve(ctx context.Context, servers []*namedServer) error {
	listeners := make([]net.Listener, 0, len(servers))
	for _, s := range servers {
		listener, err := listen(s.addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return err
		}
		listeners = append(listeners, listener)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range servers {
		listener := listeners[i]
		log.Info("server started", "name", s.name, "addr", listener.Addr())
		g.Go(func() error {
			if err := s.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, s := range servers {
			log.Info("stopping server...", "name", s.name)
			if err := s.srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to stop server", "name", s.name, "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}
