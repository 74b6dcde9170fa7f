// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/logdb"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
)

func initLogger(ctx *cli.Context) {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(newLogHandler(os.Stdout, lvl, ctx.Bool(jsonLogsFlag.Name))))
}

func newLogHandler(wr io.Writer, lvl *slog.LevelVar, jsonLogs bool) slog.Handler {
	if jsonLogs {
		return log.JSONHandlerWithLevel(wr, lvl)
	}
	useColor := false
	if f, ok := wr.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return log.NewTerminalHandlerWithLevel(wr, lvl, useColor)
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	name := ctx.String(genesisFlag.Name)
	if name == "" || name == "devnet" {
		return genesis.NewDevnet(), nil
	}
	data, err := os.ReadFile(filepath.Clean(name))
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	cfg, err := genesis.ParseCustomGenesis(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	gene, err := genesis.NewCustomNet(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	return gene, nil
}

type databases struct {
	dir   string
	main  *lvldb.LevelDB
	logs  *logdb.LogDB
	close []func()
}

// logDB returns nil when logs are skipped, the runtime then writes no logs.
func (d *databases) logDB() *logdb.LogDB {
	return d.logs
}

func (d *databases) Close() {
	for i := len(d.close) - 1; i >= 0; i-- {
		d.close[i]()
	}
}

func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*databases, error) {
	dbs := &databases{dir: "Memory"}
	skipLogs := ctx.Bool(skipLogsFlag.Name)

	if ctx.Bool(memoryFlag.Name) {
		main, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open state database")
		}
		dbs.main = main
		dbs.close = append(dbs.close, func() { log.Info("closing state database..."); main.Close() })
		if !skipLogs {
			logs, err := logdb.NewMem()
			if err != nil {
				dbs.Close()
				return nil, errors.Wrap(err, "open log database")
			}
			dbs.logs = logs
			dbs.close = append(dbs.close, func() { log.Info("closing log database..."); logs.Close() })
		}
		return dbs, nil
	}

	dir, err := makeInstanceDir(ctx.String(dataDirFlag.Name), gene)
	if err != nil {
		return nil, err
	}
	dbs.dir = dir

	main, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              ctx.Int(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	dbs.main = main
	dbs.close = append(dbs.close, func() { log.Info("closing state database..."); main.Close() })

	if !skipLogs {
		logs, err := logdb.New(filepath.Join(dir, "logs.db"))
		if err != nil {
			dbs.Close()
			return nil, errors.Wrap(err, "open log database")
		}
		dbs.logs = logs
		dbs.close = append(dbs.close, func() { log.Info("closing log database..."); logs.Close() })
	}
	return dbs, nil
}

// makeInstanceDir separates the databases of different networks sharing one data dir.
func makeInstanceDir(dataDir string, gene *genesis.Genesis) (string, error) {
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	dir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", dir)
	}
	return dir, nil
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".kinetix")
	}
	return ""
}

func listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen [%v]", addr)
	}
	return listener, nil
}

func printStartupMessage(gene *genesis.Genesis, rt *runtime.Runtime, dataDir string, servers []*namedServer) {
	head := rt.Head()
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head block   [ %v #%v @%v ]
    Instance dir [ %v ]
`,
		"Kinetix "+fullVersion(),
		gene.ID(), gene.Name(),
		head.ID, head.Number, time.Unix(int64(head.Time), 0).UTC(), //#nosec G115
		dataDir)
	for _, s := range servers {
		fmt.Printf("    %-12s [ %v ]\n", s.name, s.addr)
	}
}
