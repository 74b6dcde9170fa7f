// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"
	"sync/atomic"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/kv"
	"github.com/kinetixfi/kinetix-tokenomics/logdb"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// Chain is an in-memory runtime over the development genesis, driven by a
// manual clock.
type Chain struct {
	db      kv.StoreCloser
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	rt      *runtime.Runtime
	now     atomic.Uint64
}

// NewDefault creates a Chain from the development genesis.
func NewDefault() (*Chain, error) {
	return NewWithGenesis(genesis.NewDevnet())
}

// NewWithGenesis creates a Chain from the given genesis, with the clock set
// one second after launch.
func NewWithGenesis(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &Chain{db: db, logDB: logDB, genesis: gene}
	c.now.Store(gene.Timestamp() + 1)

	rt, err := runtime.New(db, logDB, gene, c.Now)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("unable to create runtime: %w", err)
	}
	c.rt = rt
	return c, nil
}

// Now returns the manual clock.
func (c *Chain) Now() uint64 {
	return c.now.Load()
}

// Advance moves the clock forward.
func (c *Chain) Advance(seconds uint64) {
	c.now.Add(seconds)
}

// AdvanceEpochs moves the clock to the start of the n-th next epoch.
func (c *Chain) AdvanceEpochs(n uint64) {
	c.now.Store(thor.EpochStart(c.Now()) + n*thor.Epoch)
}

func (c *Chain) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Chain) Runtime() *runtime.Runtime {
	return c.rt
}

func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

// Close releases the runtime and both databases.
func (c *Chain) Close() {
	if c.rt != nil {
		c.rt.Close()
	}
	c.logDB.Close()
	c.db.Close()
}

// MintClauses executes the clauses from origin in a new block.
// A reverted transaction is reported as an error.
func (c *Chain) MintClauses(origin thor.Address, clauses []*tx.Clause) (*tx.Receipt, error) {
	builder := tx.NewBuilder().
		Origin(origin).
		Nonce(datagen.RandUint64())
	for _, clause := range clauses {
		builder.Clause(clause)
	}

	receipt, err := c.rt.Execute(builder.Build())
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, fmt.Errorf("tx reverted: %s", receipt.RevertReason)
	}
	return receipt, nil
}

// MintFromABI executes a single clause built from the ABI method and args.
func (c *Chain) MintFromABI(origin, addr thor.Address, abi *abi.ABI, method string, args ...any) (*tx.Receipt, error) {
	clause, err := BuildClause(addr, abi, method, args...)
	if err != nil {
		return nil, err
	}
	return c.MintClauses(origin, []*tx.Clause{clause})
}

// BuildClause encodes a call of the ABI method to addr.
func BuildClause(addr thor.Address, abi *abi.ABI, method string, args ...any) (*tx.Clause, error) {
	m, ok := abi.MethodByName(method)
	if !ok {
		return nil, fmt.Errorf("unable to find method %s in ABI", method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, fmt.Errorf("unable to encode method %s input: %w", method, err)
	}
	return tx.NewClause(addr).WithData(data), nil
}
