// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State, env *xenv.Environment) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller thor.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process. Events logged to env become genesis events.
func (b *Builder) State(proc func(state *state.State, env *xenv.Environment) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a builtin contract call, executed after all state processes.
func (b *Builder) Call(clause *tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()

	st := state.NewStater(db).NewState()
	if _, err := b.Build(st); err != nil {
		return thor.Bytes32{}, err
	}
	return thor.NewBlockID(thor.GenesisParentID, b.timestamp, st.Stage().Hash(thor.Bytes32{})), nil
}

// Build applies presets to the given empty state and returns the emitted events.
func (b *Builder) Build(st *state.State) (events tx.Events, err error) {
	blockCtx := &xenv.BlockContext{Time: b.timestamp}

	env := xenv.New(nil, st, blockCtx, &xenv.TransactionContext{}, thor.Address{}, thor.Address{}, nil)
	for _, proc := range b.stateProcs {
		if err := proc(st, env); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	events = append(events, env.Events()...)

	for i, c := range b.calls {
		nc, err := builtin.HandleNativeCall(st, c.clause.To(), c.clause.Data())
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}
		env := xenv.New(nc.Method(), st, blockCtx, &xenv.TransactionContext{Origin: c.caller}, c.caller, c.clause.To(), c.clause.Data())
		if _, err := nc.Run(env, false); err != nil {
			return nil, errors.Wrapf(err, "call %d: %s", i, nc.Method().Name())
		}
		events = append(events, env.Events()...)
	}
	return events, nil
}
