// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          thor.Bytes32
	Origin      thor.Address
	ClauseIndex uint32
}

type callError struct {
	cause error
}

func (e *callError) Error() string {
	return e.cause.Error()
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	caller   thor.Address
	to       thor.Address
	input    []byte
	events   *tx.Events
}

// New create a new env.
// Method and input may be nil when the env only serves reads.
func New(
	method *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	caller thor.Address,
	to thor.Address,
	input []byte,
) *Environment {
	return &Environment{
		abi:      method,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   caller,
		to:       to,
		input:    input,
		events:   &tx.Events{},
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.caller }
func (env *Environment) To() thor.Address                        { return env.to }

// Now returns the block time.
func (env *Environment) Now() uint64 {
	if env.blockCtx == nil {
		return 0
	}
	return env.blockCtx.Time
}

// Events returns events logged so far, including those of nested calls.
func (env *Environment) Events() tx.Events {
	return *env.events
}

// ParseArgs decodes call input into val.
func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.input, val); err != nil {
		panic(&callError{errors.WithMessage(err, "decode native input")})
	}
}

// Log appends an event log emitted by address.
func (env *Environment) Log(event *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) error {
	data, err := event.Encode(args...)
	if err != nil {
		return errors.WithMessage(err, "encode native event")
	}

	allTopics := make([]thor.Bytes32, 0, len(topics)+1)
	allTopics = append(allTopics, event.ID())
	allTopics = append(allTopics, topics...)

	*env.events = append(*env.events, &tx.Event{
		Address: address,
		Topics:  allTopics,
		Data:    data,
	})
	return nil
}

// Checkpoint returns a revision of the event log.
func (env *Environment) Checkpoint() int {
	return len(*env.events)
}

// RevertTo drops events logged after the revision.
func (env *Environment) RevertTo(revision int) {
	if revision < len(*env.events) {
		*env.events = (*env.events)[:revision]
	}
}

// Stop aborts the native call with err.
func (env *Environment) Stop(err error) {
	panic(&callError{err})
}

// Call wraps proc into a call which encodes its output.
// Errors raised by Stop or ParseArgs are returned, other panics propagate.
func (env *Environment) Call(proc func(env *Environment) ([]any, error), readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.abi.Const() {
			return nil, errors.New("write protection")
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*callError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output, err := proc(env)
		if err != nil {
			return nil, err
		}
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			return nil, errors.WithMessage(err, "encode native output")
		}
		return
	}
}
