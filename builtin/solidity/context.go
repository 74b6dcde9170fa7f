// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Env is the part of the execution environment builtin contracts rely on.
type Env interface {
	Now() uint64
	Log(event *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) error
}

// Context binds a builtin contract address to the state and environment it runs in.
type Context struct {
	address thor.Address
	state   *state.State
	env     Env
}

// NewContext creates a context. env may be nil for storage only access,
// in which case the clock reads zero and events are dropped.
func NewContext(address thor.Address, state *state.State, env Env) *Context {
	return &Context{
		address: address,
		state:   state,
		env:     env,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// At returns a context of another contract sharing the same state and environment.
func (c *Context) At(address thor.Address) *Context {
	return NewContext(address, c.state, c.env)
}

// Now returns the block time.
func (c *Context) Now() uint64 {
	if c.env == nil {
		return 0
	}
	return c.env.Now()
}

// Log emits an event from the bound contract.
func (c *Context) Log(event *abi.Event, topics []thor.Bytes32, args ...any) error {
	if c.env == nil {
		return nil
	}
	return c.env.Log(event, c.address, topics, args...)
}
