// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/kinetixfi/kinetix-tokenomics/builtin/bribe"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/escrow"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/pairs"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/voter"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Builtin contracts binding.
var (
	Voter        = &voterContract{mustLoadContract("Voter")}
	Vesting      = &vestingContract{mustLoadContract("Vesting")}
	Escrow       = &escrowContract{mustLoadContract("Escrow")}
	PairFactory  = &pairFactoryContract{mustLoadContract("PairFactory")}
	PoolFactory  = &poolFactoryContract{mustLoadContract("PoolFactory")}
	BribeFactory = &bribeFactoryContract{mustLoadContract("BribeFactory")}

	Token = &tokenPrototype{mustLoadPrototype("Token")}
	Bribe = &bribePrototype{mustLoadPrototype("Bribe")}
)

type (
	voterContract        struct{ *contract }
	vestingContract      struct{ *contract }
	escrowContract       struct{ *contract }
	pairFactoryContract  struct{ *contract }
	poolFactoryContract  struct{ *contract }
	bribeFactoryContract struct{ *contract }

	tokenPrototype struct{ *prototype }
	bribePrototype struct{ *prototype }
)

// Native returns the voter wired to the other builtin contracts.
// env may be nil for read only access.
func (v *voterContract) Native(state *state.State, env solidity.Env) *voter.Voter {
	return voter.New(solidity.NewContext(v.Address, state, env), voter.Collaborators{
		Escrow:  Escrow.Native(state, env),
		Pairs:   PairFactory.Native(state, env),
		Pools:   PoolFactory.Native(state, env),
		Factory: BribeFactory.Native(state, env),
		Ledger: func(addr thor.Address) voter.RewardLedger {
			return Bribe.At(addr, state, env)
		},
	})
}

func (v *vestingContract) Native(state *state.State, env solidity.Env) *vesting.Vesting {
	return vesting.New(solidity.NewContext(v.Address, state, env))
}

func (e *escrowContract) Native(state *state.State, env solidity.Env) *escrow.Escrow {
	return escrow.New(e.Address, state, env)
}

func (p *pairFactoryContract) Native(state *state.State, env solidity.Env) *pairs.PairFactory {
	return pairs.NewPairFactory(solidity.NewContext(p.Address, state, env))
}

func (p *poolFactoryContract) Native(state *state.State, env solidity.Env) *pairs.PoolFactory {
	return pairs.NewPoolFactory(solidity.NewContext(p.Address, state, env))
}

func (b *bribeFactoryContract) Native(state *state.State, env solidity.Env) *bribe.Factory {
	return bribe.NewFactory(solidity.NewContext(b.Address, state, env))
}

// At returns the token deployed at addr.
func (t *tokenPrototype) At(addr thor.Address, state *state.State, env solidity.Env) *token.Token {
	return token.New(addr, state, env)
}

// At returns the reward ledger deployed at addr. Ownership of ids is resolved through the escrow.
func (b *bribePrototype) At(addr thor.Address, state *state.State, env solidity.Env) *bribe.Ledger {
	return bribe.NewLedger(solidity.NewContext(addr, state, env), Escrow.Native(state, env))
}
