// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

var (
	ErrNoContract    = reverts.Invalid("builtin: no contract at address")
	ErrUnknownMethod = reverts.Invalid("builtin: unknown method")
)

type addressAndMethodID struct {
	thor.Address
	abi.MethodID
}

var (
	internalMethods = make(map[addressAndMethodID]*nativeMethod)
	tokenMethods    = make(map[abi.MethodID]*nativeMethod)
	bribeMethods    = make(map[abi.MethodID]*nativeMethod)
)

func registerContract(c *contract, defines []methodDefine) {
	bindMethods(c.ABI, defines, func(id abi.MethodID, method *nativeMethod) {
		internalMethods[addressAndMethodID{c.Address, id}] = method
	})
}

func registerPrototype(p *prototype, defines []methodDefine, methods map[abi.MethodID]*nativeMethod) {
	bindMethods(p.ABI, defines, func(id abi.MethodID, method *nativeMethod) {
		methods[id] = method
	})
}

// NativeCall is a builtin method resolved from a clause.
type NativeCall struct {
	method *nativeMethod
}

// Method returns the abi method being called.
func (c *NativeCall) Method() *abi.Method {
	return c.method.ABI
}

// Run executes the call in env and returns the abi-encoded output.
// A readonly call of a state changing method is rejected.
func (c *NativeCall) Run(env *xenv.Environment, readonly bool) ([]byte, error) {
	return env.Call(c.method.Run, readonly)()
}

// HandleNativeCall resolves the builtin method addressed by to and input.
// Token and reward ledger addresses are resolved by looking them up in state.
func HandleNativeCall(state *state.State, to thor.Address, input []byte) (*NativeCall, error) {
	methodID, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, ErrUnknownMethod
	}

	if method, ok := internalMethods[addressAndMethodID{to, methodID}]; ok {
		return &NativeCall{method}, nil
	}

	methods, err := prototypeMethods(state, to)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		return nil, ErrNoContract
	}
	if method, ok := methods[methodID]; ok {
		return &NativeCall{method}, nil
	}
	return nil, ErrUnknownMethod
}

func prototypeMethods(state *state.State, to thor.Address) (map[abi.MethodID]*nativeMethod, error) {
	if isSingleton(to) {
		return map[abi.MethodID]*nativeMethod{}, nil
	}
	isToken, err := Token.At(to, state, nil).Exists()
	if err != nil {
		return nil, err
	}
	if isToken {
		return tokenMethods, nil
	}
	isLedger, err := Voter.Native(state, nil).IsLedger(to)
	if err != nil {
		return nil, err
	}
	if isLedger {
		return bribeMethods, nil
	}
	return nil, nil
}

func isSingleton(addr thor.Address) bool {
	for _, c := range []*contract{
		Voter.contract,
		Vesting.contract,
		Escrow.contract,
		PairFactory.contract,
		PoolFactory.contract,
		BribeFactory.contract,
	} {
		if c.Address == addr {
			return true
		}
	}
	return false
}
