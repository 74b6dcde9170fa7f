// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

var errValueOverflow = reverts.Invalid("builtin: value exceeds uint64")

// nativeMethod describes a native call.
type nativeMethod struct {
	ABI *abi.Method
	Run func(env *xenv.Environment) ([]any, error)
}

type methodDefine struct {
	name string
	run  func(env *xenv.Environment) ([]any, error)
}

func bindMethods(contractABI *abi.ABI, defines []methodDefine, bind func(id abi.MethodID, method *nativeMethod)) {
	for _, def := range defines {
		method, found := contractABI.MethodByName(def.name)
		if !found {
			panic("method not found: " + def.name)
		}
		bind(method.ID(), &nativeMethod{ABI: method, Run: def.run})
	}
}

// uint64Arg converts a decoded uint256 argument, stopping the call when it does not fit.
func uint64Arg(env *xenv.Environment, v *big.Int) uint64 {
	if v == nil || !v.IsUint64() {
		env.Stop(errValueOverflow)
	}
	return v.Uint64()
}

func toAddresses(addrs []common.Address) []thor.Address {
	out := make([]thor.Address, len(addrs))
	for i, a := range addrs {
		out[i] = thor.Address(a)
	}
	return out
}

func bigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
