// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

func init() {
	type pairArgs struct {
		TokenA common.Address
		TokenB common.Address
	}
	type poolArgs struct {
		TokenA common.Address
		TokenB common.Address
		Fee    *big.Int
	}
	type indexArgs struct {
		Index *big.Int
	}

	registerContract(PairFactory.contract, []methodDefine{
		{"createPair", func(env *xenv.Environment) ([]any, error) {
			var args pairArgs
			env.ParseArgs(&args)
			pair, err := PairFactory.Native(env.State(), env).CreatePair(thor.Address(args.TokenA), thor.Address(args.TokenB))
			if err != nil {
				return nil, err
			}
			return []any{pair}, nil
		}},
		{"getPair", func(env *xenv.Environment) ([]any, error) {
			var args pairArgs
			env.ParseArgs(&args)
			pair, err := PairFactory.Native(env.State(), env).GetPair(thor.Address(args.TokenA), thor.Address(args.TokenB))
			return []any{pair}, err
		}},
		{"allPairs", func(env *xenv.Environment) ([]any, error) {
			var args indexArgs
			env.ParseArgs(&args)
			pair, err := PairFactory.Native(env.State(), env).AllPairs(uint64Arg(env, args.Index))
			return []any{pair}, err
		}},
		{"allPairsLength", func(env *xenv.Environment) ([]any, error) {
			n, err := PairFactory.Native(env.State(), env).AllPairsLength()
			return []any{bigUint(n)}, err
		}},
	})

	registerContract(PoolFactory.contract, []methodDefine{
		{"governor", func(env *xenv.Environment) ([]any, error) {
			governor, err := PoolFactory.Native(env.State(), env).Governor()
			return []any{governor}, err
		}},
		{"enableFeeAmount", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Fee *big.Int
			}
			env.ParseArgs(&args)
			return nil, PoolFactory.Native(env.State(), env).EnableFeeAmount(env.Caller(), uint32(uint64Arg(env, args.Fee)))
		}},
		{"feeAmountEnabled", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Fee *big.Int
			}
			env.ParseArgs(&args)
			ok, err := PoolFactory.Native(env.State(), env).FeeAmountEnabled(uint32(uint64Arg(env, args.Fee)))
			return []any{ok}, err
		}},
		{"createPool", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			fee := uint32(uint64Arg(env, args.Fee))
			pool, err := PoolFactory.Native(env.State(), env).CreatePool(thor.Address(args.TokenA), thor.Address(args.TokenB), fee)
			if err != nil {
				return nil, err
			}
			return []any{pool}, nil
		}},
		{"getPool", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			fee := uint32(uint64Arg(env, args.Fee))
			pool, err := PoolFactory.Native(env.State(), env).GetPool(thor.Address(args.TokenA), thor.Address(args.TokenB), fee)
			return []any{pool}, err
		}},
	})

	registerContract(BribeFactory.contract, []methodDefine{
		{"ledgersLength", func(env *xenv.Environment) ([]any, error) {
			n, err := BribeFactory.Native(env.State(), env).LedgersLength()
			return []any{bigUint(n)}, err
		}},
		{"ledgers", func(env *xenv.Environment) ([]any, error) {
			var args indexArgs
			env.ParseArgs(&args)
			ledger, err := BribeFactory.Native(env.State(), env).Ledgers(uint64Arg(env, args.Index))
			return []any{ledger}, err
		}},
	})
}
