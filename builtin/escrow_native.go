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
	type tokenIDArgs struct {
		TokenID *big.Int `abi:"tokenId"`
	}
	type spenderArgs struct {
		Spender common.Address
		TokenID *big.Int `abi:"tokenId"`
	}

	registerContract(Escrow.contract, []methodDefine{
		{"token", func(env *xenv.Environment) ([]any, error) {
			addr, err := Escrow.Native(env.State(), env).Token()
			return []any{addr}, err
		}},
		{"voter", func(env *xenv.Environment) ([]any, error) {
			addr, err := Escrow.Native(env.State(), env).Voter()
			return []any{addr}, err
		}},
		{"governor", func(env *xenv.Environment) ([]any, error) {
			addr, err := Escrow.Native(env.State(), env).Governor()
			return []any{addr}, err
		}},
		{"tokenCount", func(env *xenv.Environment) ([]any, error) {
			n, err := Escrow.Native(env.State(), env).TokenCount()
			return []any{bigUint(n)}, err
		}},
		{"createLock", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Amount   *big.Int
				Duration *big.Int
			}
			env.ParseArgs(&args)
			id, err := Escrow.Native(env.State(), env).CreateLock(env.Caller(), args.Amount, uint64Arg(env, args.Duration))
			if err != nil {
				return nil, err
			}
			return []any{bigUint(id)}, nil
		}},
		{"balanceOfNFT", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			power, err := Escrow.Native(env.State(), env).BalanceOfNFT(uint64Arg(env, args.TokenID))
			return []any{power}, err
		}},
		{"ownerOf", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			owner, err := Escrow.Native(env.State(), env).OwnerOf(uint64Arg(env, args.TokenID))
			return []any{owner}, err
		}},
		{"locked", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			lock, err := Escrow.Native(env.State(), env).Locked(uint64Arg(env, args.TokenID))
			if err != nil {
				return nil, err
			}
			return []any{lock.Amount, bigUint(lock.End)}, nil
		}},
		{"approve", func(env *xenv.Environment) ([]any, error) {
			var args spenderArgs
			env.ParseArgs(&args)
			return nil, Escrow.Native(env.State(), env).Approve(env.Caller(), thor.Address(args.Spender), uint64Arg(env, args.TokenID))
		}},
		{"getApproved", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			spender, err := Escrow.Native(env.State(), env).GetApproved(uint64Arg(env, args.TokenID))
			return []any{spender}, err
		}},
		{"isApprovedOrOwner", func(env *xenv.Environment) ([]any, error) {
			var args spenderArgs
			env.ParseArgs(&args)
			ok, err := Escrow.Native(env.State(), env).IsApprovedOrOwner(thor.Address(args.Spender), uint64Arg(env, args.TokenID))
			return []any{ok}, err
		}},
		{"voted", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			voted, err := Escrow.Native(env.State(), env).Voted(uint64Arg(env, args.TokenID))
			return []any{voted}, err
		}},
		{"withdraw", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			amount, err := Escrow.Native(env.State(), env).Withdraw(env.Caller(), uint64Arg(env, args.TokenID))
			if err != nil {
				return nil, err
			}
			return []any{amount}, nil
		}},
		{"setVoter", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Voter common.Address
			}
			env.ParseArgs(&args)
			return nil, Escrow.Native(env.State(), env).SetVoter(env.Caller(), thor.Address(args.Voter))
		}},
	})
}
