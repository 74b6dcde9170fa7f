// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

func nativeVesting(env *xenv.Environment) *vesting.Vesting {
	return Vesting.Native(env.State(), env)
}

func init() {
	type accountArgs struct {
		Account common.Address
	}
	type transferArgs struct {
		To     common.Address
		Amount *big.Int
	}

	config := func(env *xenv.Environment) *vesting.Config {
		cfg, err := nativeVesting(env).Config()
		if err != nil {
			env.Stop(err)
		}
		return cfg
	}

	registerContract(Vesting.contract, []methodDefine{
		{"depositToken", func(env *xenv.Environment) ([]any, error) {
			return []any{config(env).DepositToken}, nil
		}},
		{"claimToken", func(env *xenv.Environment) ([]any, error) {
			return []any{config(env).ClaimToken}, nil
		}},
		{"vestingDuration", func(env *xenv.Environment) ([]any, error) {
			return []any{bigUint(config(env).Duration)}, nil
		}},
		{"directRefundRate", func(env *xenv.Environment) ([]any, error) {
			return []any{bigUint(config(env).DirectRefundRate)}, nil
		}},
		{"governor", func(env *xenv.Environment) ([]any, error) {
			governor, err := nativeVesting(env).Governor()
			return []any{governor}, err
		}},
		{"totalSupply", func(env *xenv.Environment) ([]any, error) {
			supply, err := nativeVesting(env).TotalSupply()
			return []any{supply}, err
		}},
		{"balanceOf", func(env *xenv.Environment) ([]any, error) {
			var args accountArgs
			env.ParseArgs(&args)
			bal, err := nativeVesting(env).BalanceOf(thor.Address(args.Account))
			return []any{bal}, err
		}},
		{"allowance", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			return []any{nativeVesting(env).Allowance(thor.Address(args.Owner), thor.Address(args.Spender))}, nil
		}},
		{"claimable", func(env *xenv.Environment) ([]any, error) {
			var args accountArgs
			env.ParseArgs(&args)
			amount, err := nativeVesting(env).Claimable(thor.Address(args.Account))
			return []any{amount}, err
		}},
		{"vestedAmount", func(env *xenv.Environment) ([]any, error) {
			var args accountArgs
			env.ParseArgs(&args)
			amount, err := nativeVesting(env).VestedAmount(thor.Address(args.Account))
			return []any{amount}, err
		}},
		{"position", func(env *xenv.Environment) ([]any, error) {
			var args accountArgs
			env.ParseArgs(&args)
			pos, err := nativeVesting(env).Position(thor.Address(args.Account))
			if err != nil {
				return nil, err
			}
			return []any{pos.Balance, pos.CumulativeClaimable, pos.Claimed, bigUint(pos.LastUpdate)}, nil
		}},
		{"deposit", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return nil, nativeVesting(env).Deposit(env.Caller(), args.Amount)
		}},
		{"claim", func(env *xenv.Environment) ([]any, error) {
			amount, err := nativeVesting(env).Claim(env.Caller())
			if err != nil {
				return nil, err
			}
			return []any{amount}, nil
		}},
		{"claimTo", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Receiver common.Address
			}
			env.ParseArgs(&args)
			amount, err := nativeVesting(env).ClaimTo(env.Caller(), thor.Address(args.Receiver))
			if err != nil {
				return nil, err
			}
			return []any{amount}, nil
		}},
		{"withdrawToken", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token  common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return nil, nativeVesting(env).WithdrawToken(env.Caller(), thor.Address(args.Token), thor.Address(args.To), args.Amount)
		}},
		{"setGovernor", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Governor common.Address
			}
			env.ParseArgs(&args)
			return nil, nativeVesting(env).SetGovernor(env.Caller(), thor.Address(args.Governor))
		}},
		{"transfer", func(env *xenv.Environment) ([]any, error) {
			var args transferArgs
			env.ParseArgs(&args)
			return nil, nativeVesting(env).Transfer(env.Caller(), thor.Address(args.To), args.Amount)
		}},
		{"transferFrom", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return nil, nativeVesting(env).TransferFrom(env.Caller(), thor.Address(args.From), thor.Address(args.To), args.Amount)
		}},
		{"approve", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			return nil, nativeVesting(env).Approve(env.Caller(), thor.Address(args.Spender), args.Amount)
		}},
	})
}
