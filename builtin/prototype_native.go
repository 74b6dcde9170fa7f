// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/bribe"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

func nativeToken(env *xenv.Environment) *token.Token {
	return Token.At(env.To(), env.State(), env)
}

func nativeLedger(env *xenv.Environment) *bribe.Ledger {
	return Bribe.At(env.To(), env.State(), env)
}

func init() {
	metadata := func(env *xenv.Environment) *token.Metadata {
		meta, err := nativeToken(env).Metadata()
		if err != nil {
			env.Stop(err)
		}
		return meta
	}
	// ok wraps the result of a token method returning bool.
	ok := func(err error) ([]any, error) {
		if err != nil {
			return nil, err
		}
		return []any{true}, nil
	}

	registerPrototype(Token.prototype, []methodDefine{
		{"name", func(env *xenv.Environment) ([]any, error) {
			return []any{metadata(env).Name}, nil
		}},
		{"symbol", func(env *xenv.Environment) ([]any, error) {
			return []any{metadata(env).Symbol}, nil
		}},
		{"decimals", func(env *xenv.Environment) ([]any, error) {
			return []any{token.Decimals}, nil
		}},
		{"minter", func(env *xenv.Environment) ([]any, error) {
			return []any{metadata(env).Minter}, nil
		}},
		{"totalSupply", func(env *xenv.Environment) ([]any, error) {
			supply, err := nativeToken(env).TotalSupply()
			return []any{supply}, err
		}},
		{"balanceOf", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Owner common.Address
			}
			env.ParseArgs(&args)
			bal, err := nativeToken(env).BalanceOf(thor.Address(args.Owner))
			return []any{bal}, err
		}},
		{"allowance", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			allowed, err := nativeToken(env).Allowance(thor.Address(args.Owner), thor.Address(args.Spender))
			return []any{allowed}, err
		}},
		{"transfer", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return ok(nativeToken(env).Transfer(env.Caller(), thor.Address(args.To), args.Amount))
		}},
		{"transferFrom", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return ok(nativeToken(env).TransferFrom(env.Caller(), thor.Address(args.From), thor.Address(args.To), args.Amount))
		}},
		{"approve", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			return ok(nativeToken(env).Approve(env.Caller(), thor.Address(args.Spender), args.Amount))
		}},
		{"mint", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return ok(nativeToken(env).Mint(env.Caller(), thor.Address(args.To), args.Amount))
		}},
		{"burn", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return ok(nativeToken(env).Burn(env.Caller(), args.Amount))
		}},
	}, tokenMethods)

	registerPrototype(Bribe.prototype, []methodDefine{
		{"voter", func(env *xenv.Environment) ([]any, error) {
			voter, err := nativeLedger(env).Voter()
			return []any{voter}, err
		}},
		{"rewardTokens", func(env *xenv.Environment) ([]any, error) {
			tokens, err := nativeLedger(env).RewardTokens()
			if tokens == nil {
				tokens = []thor.Address{}
			}
			return []any{tokens}, err
		}},
		{"totalSupply", func(env *xenv.Environment) ([]any, error) {
			supply, err := nativeLedger(env).TotalSupply()
			return []any{supply}, err
		}},
		{"balanceOf", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenID *big.Int `abi:"tokenId"`
			}
			env.ParseArgs(&args)
			bal, err := nativeLedger(env).BalanceOf(uint64Arg(env, args.TokenID))
			return []any{bal}, err
		}},
		{"rewardPerToken", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token common.Address
			}
			env.ParseArgs(&args)
			rpt, err := nativeLedger(env).RewardPerToken(thor.Address(args.Token))
			return []any{rpt}, err
		}},
		{"earned", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token   common.Address
				TokenID *big.Int `abi:"tokenId"`
			}
			env.ParseArgs(&args)
			earned, err := nativeLedger(env).Earned(thor.Address(args.Token), uint64Arg(env, args.TokenID))
			return []any{earned}, err
		}},
		{"notifyRewardAmount", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token  common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			return nil, nativeLedger(env).NotifyRewardAmount(env.Caller(), thor.Address(args.Token), args.Amount)
		}},
		{"getReward", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenID *big.Int `abi:"tokenId"`
				Tokens  []common.Address
			}
			env.ParseArgs(&args)
			return nil, nativeLedger(env).GetReward(env.Caller(), uint64Arg(env, args.TokenID), toAddresses(args.Tokens))
		}},
	}, bribeMethods)
}
