// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/voter"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

func nativeVoter(env *xenv.Environment) *voter.Voter {
	return Voter.Native(env.State(), env)
}

func init() {
	type tokenIDArgs struct {
		TokenID *big.Int `abi:"tokenId"`
	}
	type poolArgs struct {
		Pool common.Address
	}

	registerContract(Voter.contract, []methodDefine{
		{"vote", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenID *big.Int `abi:"tokenId"`
				Pools   []common.Address
				Weights []*big.Int
			}
			env.ParseArgs(&args)
			id := uint64Arg(env, args.TokenID)
			return nil, nativeVoter(env).Vote(env.Caller(), id, toAddresses(args.Pools), args.Weights)
		}},
		{"reset", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			return nil, nativeVoter(env).Reset(env.Caller(), uint64Arg(env, args.TokenID))
		}},
		{"poke", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			return nil, nativeVoter(env).Poke(env.Caller(), uint64Arg(env, args.TokenID))
		}},
		{"claimBribes", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Bribes  []common.Address
				Tokens  [][]common.Address
				TokenID *big.Int `abi:"tokenId"`
			}
			env.ParseArgs(&args)
			id := uint64Arg(env, args.TokenID)
			tokens := make([][]thor.Address, len(args.Tokens))
			for i, list := range args.Tokens {
				tokens[i] = toAddresses(list)
			}
			return nil, nativeVoter(env).ClaimBribes(env.Caller(), toAddresses(args.Bribes), tokens, id)
		}},
		{"addPair", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenA common.Address
				TokenB common.Address
			}
			env.ParseArgs(&args)
			_, err := nativeVoter(env).AddPair(env.Caller(), thor.Address(args.TokenA), thor.Address(args.TokenB))
			return nil, err
		}},
		{"addConcentratedPool", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenA common.Address
				TokenB common.Address
				Fee    *big.Int
			}
			env.ParseArgs(&args)
			fee := uint32(uint64Arg(env, args.Fee))
			_, err := nativeVoter(env).AddConcentratedPool(env.Caller(), thor.Address(args.TokenA), thor.Address(args.TokenB), fee)
			return nil, err
		}},
		{"addExternalPool", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			return nil, nativeVoter(env).AddExternalPool(env.Caller(), thor.Address(args.Pool))
		}},
		{"removeVotablePool", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			return nil, nativeVoter(env).RemoveVotablePool(env.Caller(), thor.Address(args.Pool))
		}},
		{"whitelist", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token common.Address
			}
			env.ParseArgs(&args)
			return nil, nativeVoter(env).Whitelist(env.Caller(), thor.Address(args.Token))
		}},
		{"setGovernor", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Governor common.Address
			}
			env.ParseArgs(&args)
			return nil, nativeVoter(env).SetGovernor(env.Caller(), thor.Address(args.Governor))
		}},
		{"setEmergencyCouncil", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Council common.Address
			}
			env.ParseArgs(&args)
			return nil, nativeVoter(env).SetEmergencyCouncil(env.Caller(), thor.Address(args.Council))
		}},
		{"totalWeight", func(env *xenv.Environment) ([]any, error) {
			weight, err := nativeVoter(env).TotalWeight()
			return []any{weight}, err
		}},
		{"poolWeight", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			weight, err := nativeVoter(env).PoolWeight(thor.Address(args.Pool))
			return []any{weight}, err
		}},
		{"votes", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				TokenID *big.Int `abi:"tokenId"`
				Pool    common.Address
			}
			env.ParseArgs(&args)
			votes, err := nativeVoter(env).Votes(uint64Arg(env, args.TokenID), thor.Address(args.Pool))
			return []any{votes}, err
		}},
		{"poolVote", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			pools, err := nativeVoter(env).VoterPools(uint64Arg(env, args.TokenID))
			if pools == nil {
				pools = []thor.Address{}
			}
			return []any{pools}, err
		}},
		{"usedWeight", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			used, err := nativeVoter(env).UsedWeight(uint64Arg(env, args.TokenID))
			return []any{used}, err
		}},
		{"lastVoted", func(env *xenv.Environment) ([]any, error) {
			var args tokenIDArgs
			env.ParseArgs(&args)
			last, err := nativeVoter(env).LastVoted(uint64Arg(env, args.TokenID))
			return []any{bigUint(last)}, err
		}},
		{"poolsLength", func(env *xenv.Environment) ([]any, error) {
			n, err := nativeVoter(env).PoolCount()
			return []any{bigUint(n)}, err
		}},
		{"pools", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Index *big.Int
			}
			env.ParseArgs(&args)
			pool, err := nativeVoter(env).PoolAt(uint64Arg(env, args.Index))
			return []any{pool}, err
		}},
		{"poolInfo", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			info, err := nativeVoter(env).Pool(thor.Address(args.Pool))
			if err != nil {
				return nil, err
			}
			return []any{uint8(info.Kind), info.Active, info.Ledger}, nil
		}},
		{"isActive", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			active, err := nativeVoter(env).IsActive(thor.Address(args.Pool))
			return []any{active}, err
		}},
		{"ledgerOf", func(env *xenv.Environment) ([]any, error) {
			var args poolArgs
			env.ParseArgs(&args)
			ledger, err := nativeVoter(env).LedgerOf(thor.Address(args.Pool))
			return []any{ledger}, err
		}},
		{"isLedger", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Ledger common.Address
			}
			env.ParseArgs(&args)
			ok, err := nativeVoter(env).IsLedger(thor.Address(args.Ledger))
			return []any{ok}, err
		}},
		{"isWhitelisted", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Token common.Address
			}
			env.ParseArgs(&args)
			ok, err := nativeVoter(env).IsWhitelisted(thor.Address(args.Token))
			return []any{ok}, err
		}},
		{"whitelistedTokens", func(env *xenv.Environment) ([]any, error) {
			tokens, err := nativeVoter(env).WhitelistedTokens()
			if tokens == nil {
				tokens = []thor.Address{}
			}
			return []any{tokens}, err
		}},
		{"governor", func(env *xenv.Environment) ([]any, error) {
			governor, err := nativeVoter(env).Governor()
			return []any{governor}, err
		}},
		{"emergencyCouncil", func(env *xenv.Environment) ([]any, error) {
			council, err := nativeVoter(env).EmergencyCouncil()
			return []any{council}, err
		}},
		{"epochStart", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Timestamp *big.Int
			}
			env.ParseArgs(&args)
			return []any{bigUint(nativeVoter(env).EpochStart(uint64Arg(env, args.Timestamp)))}, nil
		}},
	})
}
