// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if err := gen.validate(); err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(func(state *state.State, env *xenv.Environment) error {
			for _, t := range gen.Tokens {
				tok := builtin.Token.At(t.Address, state, env)
				if err := tok.Initialize(t.Name, t.Symbol, t.Minter); err != nil {
					return fmt.Errorf("token %s: %w", t.Symbol, err)
				}
				for _, b := range t.Balances {
					if err := tok.MintGenesis(b.Owner, b.Amount.Big()); err != nil {
						return fmt.Errorf("token %s: %w", t.Symbol, err)
					}
				}
			}

			if err := builtin.Escrow.Native(state, env).Initialize(gen.Governor, gen.Escrow.Token); err != nil {
				return fmt.Errorf("escrow: %w", err)
			}
			if err := builtin.PoolFactory.Native(state, env).Initialize(gen.Governor); err != nil {
				return fmt.Errorf("pool factory: %w", err)
			}
			if err := builtin.Voter.Native(state, env).Initialize(gen.Governor, gen.EmergencyCouncil, gen.Voter.Whitelist); err != nil {
				return fmt.Errorf("voter: %w", err)
			}

			if v := gen.Vesting; v != nil {
				if err := builtin.Vesting.Native(state, env).Initialize(gen.Governor, vesting.Config{
					DepositToken:     v.DepositToken,
					ClaimToken:       v.ClaimToken,
					Duration:         v.Duration,
					DirectRefundRate: v.DirectRefundRate,
				}); err != nil {
					return fmt.Errorf("vesting: %w", err)
				}
				if reserve := v.Reserve.Big(); reserve.Sign() > 0 {
					if err := builtin.Token.At(v.ClaimToken, state, env).MintGenesis(builtin.Vesting.Address, reserve); err != nil {
						return fmt.Errorf("vesting reserve: %w", err)
					}
				}
			}
			return nil
		}).
		Call(
			tx.NewClause(builtin.Escrow.Address).WithData(mustEncodeInput(builtin.Escrow.ABI, "setVoter", common.Address(builtin.Voter.Address))),
			gen.Governor)

	for _, fee := range gen.Voter.FeeAmounts {
		builder.Call(
			tx.NewClause(builtin.PoolFactory.Address).WithData(mustEncodeInput(builtin.PoolFactory.ABI, "enableFeeAmount", big.NewInt(int64(fee)))),
			gen.Governor)
	}

	for _, l := range gen.Escrow.Locks {
		builder.
			Call(
				tx.NewClause(gen.Escrow.Token).WithData(mustEncodeInput(builtin.Token.ABI, "approve", common.Address(builtin.Escrow.Address), l.Amount.Big())),
				l.Owner).
			Call(
				tx.NewClause(builtin.Escrow.Address).WithData(mustEncodeInput(builtin.Escrow.ABI, "createLock", l.Amount.Big(), new(big.Int).SetUint64(l.Duration))),
				l.Owner)
	}

	for _, p := range gen.Voter.Pairs {
		a, b := common.Address(p.TokenA), common.Address(p.TokenB)
		builder.
			Call(tx.NewClause(builtin.PairFactory.Address).WithData(mustEncodeInput(builtin.PairFactory.ABI, "createPair", a, b)), gen.Governor).
			Call(tx.NewClause(builtin.Voter.Address).WithData(mustEncodeInput(builtin.Voter.ABI, "addPair", a, b)), gen.Governor)
	}

	for _, p := range gen.Voter.Pools {
		a, b, fee := common.Address(p.TokenA), common.Address(p.TokenB), big.NewInt(int64(p.Fee))
		builder.
			Call(tx.NewClause(builtin.PoolFactory.Address).WithData(mustEncodeInput(builtin.PoolFactory.ABI, "createPool", a, b, fee)), gen.Governor).
			Call(tx.NewClause(builtin.Voter.Address).WithData(mustEncodeInput(builtin.Voter.ABI, "addConcentratedPool", a, b, fee)), gen.Governor)
	}

	for _, pool := range gen.Voter.ExternalPools {
		builder.Call(
			tx.NewClause(builtin.Voter.Address).WithData(mustEncodeInput(builtin.Voter.ABI, "addExternalPool", common.Address(pool))),
			gen.Governor)
	}

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, "customnet"}, nil
}

func (gen *CustomGenesis) validate() error {
	if gen.Governor.IsZero() {
		return errors.New("governor must be set")
	}
	if gen.EmergencyCouncil.IsZero() {
		return errors.New("emergencyCouncil must be set")
	}

	tokens := make(map[thor.Address]bool, len(gen.Tokens))
	for _, t := range gen.Tokens {
		if t.Address.IsZero() {
			return fmt.Errorf("token %s: address must be set", t.Symbol)
		}
		if tokens[t.Address] {
			return fmt.Errorf("token %s: duplicated address %s", t.Symbol, t.Address)
		}
		tokens[t.Address] = true
		for _, b := range t.Balances {
			if b.Amount.Big().Sign() < 1 {
				return fmt.Errorf("token %s: balance of %s must be a non-zero integer", t.Symbol, b.Owner)
			}
		}
	}

	if !tokens[gen.Escrow.Token] {
		return fmt.Errorf("escrow: token %s is not a genesis token", gen.Escrow.Token)
	}
	for _, l := range gen.Escrow.Locks {
		if l.Amount.Big().Sign() < 1 {
			return fmt.Errorf("escrow: lock of %s must be a non-zero integer", l.Owner)
		}
	}

	if v := gen.Vesting; v != nil {
		if !tokens[v.DepositToken] {
			return fmt.Errorf("vesting: deposit token %s is not a genesis token", v.DepositToken)
		}
		if !tokens[v.ClaimToken] {
			return fmt.Errorf("vesting: claim token %s is not a genesis token", v.ClaimToken)
		}
	}
	return nil
}
