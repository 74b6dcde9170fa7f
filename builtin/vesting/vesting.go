// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting converts deposits of one token into a linearly unlocking
// claim on another. The deposited token is burned as it vests.
package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	logger = log.WithContext("pkg", "vesting")

	slotConfig      = thor.BytesToBytes32([]byte("vesting-config"))
	slotGovernor    = thor.BytesToBytes32([]byte("vesting-governor"))
	slotTotalSupply = thor.BytesToBytes32([]byte("vesting-total-supply"))
	slotPositions   = thor.BytesToBytes32([]byte("vesting-positions"))
	slotLock        = thor.BytesToBytes32([]byte("vesting-lock"))
)

var (
	ErrAlreadyInitialized = reverts.Conflict("vesting: already initialized")
	ErrNotGovernor        = reverts.Unauthorized("vesting: caller is not the governor")
	ErrZeroAddress        = reverts.Invalid("vesting: zero address")
	ErrZeroAmount         = reverts.Invalid("vesting: zero amount")
	ErrZeroDuration       = reverts.Invalid("vesting: zero duration")
	ErrRefundRate         = reverts.Invalid("vesting: direct refund rate too high")
	ErrNonTransferable    = reverts.Invalid("vesting: positions are not transferable")
	ErrInsufficientFunds  = reverts.Insolvent("vesting: reserve does not cover obligations")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Config is fixed at initialization.
type Config struct {
	DepositToken     thor.Address
	ClaimToken       thor.Address
	Duration         uint64
	DirectRefundRate uint64
}

// Position is the vesting state of one depositor.
type Position struct {
	Balance             *big.Int
	CumulativeClaimable *big.Int
	Claimed             *big.Int
	LastUpdate          uint64
}

func (p *Position) normalize() *Position {
	for _, v := range []**big.Int{&p.Balance, &p.CumulativeClaimable, &p.Claimed} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
	return p
}

// Vesting implements native methods of `Vesting` contract.
type Vesting struct {
	sctx        *solidity.Context
	config      *solidity.Value[*Config]
	governor    *solidity.Address
	totalSupply *solidity.Uint256
	positions   *solidity.Mapping[thor.Address, *Position]
	guard       *solidity.Guard
}

func New(sctx *solidity.Context) *Vesting {
	return &Vesting{
		sctx:        sctx,
		config:      solidity.NewValue[*Config](sctx, slotConfig),
		governor:    solidity.NewAddress(sctx, slotGovernor),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		positions:   solidity.NewMapping[thor.Address, *Position](sctx, slotPositions),
		guard:       solidity.NewGuard(sctx, slotLock),
	}
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func (v *Vesting) Address() thor.Address {
	return v.sctx.Address()
}

// Initialize sets the governor and the immutable configuration, once.
func (v *Vesting) Initialize(governor thor.Address, cfg Config) error {
	exists, err := v.config.Exists()
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInitialized
	}
	if governor.IsZero() || cfg.DepositToken.IsZero() || cfg.ClaimToken.IsZero() {
		return ErrZeroAddress
	}
	if cfg.Duration == 0 {
		return ErrZeroDuration
	}
	if cfg.DirectRefundRate > thor.MaxDirectRefundRate {
		return ErrRefundRate
	}
	v.governor.Set(governor)
	return v.config.Set(&cfg)
}

func (v *Vesting) Config() (*Config, error) {
	return v.config.Get()
}

func (v *Vesting) Governor() (thor.Address, error) {
	return v.governor.Get()
}

// SetGovernor hands the governor role over to next.
func (v *Vesting) SetGovernor(caller, next thor.Address) error {
	current, err := v.governor.Get()
	if err != nil {
		return err
	}
	if caller != current {
		return ErrNotGovernor
	}
	if next.IsZero() {
		return ErrZeroAddress
	}
	v.governor.Set(next)
	return v.sctx.Log(governorChangedEvent, []thor.Bytes32{addressTopic(current), addressTopic(next)})
}

// TotalSupply returns the sum of all locked balances.
func (v *Vesting) TotalSupply() (*big.Int, error) {
	return v.totalSupply.Get()
}

func (v *Vesting) Position(account thor.Address) (*Position, error) {
	pos, err := v.positions.Get(account)
	if err != nil {
		return nil, err
	}
	return pos.normalize(), nil
}

// BalanceOf returns the locked, not yet vested balance of account.
func (v *Vesting) BalanceOf(account thor.Address) (*big.Int, error) {
	pos, err := v.Position(account)
	if err != nil {
		return nil, err
	}
	return pos.Balance, nil
}

// Allowance is always zero, positions cannot be transferred.
func (v *Vesting) Allowance(_, _ thor.Address) *big.Int {
	return new(big.Int)
}

func (v *Vesting) Transfer(_, _ thor.Address, _ *big.Int) error        { return ErrNonTransferable }
func (v *Vesting) TransferFrom(_, _, _ thor.Address, _ *big.Int) error { return ErrNonTransferable }
func (v *Vesting) Approve(_, _ thor.Address, _ *big.Int) error         { return ErrNonTransferable }

// VestedAmount returns the total amount ever put under vesting for account,
// still locked or already unlocked.
func (v *Vesting) VestedAmount(account thor.Address) (*big.Int, error) {
	pos, err := v.Position(account)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(pos.Balance, pos.CumulativeClaimable), nil
}

// nextAccrual returns the amount unlocked since the last update.
// The rate is taken over the whole vested amount so it stays constant while the balance depletes.
func nextAccrual(pos *Position, now, duration uint64) (*big.Int, error) {
	if now <= pos.LastUpdate || pos.Balance.Sign() == 0 {
		return new(big.Int), nil
	}
	vested := new(big.Int).Add(pos.Balance, pos.CumulativeClaimable)
	accrual, err := solidity.MulDiv(vested, new(big.Int).SetUint64(now-pos.LastUpdate), new(big.Int).SetUint64(duration))
	if err != nil {
		return nil, errors.Wrap(err, "accrual")
	}
	return solidity.Min(accrual, pos.Balance), nil
}

// Claimable returns what account could claim now.
func (v *Vesting) Claimable(account thor.Address) (*big.Int, error) {
	cfg, err := v.config.Get()
	if err != nil {
		return nil, err
	}
	pos, err := v.Position(account)
	if err != nil {
		return nil, err
	}
	next, err := nextAccrual(pos, v.sctx.Now(), cfg.Duration)
	if err != nil {
		return nil, err
	}
	out := new(big.Int).Sub(pos.CumulativeClaimable, pos.Claimed)
	return out.Add(out, next), nil
}

func (v *Vesting) depositToken(cfg *Config) *token.Token {
	return token.FromContext(v.sctx.At(cfg.DepositToken))
}

func (v *Vesting) claimToken(cfg *Config) *token.Token {
	return token.FromContext(v.sctx.At(cfg.ClaimToken))
}

// updateVesting moves the pending accrual of account from its balance into the
// claimable bucket and burns the matching deposit tokens.
func (v *Vesting) updateVesting(cfg *Config, account thor.Address) (*Position, error) {
	pos, err := v.Position(account)
	if err != nil {
		return nil, err
	}
	now := v.sctx.Now()
	accrual, err := nextAccrual(pos, now, cfg.Duration)
	if err != nil {
		return nil, err
	}
	pos.LastUpdate = now
	if accrual.Sign() > 0 {
		pos.Balance.Sub(pos.Balance, accrual)
		pos.CumulativeClaimable.Add(pos.CumulativeClaimable, accrual)
		if err := v.totalSupply.Sub(accrual); err != nil {
			return nil, errors.Wrap(err, "total supply")
		}
		if err := v.depositToken(cfg).Burn(v.Address(), accrual); err != nil {
			return nil, err
		}
		if err := v.sctx.Log(transferEvent, []thor.Bytes32{addressTopic(account), {}}, accrual); err != nil {
			return nil, err
		}
		if err := v.sctx.Log(vestingUpdateEvent, []thor.Bytes32{addressTopic(account)}, accrual, pos.Balance); err != nil {
			return nil, err
		}
	}
	if err := v.positions.Set(account, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (v *Vesting) solvent(reserve *token.Token, extra *big.Int) error {
	held, err := reserve.BalanceOf(v.Address())
	if err != nil {
		return err
	}
	supply, err := v.totalSupply.Get()
	if err != nil {
		return err
	}
	if held.Cmp(supply.Add(supply, extra)) < 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// Deposit locks amount of the deposit token for caller. The direct refund share
// is burned and paid out in the claim token at once, the rest starts vesting.
func (v *Vesting) Deposit(caller thor.Address, amount *big.Int) error {
	release, err := v.guard.Enter()
	if err != nil {
		return err
	}
	defer release()

	logger.Debug("depositing", "account", caller, "amount", amount)
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	cfg, err := v.config.Get()
	if err != nil {
		return err
	}
	claimToken := v.claimToken(cfg)
	if err := v.solvent(claimToken, amount); err != nil {
		return err
	}

	pos, err := v.updateVesting(cfg, caller)
	if err != nil {
		return err
	}
	deposit := v.depositToken(cfg)
	if err := deposit.TransferFrom(v.Address(), caller, v.Address(), amount); err != nil {
		return err
	}

	refund := new(big.Int).Mul(amount, new(big.Int).SetUint64(cfg.DirectRefundRate))
	refund.Div(refund, big.NewInt(100))
	if refund.Sign() > 0 {
		if err := deposit.Burn(v.Address(), refund); err != nil {
			return err
		}
		if err := claimToken.Transfer(v.Address(), caller, refund); err != nil {
			return err
		}
		if err := v.sctx.Log(directRefundEvent, []thor.Bytes32{addressTopic(caller)}, refund); err != nil {
			return err
		}
	}

	principal := new(big.Int).Sub(amount, refund)
	if principal.Sign() > 0 {
		pos.Balance.Add(pos.Balance, principal)
		if err := v.positions.Set(caller, pos); err != nil {
			return err
		}
		if err := v.totalSupply.Add(principal); err != nil {
			return err
		}
		if err := v.sctx.Log(transferEvent, []thor.Bytes32{{}, addressTopic(caller)}, principal); err != nil {
			return err
		}
	}
	if err := v.sctx.Log(depositEvent, []thor.Bytes32{addressTopic(caller)}, amount); err != nil {
		return err
	}
	logger.Info("deposited", "account", caller, "principal", principal, "refund", refund)
	return nil
}

// Claim pays everything unlocked so far to the caller.
func (v *Vesting) Claim(caller thor.Address) (*big.Int, error) {
	return v.ClaimTo(caller, caller)
}

// ClaimTo pays everything unlocked for caller to receiver.
func (v *Vesting) ClaimTo(caller, receiver thor.Address) (*big.Int, error) {
	if receiver.IsZero() {
		return nil, ErrZeroAddress
	}
	release, err := v.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cfg, err := v.config.Get()
	if err != nil {
		return nil, err
	}
	pos, err := v.updateVesting(cfg, caller)
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).Sub(pos.CumulativeClaimable, pos.Claimed)
	if amount.Sign() == 0 {
		return amount, nil
	}
	pos.Claimed.Add(pos.Claimed, amount)
	if err := v.positions.Set(caller, pos); err != nil {
		return nil, err
	}
	if err := v.claimToken(cfg).Transfer(v.Address(), receiver, amount); err != nil {
		return nil, err
	}
	if err := v.sctx.Log(claimEvent, []thor.Bytes32{addressTopic(receiver)}, amount); err != nil {
		return nil, err
	}
	logger.Info("claimed", "account", caller, "receiver", receiver, "amount", amount)
	return amount, nil
}

// WithdrawToken lets the governor recover tokens sent to the contract by mistake.
// The deposit and claim token reserves never drop below the locked total supply.
func (v *Vesting) WithdrawToken(caller, tokenAddr, to thor.Address, amount *big.Int) error {
	release, err := v.guard.Enter()
	if err != nil {
		return err
	}
	defer release()

	governor, err := v.governor.Get()
	if err != nil {
		return err
	}
	if caller != governor {
		return ErrNotGovernor
	}
	if to.IsZero() || tokenAddr.IsZero() {
		return ErrZeroAddress
	}
	cfg, err := v.config.Get()
	if err != nil {
		return err
	}
	tok := token.FromContext(v.sctx.At(tokenAddr))
	if tokenAddr == cfg.ClaimToken || tokenAddr == cfg.DepositToken {
		if err := v.solvent(tok, amount); err != nil {
			return err
		}
	}
	if err := tok.Transfer(v.Address(), to, amount); err != nil {
		return err
	}
	logger.Info("withdrew token", "token", tokenAddr, "to", to, "amount", amount)
	return v.sctx.Log(withdrawTokenEvent, []thor.Bytes32{addressTopic(tokenAddr), addressTopic(to)}, amount)
}
