// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token ledger shared by every token
// address registered at genesis.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Decimals of every token.
const Decimals uint8 = 18

var (
	logger = log.WithContext("pkg", "token")

	slotMetadata    = thor.BytesToBytes32([]byte("token-metadata"))
	slotTotalSupply = thor.BytesToBytes32([]byte("token-total-supply"))
	slotBalances    = thor.BytesToBytes32([]byte("token-balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("token-allowances"))
)

var (
	ErrAlreadyInitialized    = reverts.Conflict("token: already initialized")
	ErrZeroRecipient         = reverts.Invalid("token: zero recipient")
	ErrInsufficientBalance   = reverts.Insolvent("token: insufficient balance")
	ErrInsufficientAllowance = reverts.Insolvent("token: insufficient allowance")
	ErrNotMinter             = reverts.Unauthorized("token: caller is not the minter")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Metadata describes a token.
type Metadata struct {
	Name   string
	Symbol string
	Minter thor.Address
}

// Token implements native methods of `Token` contract.
type Token struct {
	sctx        *solidity.Context
	metadata    *solidity.Value[*Metadata]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

// New creates a token bound to addr.
func New(addr thor.Address, state *state.State, env solidity.Env) *Token {
	return FromContext(solidity.NewContext(addr, state, env))
}

// FromContext creates a token bound to the context address.
func FromContext(sctx *solidity.Context) *Token {
	return &Token{
		sctx:        sctx,
		metadata:    solidity.NewValue[*Metadata](sctx, slotMetadata),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotAllowances),
	}
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// Address returns the token address.
func (t *Token) Address() thor.Address {
	return t.sctx.Address()
}

// Initialize stores the token metadata, once.
func (t *Token) Initialize(name, symbol string, minter thor.Address) error {
	exists, err := t.metadata.Exists()
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInitialized
	}
	return t.metadata.Set(&Metadata{Name: name, Symbol: symbol, Minter: minter})
}

// Exists reports whether a token was initialized at this address.
func (t *Token) Exists() (bool, error) {
	return t.metadata.Exists()
}

func (t *Token) Metadata() (*Metadata, error) {
	return t.metadata.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(owner thor.Address) (*big.Int, error) {
	return t.balances.Get(owner)
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

func (t *Token) move(from, to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrZeroRecipient
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(big.Int).Add(toBal, amount)); err != nil {
		return err
	}
	return t.sctx.Log(transferEvent, []thor.Bytes32{addressTopic(from), addressTopic(to)}, amount)
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if err := t.move(from, to, amount); err != nil {
		logger.Debug("transfer failed", "token", t.Address(), "from", from, "to", to, "amount", amount, "error", err)
		return err
	}
	return nil
}

// TransferFrom moves amount from from to to, consuming the allowance given to spender.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	if spender != from {
		allowed, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowed.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		if err := t.allowances.Set(allowanceKey(from, spender), new(big.Int).Sub(allowed, amount)); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}

// Approve sets the allowance of spender over the owner's tokens.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if spender.IsZero() {
		return ErrZeroRecipient
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount)); err != nil {
		return err
	}
	return t.sctx.Log(approvalEvent, []thor.Bytes32{addressTopic(owner), addressTopic(spender)}, amount)
}

// Mint creates amount new tokens for to. Only the minter may mint.
func (t *Token) Mint(caller, to thor.Address, amount *big.Int) error {
	meta, err := t.metadata.Get()
	if err != nil {
		return err
	}
	if caller != meta.Minter {
		return ErrNotMinter
	}
	return t.mint(to, amount)
}

// MintGenesis credits an initial balance without minter checks.
func (t *Token) MintGenesis(to thor.Address, amount *big.Int) error {
	return t.mint(to, amount)
}

func (t *Token) mint(to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrZeroRecipient
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return errors.Wrap(err, "failed to update total supply")
	}
	return t.sctx.Log(transferEvent, []thor.Bytes32{{}, addressTopic(to)}, amount)
}

// Burn destroys amount of from's tokens.
func (t *Token) Burn(from thor.Address, amount *big.Int) error {
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.balances.Set(from, new(big.Int).Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to update total supply")
	}
	return t.sctx.Log(transferEvent, []thor.Bytes32{addressTopic(from), {}}, amount)
}
