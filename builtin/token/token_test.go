// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

func newTestToken(t *testing.T) (*Token, *xenv.Environment, thor.Address) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	env := xenv.New(nil, st, &xenv.BlockContext{Number: 1, Time: 1000}, &xenv.TransactionContext{}, thor.Address{}, thor.Address{}, nil)
	minter := datagen.RandAddress()
	tk := New(thor.BytesToAddress([]byte("KNX")), st, env)
	require.NoError(t, tk.Initialize("Kinetix", "KNX", minter))
	return tk, env, minter
}

func TestInitialize(t *testing.T) {
	tk, _, minter := newTestToken(t)

	exists, err := tk.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	meta, err := tk.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Kinetix", meta.Name)
	assert.Equal(t, "KNX", meta.Symbol)
	assert.Equal(t, minter, meta.Minter)

	assert.ErrorIs(t, tk.Initialize("x", "y", minter), ErrAlreadyInitialized)
}

func TestMintTransferBurn(t *testing.T) {
	tk, env, minter := newTestToken(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	assert.ErrorIs(t, tk.Mint(alice, alice, big.NewInt(1)), ErrNotMinter)
	require.NoError(t, tk.Mint(minter, alice, big.NewInt(1000)))

	require.NoError(t, tk.Transfer(alice, bob, big.NewInt(300)))
	assert.ErrorIs(t, tk.Transfer(alice, bob, big.NewInt(701)), ErrInsufficientBalance)
	assert.ErrorIs(t, tk.Transfer(alice, thor.Address{}, big.NewInt(1)), ErrZeroRecipient)

	require.NoError(t, tk.Burn(bob, big.NewInt(100)))
	assert.True(t, reverts.Is(tk.Burn(bob, big.NewInt(201)), reverts.Solvency))

	bal, err := tk.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(700), bal)
	bal, err = tk.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), bal)

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900), supply)

	// mint, transfer, burn
	events := env.Events()
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, transferEvent.ID(), ev.Topics[0])
		assert.Equal(t, tk.Address(), ev.Address)
	}
	assert.True(t, events[0].Topics[1].IsZero())
	assert.True(t, events[2].Topics[2].IsZero())
}

func TestTransferFrom(t *testing.T) {
	tk, _, minter := newTestToken(t)
	owner, spender, to := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tk.Mint(minter, owner, big.NewInt(100)))

	assert.ErrorIs(t, tk.TransferFrom(spender, owner, to, big.NewInt(1)), ErrInsufficientAllowance)

	require.NoError(t, tk.Approve(owner, spender, big.NewInt(60)))
	require.NoError(t, tk.TransferFrom(spender, owner, to, big.NewInt(50)))

	left, err := tk.Allowance(owner, spender)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), left)

	assert.ErrorIs(t, tk.TransferFrom(spender, owner, to, big.NewInt(11)), ErrInsufficientAllowance)

	// owners move their own tokens without allowance
	require.NoError(t, tk.TransferFrom(owner, owner, to, big.NewInt(50)))
	bal, err := tk.BalanceOf(to)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal)
}

func TestSelfTransfer(t *testing.T) {
	tk, _, minter := newTestToken(t)
	alice := datagen.RandAddress()
	require.NoError(t, tk.Mint(minter, alice, big.NewInt(5)))
	require.NoError(t, tk.Transfer(alice, alice, big.NewInt(5)))

	bal, err := tk.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), bal)
}
