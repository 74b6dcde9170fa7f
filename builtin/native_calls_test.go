// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/vesting"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

type chain struct {
	t        *testing.T
	state    *state.State
	block    *xenv.BlockContext
	governor thor.Address
	council  thor.Address
	knx      thor.Address
	xknx     thor.Address
	reward   thor.Address
}

func newChain(t *testing.T) *chain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := &chain{
		t:        t,
		state:    state.NewStater(db).NewState(),
		block:    &xenv.BlockContext{Number: 1, Time: 10*thor.Epoch + 100},
		governor: datagen.RandAddress(),
		council:  datagen.RandAddress(),
		knx:      thor.BytesToAddress([]byte("KNX")),
		xknx:     thor.BytesToAddress([]byte("xKNX")),
		reward:   thor.BytesToAddress([]byte("USDC")),
	}
	for addr, symbol := range map[thor.Address]string{c.knx: "KNX", c.xknx: "xKNX", c.reward: "USDC"} {
		require.NoError(t, builtin.Token.At(addr, c.state, nil).Initialize(symbol, symbol, c.governor))
	}
	require.NoError(t, builtin.Escrow.Native(c.state, nil).Initialize(c.governor, c.knx))
	require.NoError(t, builtin.PoolFactory.Native(c.state, nil).Initialize(c.governor))
	require.NoError(t, builtin.Voter.Native(c.state, nil).Initialize(c.governor, c.council, []thor.Address{c.reward}))
	require.NoError(t, builtin.Vesting.Native(c.state, nil).Initialize(c.governor, vesting.Config{
		DepositToken:     c.xknx,
		ClaimToken:       c.knx,
		Duration:         100,
		DirectRefundRate: 10,
	}))
	return c
}

func (c *chain) mint(tokenAddr, to thor.Address, amount int64) {
	require.NoError(c.t, builtin.Token.At(tokenAddr, c.state, nil).MintGenesis(to, big.NewInt(amount)))
}

func (c *chain) method(to thor.Address, name string) *abi.Method {
	var contractABI *abi.ABI
	switch to {
	case builtin.Voter.Address:
		contractABI = builtin.Voter.ABI
	case builtin.Vesting.Address:
		contractABI = builtin.Vesting.ABI
	case builtin.Escrow.Address:
		contractABI = builtin.Escrow.ABI
	case builtin.PairFactory.Address:
		contractABI = builtin.PairFactory.ABI
	case builtin.PoolFactory.Address:
		contractABI = builtin.PoolFactory.ABI
	case builtin.BribeFactory.Address:
		contractABI = builtin.BribeFactory.ABI
	default:
		if ok, _ := builtin.Token.At(to, c.state, nil).Exists(); ok {
			contractABI = builtin.Token.ABI
		} else {
			contractABI = builtin.Bribe.ABI
		}
	}
	method, found := contractABI.MethodByName(name)
	require.True(c.t, found, name)
	return method
}

func (c *chain) exec(caller, to thor.Address, readonly bool, name string, args ...any) ([]byte, error) {
	method := c.method(to, name)
	input, err := method.EncodeInput(args...)
	require.NoError(c.t, err)

	call, err := builtin.HandleNativeCall(c.state, to, input)
	if err != nil {
		return nil, err
	}
	require.Equal(c.t, name, call.Method().Name())

	env := xenv.New(call.Method(), c.state, c.block, &xenv.TransactionContext{Origin: caller}, caller, to, input)
	return call.Run(env, readonly)
}

// send runs a state changing call and requires it to succeed.
func (c *chain) send(caller, to thor.Address, name string, args ...any) []byte {
	out, err := c.exec(caller, to, false, name, args...)
	require.NoError(c.t, err, name)
	return out
}

// query runs a readonly call and decodes its output into v.
func (c *chain) query(to thor.Address, v any, name string, args ...any) {
	out, err := c.exec(thor.Address{}, to, true, name, args...)
	require.NoError(c.t, err, name)
	require.NoError(c.t, c.method(to, name).DecodeOutput(out, v), name)
}

func (c *chain) queryBig(to thor.Address, name string, args ...any) *big.Int {
	var v *big.Int
	c.query(to, &v, name, args...)
	return v
}

func (c *chain) queryAddress(to thor.Address, name string, args ...any) thor.Address {
	var v common.Address
	c.query(to, &v, name, args...)
	return thor.Address(v)
}

func TestTokenPrototype(t *testing.T) {
	c := newChain(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	var name string
	c.query(c.knx, &name, "name")
	assert.Equal(t, "KNX", name)
	var decimals uint8
	c.query(c.knx, &decimals, "decimals")
	assert.Equal(t, uint8(18), decimals)
	assert.Equal(t, c.governor, c.queryAddress(c.knx, "minter"))

	c.send(c.governor, c.knx, "mint", common.Address(alice), big.NewInt(1000))
	var ok bool
	require.NoError(t, c.method(c.knx, "transfer").DecodeOutput(
		c.send(alice, c.knx, "transfer", common.Address(bob), big.NewInt(300)), &ok))
	assert.True(t, ok)

	assert.Equal(t, int64(700), c.queryBig(c.knx, "balanceOf", common.Address(alice)).Int64())
	assert.Equal(t, int64(300), c.queryBig(c.knx, "balanceOf", common.Address(bob)).Int64())
	assert.Equal(t, int64(1000), c.queryBig(c.knx, "totalSupply").Int64())

	c.send(alice, c.knx, "approve", common.Address(bob), big.NewInt(200))
	assert.Equal(t, int64(200), c.queryBig(c.knx, "allowance", common.Address(alice), common.Address(bob)).Int64())
	c.send(bob, c.knx, "transferFrom", common.Address(alice), common.Address(bob), big.NewInt(150))
	assert.Equal(t, int64(50), c.queryBig(c.knx, "allowance", common.Address(alice), common.Address(bob)).Int64())

	c.send(bob, c.knx, "burn", big.NewInt(450))
	assert.Equal(t, int64(550), c.queryBig(c.knx, "totalSupply").Int64())

	_, err := c.exec(alice, c.knx, false, "mint", common.Address(alice), big.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.Authorization))
}

func TestEscrowAndVoter(t *testing.T) {
	c := newChain(t)
	alice := datagen.RandAddress()
	c.mint(c.knx, alice, 1000)

	c.send(c.governor, builtin.Escrow.Address, "setVoter", common.Address(builtin.Voter.Address))
	assert.Equal(t, builtin.Voter.Address, c.queryAddress(builtin.Escrow.Address, "voter"))
	assert.Equal(t, c.knx, c.queryAddress(builtin.Escrow.Address, "token"))

	c.send(alice, c.knx, "approve", common.Address(builtin.Escrow.Address), big.NewInt(1000))
	out := c.send(alice, builtin.Escrow.Address, "createLock", big.NewInt(1000), new(big.Int).SetUint64(thor.MaxLockDuration))
	var id *big.Int
	require.NoError(t, c.method(builtin.Escrow.Address, "createLock").DecodeOutput(out, &id))
	assert.Equal(t, int64(1), id.Int64())

	assert.Equal(t, alice, c.queryAddress(builtin.Escrow.Address, "ownerOf", id))
	assert.Equal(t, int64(1), c.queryBig(builtin.Escrow.Address, "tokenCount").Int64())
	var lock struct {
		Amount *big.Int
		End    *big.Int
	}
	c.query(builtin.Escrow.Address, &lock, "locked", id)
	assert.Equal(t, int64(1000), lock.Amount.Int64())
	assert.Equal(t, uint64(0), lock.End.Uint64()%thor.Epoch)
	power := c.queryBig(builtin.Escrow.Address, "balanceOfNFT", id)
	assert.Positive(t, power.Sign())

	tokenA, tokenB := c.knx, c.reward
	out = c.send(alice, builtin.PairFactory.Address, "createPair", common.Address(tokenA), common.Address(tokenB))
	var pair common.Address
	require.NoError(t, c.method(builtin.PairFactory.Address, "createPair").DecodeOutput(out, &pair))
	assert.Equal(t, thor.Address(pair), c.queryAddress(builtin.PairFactory.Address, "getPair", common.Address(tokenB), common.Address(tokenA)))
	assert.Equal(t, int64(1), c.queryBig(builtin.PairFactory.Address, "allPairsLength").Int64())

	c.send(alice, builtin.Voter.Address, "addPair", common.Address(tokenA), common.Address(tokenB))
	assert.Equal(t, int64(1), c.queryBig(builtin.Voter.Address, "poolsLength").Int64())
	assert.Equal(t, thor.Address(pair), c.queryAddress(builtin.Voter.Address, "pools", big.NewInt(0)))

	var info struct {
		Kind   uint8
		Active bool
		Ledger common.Address
	}
	c.query(builtin.Voter.Address, &info, "poolInfo", pair)
	assert.True(t, info.Active)
	assert.Equal(t, thor.Address(info.Ledger), c.queryAddress(builtin.BribeFactory.Address, "ledgers", big.NewInt(0)))

	c.send(alice, builtin.Voter.Address, "vote", id, []common.Address{pair}, []*big.Int{big.NewInt(1)})
	assert.Equal(t, power, c.queryBig(builtin.Voter.Address, "poolWeight", pair))
	assert.Equal(t, power, c.queryBig(builtin.Voter.Address, "totalWeight"))
	assert.Equal(t, power, c.queryBig(builtin.Voter.Address, "votes", id, pair))

	var voted bool
	c.query(builtin.Escrow.Address, &voted, "voted", id)
	assert.True(t, voted)

	// the reward ledger answers through the prototype
	ledger := thor.Address(info.Ledger)
	assert.Equal(t, builtin.Voter.Address, c.queryAddress(ledger, "voter"))
	assert.Equal(t, power, c.queryBig(ledger, "balanceOf", id))
	var rewardTokens []common.Address
	c.query(ledger, &rewardTokens, "rewardTokens")
	assert.Contains(t, rewardTokens, common.Address(c.reward))

	_, err := c.exec(alice, builtin.Voter.Address, false, "vote", id, []common.Address{pair}, []*big.Int{big.NewInt(1)})
	assert.True(t, reverts.Is(err, reverts.StateConflict))

	_, err = c.exec(alice, builtin.Escrow.Address, false, "withdraw", id)
	assert.True(t, reverts.Is(err, reverts.StateConflict))
}

func TestVestingNative(t *testing.T) {
	c := newChain(t)
	alice := datagen.RandAddress()
	c.mint(c.xknx, alice, 1000)
	c.mint(c.knx, builtin.Vesting.Address, 10000)

	assert.Equal(t, c.xknx, c.queryAddress(builtin.Vesting.Address, "depositToken"))
	assert.Equal(t, c.knx, c.queryAddress(builtin.Vesting.Address, "claimToken"))
	assert.Equal(t, int64(100), c.queryBig(builtin.Vesting.Address, "vestingDuration").Int64())
	assert.Equal(t, int64(10), c.queryBig(builtin.Vesting.Address, "directRefundRate").Int64())

	c.send(alice, c.xknx, "approve", common.Address(builtin.Vesting.Address), big.NewInt(1000))
	c.send(alice, builtin.Vesting.Address, "deposit", big.NewInt(1000))
	assert.Equal(t, int64(900), c.queryBig(builtin.Vesting.Address, "balanceOf", common.Address(alice)).Int64())
	assert.Equal(t, int64(100), c.queryBig(c.knx, "balanceOf", common.Address(alice)).Int64())

	c.block.Time += 50
	assert.Equal(t, int64(450), c.queryBig(builtin.Vesting.Address, "claimable", common.Address(alice)).Int64())

	bob := datagen.RandAddress()
	c.send(alice, builtin.Vesting.Address, "claimTo", common.Address(bob))
	assert.Equal(t, int64(450), c.queryBig(c.knx, "balanceOf", common.Address(bob)).Int64())

	var pos struct {
		Balance             *big.Int
		CumulativeClaimable *big.Int
		Claimed             *big.Int
		LastUpdate          *big.Int
	}
	c.query(builtin.Vesting.Address, &pos, "position", common.Address(alice))
	assert.Equal(t, int64(450), pos.Balance.Int64())
	assert.Equal(t, int64(450), pos.Claimed.Int64())
	assert.Equal(t, c.block.Time, pos.LastUpdate.Uint64())

	_, err := c.exec(alice, builtin.Vesting.Address, false, "transfer", common.Address(bob), big.NewInt(1))
	assert.ErrorIs(t, err, vesting.ErrNonTransferable)
	assert.Zero(t, c.queryBig(builtin.Vesting.Address, "allowance", common.Address(alice), common.Address(bob)).Sign())
}

func TestPoolFactoryNative(t *testing.T) {
	c := newChain(t)
	tokenA, tokenB := datagen.RandAddress(), datagen.RandAddress()

	c.send(c.governor, builtin.PoolFactory.Address, "enableFeeAmount", big.NewInt(3000))
	var enabled bool
	c.query(builtin.PoolFactory.Address, &enabled, "feeAmountEnabled", big.NewInt(3000))
	assert.True(t, enabled)

	out := c.send(c.governor, builtin.PoolFactory.Address, "createPool", common.Address(tokenA), common.Address(tokenB), big.NewInt(3000))
	var pool common.Address
	require.NoError(t, c.method(builtin.PoolFactory.Address, "createPool").DecodeOutput(out, &pool))
	assert.Equal(t, thor.Address(pool), c.queryAddress(builtin.PoolFactory.Address, "getPool", common.Address(tokenA), common.Address(tokenB), big.NewInt(3000)))

	c.send(c.governor, builtin.Voter.Address, "addConcentratedPool", common.Address(tokenA), common.Address(tokenB), big.NewInt(3000))
	var active bool
	c.query(builtin.Voter.Address, &active, "isActive", pool)
	assert.True(t, active)
	assert.Equal(t, int64(1), c.queryBig(builtin.BribeFactory.Address, "ledgersLength").Int64())
}

func TestHandleNativeCallErrors(t *testing.T) {
	c := newChain(t)

	transfer := c.method(c.knx, "transfer")
	id := transfer.ID()

	_, err := builtin.HandleNativeCall(c.state, datagen.RandAddress(), id[:])
	assert.ErrorIs(t, err, builtin.ErrNoContract)

	_, err = builtin.HandleNativeCall(c.state, builtin.Voter.Address, id[:])
	assert.ErrorIs(t, err, builtin.ErrUnknownMethod)

	_, err = builtin.HandleNativeCall(c.state, c.knx, []byte{1, 2})
	assert.ErrorIs(t, err, builtin.ErrUnknownMethod)

	vote := c.method(builtin.Voter.Address, "vote").ID()
	_, err = builtin.HandleNativeCall(c.state, c.knx, vote[:])
	assert.ErrorIs(t, err, builtin.ErrUnknownMethod)

	_, err = c.exec(c.governor, c.knx, true, "mint", common.Address(c.governor), big.NewInt(1))
	assert.EqualError(t, err, "write protection")

	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	_, err = c.exec(c.governor, builtin.Escrow.Address, true, "ownerOf", huge)
	assert.True(t, reverts.Is(err, reverts.InvalidInput))
}
