// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pairs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

func newContext(t *testing.T, name string) *solidity.Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return solidity.NewContext(thor.BytesToAddress([]byte(name)), state.NewStater(db).NewState(), nil)
}

func TestPairFactory(t *testing.T) {
	f := NewPairFactory(newContext(t, "PairFactory"))
	a, b := datagen.RandAddress(), datagen.RandAddress()

	_, err := f.CreatePair(a, a)
	assert.ErrorIs(t, err, ErrIdenticalTokens)
	_, err = f.CreatePair(a, thor.Address{})
	assert.ErrorIs(t, err, ErrZeroToken)

	missing, err := f.GetPair(a, b)
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	pair, err := f.CreatePair(a, b)
	require.NoError(t, err)
	assert.False(t, pair.IsZero())

	_, err = f.CreatePair(b, a)
	assert.ErrorIs(t, err, ErrPairExists)

	for _, tokens := range [][2]thor.Address{{a, b}, {b, a}} {
		got, err := f.GetPair(tokens[0], tokens[1])
		require.NoError(t, err)
		assert.Equal(t, pair, got)
	}

	n, err := f.AllPairsLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	first, err := f.AllPairs(0)
	require.NoError(t, err)
	assert.Equal(t, pair, first)
	_, err = f.AllPairs(1)
	assert.Error(t, err)
}

func TestPoolFactory(t *testing.T) {
	f := NewPoolFactory(newContext(t, "PoolFactory"))
	governor := datagen.RandAddress()
	require.NoError(t, f.Initialize(governor))
	assert.ErrorIs(t, f.Initialize(governor), ErrAlreadyInitialized)

	a, b := datagen.RandAddress(), datagen.RandAddress()

	_, err := f.CreatePool(a, b, 3000)
	assert.ErrorIs(t, err, ErrFeeNotEnabled)

	assert.ErrorIs(t, f.EnableFeeAmount(a, 3000), ErrNotGovernor)
	assert.ErrorIs(t, f.EnableFeeAmount(governor, 0), ErrInvalidFee)
	assert.ErrorIs(t, f.EnableFeeAmount(governor, MaxFee), ErrInvalidFee)
	require.NoError(t, f.EnableFeeAmount(governor, 3000))
	require.NoError(t, f.EnableFeeAmount(governor, 500))
	assert.ErrorIs(t, f.EnableFeeAmount(governor, 3000), ErrFeeEnabled)

	pool3000, err := f.CreatePool(a, b, 3000)
	require.NoError(t, err)
	pool500, err := f.CreatePool(b, a, 500)
	require.NoError(t, err)
	assert.NotEqual(t, pool3000, pool500)

	_, err = f.CreatePool(b, a, 3000)
	assert.ErrorIs(t, err, ErrPoolExists)

	got, err := f.GetPool(b, a, 3000)
	require.NoError(t, err)
	assert.Equal(t, pool3000, got)

	got, err = f.GetPool(a, b, 100)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
