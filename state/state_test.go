// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

func M(a ...any) []any {
	return a
}

func newTestStater(t *testing.T) (*Stater, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db), db
}

func TestStorage(t *testing.T) {
	stater, _ := newTestStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))
	value := thor.BytesToBytes32([]byte("value"))

	assert.Equal(t, M(thor.Bytes32{}, nil), M(st.GetStorage(addr, key)))

	st.SetStorage(addr, key, value)
	assert.Equal(t, M(value, nil), M(st.GetStorage(addr, key)))

	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	expected, _ := rlp.EncodeToBytes([]byte("value"))
	assert.Equal(t, rlp.RawValue(expected), raw)

	st.SetStorage(addr, key, thor.Bytes32{})
	raw, err = st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	stater, _ := newTestStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))

	type pair struct {
		A uint64
		B []byte
	}

	assert.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&pair{7, []byte("x")})
	}))

	var got pair
	assert.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, pair{7, []byte("x")}, got)

	// rlp lists are reported as their hash
	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, M(thor.Blake2b(raw), nil), M(st.GetStorage(addr, key)))
}

func TestCheckpointRevert(t *testing.T) {
	stater, _ := newTestStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("key"))

	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{1}))
	chk := st.NewCheckpoint()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{2}))
	inner := st.NewCheckpoint()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{3}))

	st.RevertTo(inner)
	assert.Equal(t, M(thor.BytesToBytes32([]byte{2}), nil), M(st.GetStorage(addr, key)))

	st.RevertTo(chk)
	assert.Equal(t, M(thor.BytesToBytes32([]byte{1}), nil), M(st.GetStorage(addr, key)))

	// base level survives a full revert
	st.RevertTo(0)
	assert.Equal(t, M(thor.Bytes32{}, nil), M(st.GetStorage(addr, key)))
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{4}))
	assert.Equal(t, 1, st.Stage().Len())
}

func TestStageCommit(t *testing.T) {
	stater, db := newTestStater(t)
	st := stater.NewState()

	addr := thor.BytesToAddress([]byte("account1"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2")))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())

	h1 := stage.Hash(thor.Bytes32{})
	assert.Equal(t, h1, st.Stage().Hash(thor.Bytes32{}), "hash is deterministic")
	assert.NotEqual(t, h1, stage.Hash(thor.Bytes32{1}), "hash chains onto parent")

	batch := db.NewBatch()
	require.NoError(t, stage.Commit(batch))
	require.NoError(t, batch.Write())

	// fresh state reads committed values
	st2 := stater.NewState()
	assert.Equal(t, M(thor.BytesToBytes32([]byte("v1")), nil), M(st2.GetStorage(addr, k1)))

	// clearing a slot deletes the key
	st2.SetStorage(addr, k1, thor.Bytes32{})
	batch = db.NewBatch()
	require.NoError(t, st2.Stage().Commit(batch))
	require.NoError(t, batch.Write())

	has, err := db.Has(StorageBucket.Key(storageKey{addr, k1}.bytes()))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.Equal(t, M(thor.Bytes32{}, nil), M(New(db, nil).GetStorage(addr, k1)))
	assert.Equal(t, M(thor.Bytes32{}, nil), M(stater.NewState().GetStorage(addr, k1)))
}

func BenchmarkStorageGet(b *testing.B) {
	db, _ := lvldb.NewMem()
	st := NewStater(db).NewState()

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))
	st.SetStorage(addr, key, thor.Bytes32{1})
	for b.Loop() {
		st.GetStorage(addr, key)
	}
}
