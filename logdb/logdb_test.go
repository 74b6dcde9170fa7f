// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/logdb"
	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

var (
	voterAddr   = thor.BytesToAddress([]byte("Voter"))
	vestingAddr = thor.BytesToAddress([]byte("Vesting"))
	votedTopic  = thor.Blake2b([]byte("Voted"))
	claimTopic  = thor.Blake2b([]byte("Claim"))
)

func newReceipt(reverted bool, events ...*tx.Event) *tx.Receipt {
	return &tx.Receipt{
		TxID:     datagen.RandomHash(),
		Origin:   datagen.RandAddress(),
		Reverted: reverted,
		Outputs:  []*tx.Output{{Events: events}},
	}
}

func newEvent(addr thor.Address, topics ...thor.Bytes32) *tx.Event {
	return &tx.Event{Address: addr, Topics: topics, Data: []byte{1, 2, 3}}
}

// writeBlocks writes n blocks, each holding a vote, a claim and a reverted vote.
func writeBlocks(t *testing.T, db *logdb.LogDB, n int) []thor.Bytes32 {
	w := db.NewWriter()
	ids := make([]thor.Bytes32, 0, n)
	for i := 1; i <= n; i++ {
		id := datagen.RandomHash()
		ids = append(ids, id)
		require.NoError(t, w.Write(id, uint32(i), uint64(i*10), []*tx.Receipt{
			newReceipt(false, newEvent(voterAddr, votedTopic, thor.BytesToBytes32([]byte{byte(i)}))),
			newReceipt(true, newEvent(voterAddr, votedTopic)),
			newReceipt(false, newEvent(vestingAddr, claimTopic)),
		}))
	}
	assert.Equal(t, 2*n, w.UncommittedCount())
	require.NoError(t, w.Commit())
	assert.Zero(t, w.UncommittedCount())
	return ids
}

func newDB(t *testing.T) *logdb.LogDB {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFilterEvents(t *testing.T) {
	db := newDB(t)
	ids := writeBlocks(t, db, 10)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, ids[0], all[0].BlockID)
	assert.Equal(t, uint32(1), all[0].BlockNumber)
	assert.Equal(t, uint64(10), all[0].BlockTime)
	assert.Equal(t, uint32(0), all[0].Index)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, vestingAddr, all[1].Address)
	assert.Equal(t, []byte{1, 2, 3}, all[0].Data)
	assert.Nil(t, all[0].Topics[2])

	tests := []struct {
		name   string
		filter *logdb.EventFilter
		want   int
	}{
		{"by address", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{{Address: &voterAddr}},
		}, 10},
		{"by topic", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*thor.Bytes32{&claimTopic}}},
		}, 10},
		{"any of criteria", &logdb.EventFilter{
			CriteriaSet: []*logdb.EventCriteria{
				{Address: &voterAddr, Topics: [5]*thor.Bytes32{nil, ptr(thor.BytesToBytes32([]byte{3}))}},
				{Address: &vestingAddr},
			},
		}, 11},
		{"block range", &logdb.EventFilter{
			Range: &logdb.Range{Unit: logdb.Block, From: 2, To: 4},
		}, 6},
		{"open block range", &logdb.EventFilter{
			Range: &logdb.Range{Unit: logdb.Block, From: 9},
		}, 4},
		{"time range", &logdb.EventFilter{
			Range: &logdb.Range{Unit: logdb.Time, From: 50, To: 60},
		}, 4},
		{"limit", &logdb.EventFilter{
			Options: &logdb.Options{Offset: 18, Limit: 10},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}

	desc, err := db.FilterEvents(ctx, &logdb.EventFilter{Order: logdb.DESC, Options: &logdb.Options{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, desc, 1)
	assert.Equal(t, ids[9], desc[0].BlockID)
	assert.Equal(t, vestingAddr, desc[0].Address)
}

func TestNewestBlockAndTruncate(t *testing.T) {
	db := newDB(t)

	newest, err := db.NewestBlockID()
	require.NoError(t, err)
	assert.True(t, newest.IsZero())

	ids := writeBlocks(t, db, 5)
	newest, err = db.NewestBlockID()
	require.NoError(t, err)
	assert.Equal(t, ids[4], newest)

	has, err := db.HasBlockID(ids[2])
	require.NoError(t, err)
	assert.True(t, has)

	w := db.NewWriter()
	require.NoError(t, w.Truncate(3))
	require.NoError(t, w.Commit())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	has, err = db.HasBlockID(ids[3])
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRollback(t *testing.T) {
	db := newDB(t)
	w := db.NewWriter()
	require.NoError(t, w.Write(datagen.RandomHash(), 1, 10, []*tx.Receipt{newReceipt(false, newEvent(voterAddr, votedTopic))}))
	require.NoError(t, w.Rollback())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func ptr(b thor.Bytes32) *thor.Bytes32 { return &b }
