// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

func TestTransaction(t *testing.T) {
	to := thor.BytesToAddress([]byte("Voter"))
	origin := thor.BytesToAddress([]byte("alice"))

	trx := NewBuilder().
		Origin(origin).
		Nonce(1).
		Clause(NewClause(to).WithData([]byte{1, 2, 3, 4})).
		Build()

	assert.Equal(t, origin, trx.Origin())
	assert.Equal(t, uint64(1), trx.Nonce())
	require.Len(t, trx.Clauses(), 1)
	assert.Equal(t, to, trx.Clauses()[0].To())
	assert.Equal(t, []byte{1, 2, 3, 4}, trx.Clauses()[0].Data())

	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, trx.ID(), decoded.ID())

	other := NewBuilder().Origin(origin).Nonce(2).Build()
	assert.NotEqual(t, trx.ID(), other.ID())
}

func TestClauseDataIsCopied(t *testing.T) {
	data := []byte{1}
	c := NewClause(thor.Address{}).WithData(data)
	data[0] = 9
	assert.Equal(t, []byte{1}, c.Data())

	out := c.Data()
	out[0] = 9
	assert.Equal(t, []byte{1}, c.Data())
}

func TestReceiptEvents(t *testing.T) {
	r := &Receipt{Outputs: []*Output{
		{Events: Events{{Address: thor.Address{1}}}},
		{},
		{Events: Events{{Address: thor.Address{2}}, {Address: thor.Address{3}}}},
	}}
	assert.Len(t, r.Events(), 3)
	assert.Equal(t, thor.Address{3}, r.Events()[2].Address)
}
