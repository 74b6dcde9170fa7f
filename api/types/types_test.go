// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/test/datagen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

func TestClausesDecode(t *testing.T) {
	to := datagen.RandAddress()

	clauses, err := Clauses{{To: &to, Data: "0xa9059cbb"}}.Decode()
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, to, clauses[0].To())
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, clauses[0].Data())
	assert.Equal(t, "0xa9059cbb", ConvertClause(clauses[0]).Data)

	_, err = Clauses{{To: &to, Data: "0x00"}, {Data: "0x00"}}.Decode()
	assert.EqualError(t, err, "clauses[1].to: required")

	_, err = Clauses{{To: &to, Data: "zz"}}.Decode()
	assert.ErrorContains(t, err, "clauses[0].data")

	_, err = Clauses{nil}.Decode()
	assert.EqualError(t, err, "clauses[0]: null not allowed")
}

func TestEventCriteriaMatch(t *testing.T) {
	addr := datagen.RandAddress()
	t0, t1 := datagen.RandomHash(), datagen.RandomHash()
	event := &tx.Event{Address: addr, Topics: []thor.Bytes32{t0, t1}}

	other := datagen.RandAddress()
	missing := datagen.RandomHash()
	tests := []struct {
		name     string
		criteria EventCriteria
		match    bool
	}{
		{"empty", EventCriteria{}, true},
		{"address", EventCriteria{Address: &addr}, true},
		{"other address", EventCriteria{Address: &other}, false},
		{"topics", EventCriteria{TopicSet: TopicSet{Topic0: &t0, Topic1: &t1}}, true},
		{"topic mismatch", EventCriteria{TopicSet: TopicSet{Topic1: &t0}}, false},
		{"topic beyond event", EventCriteria{TopicSet: TopicSet{Topic3: &missing}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, tt.criteria.Match(event))
		})
	}
}
