// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// EventMessage is pushed to subscribers for every matching event.
type EventMessage struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
	Meta    types.LogMeta  `json:"meta"`
}

func convertEvent(head runtime.Head, receipt *tx.Receipt, clauseIndex uint32, logIndex uint32, event *tx.Event) *EventMessage {
	topics := make([]thor.Bytes32, len(event.Topics))
	copy(topics, event.Topics)
	return &EventMessage{
		Address: event.Address,
		Topics:  topics,
		Data:    hexutil.Encode(event.Data),
		Meta: types.LogMeta{
			BlockID:        head.ID,
			BlockNumber:    head.Number,
			BlockTimestamp: head.Time,
			TxID:           receipt.TxID,
			TxOrigin:       receipt.Origin,
			ClauseIndex:    clauseIndex,
			LogIndex:       &logIndex,
		},
	}
}
