// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// CallData represents contract-call body
type CallData struct {
	Data   string        `json:"data"`
	Caller *thor.Address `json:"caller"`
}

// BatchCallData executes a batch of clauses, atomically and without committing.
type BatchCallData struct {
	Clauses types.Clauses `json:"clauses"`
	Caller  *thor.Address `json:"caller"`
}

type CallResult struct {
	Data        string         `json:"data"`
	Events      []*types.Event `json:"events"`
	Reverted    bool           `json:"reverted"`
	RevertError string         `json:"revertError"`
}

type BatchCallResults []*CallResult

// convertReceipt yields one result per clause, or a single reverted result.
func convertReceipt(receipt *tx.Receipt) BatchCallResults {
	if receipt.Reverted {
		return BatchCallResults{{
			Data:        "0x",
			Events:      []*types.Event{},
			Reverted:    true,
			RevertError: receipt.RevertReason,
		}}
	}
	results := make(BatchCallResults, len(receipt.Outputs))
	for i, output := range receipt.Outputs {
		events := make([]*types.Event, len(output.Events))
		for j, e := range output.Events {
			events[j] = types.ConvertEvent(e)
		}
		results[i] = &CallResult{
			Data:   hexutil.Encode(output.Data),
			Events: events,
		}
	}
	return results
}
