// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Event represents a contract event log.
type Event struct {
	// address of the contract that generated the event
	Address thor.Address
	// list of topics provided by the contract.
	Topics []thor.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Output output of clause execution.
type Output struct {
	// events produced by the clause
	Events Events
	// abi-encoded return data
	Data []byte
}

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID        thor.Bytes32
	Origin      thor.Address
	BlockNumber uint32
	BlockTime   uint64
	StateRoot   thor.Bytes32
	// if the tx reverted
	Reverted bool
	// reason of revert, empty if not reverted
	RevertReason string
	// outputs of clauses in tx
	Outputs []*Output
}

// Events flattens the events of all outputs.
func (r *Receipt) Events() Events {
	var all Events
	for _, o := range r.Outputs {
		all = append(all, o.Events...)
	}
	return all
}
