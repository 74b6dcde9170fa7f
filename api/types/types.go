// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types holds the json forms shared by the api modules.
package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// Clause represents a transaction clause
type Clause struct {
	To   *thor.Address `json:"to"`
	Data string        `json:"data"`
}

// Clauses array of clauses
type Clauses []*Clause

// ConvertClause convert a raw clause into a json format clause
func ConvertClause(c *tx.Clause) *Clause {
	to := c.To()
	return &Clause{
		To:   &to,
		Data: hexutil.Encode(c.Data()),
	}
}

// Decode converts the json clause into a raw clause.
func (c *Clause) Decode() (*tx.Clause, error) {
	if c.To == nil {
		return nil, fmt.Errorf("to: required")
	}
	data, err := hexutil.Decode(c.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return tx.NewClause(*c.To).WithData(data), nil
}

// Decode converts all clauses, reporting the index of the first bad one.
func (cs Clauses) Decode() ([]*tx.Clause, error) {
	clauses := make([]*tx.Clause, 0, len(cs))
	for i, c := range cs {
		if c == nil {
			return nil, fmt.Errorf("clauses[%d]: null not allowed", i)
		}
		clause, err := c.Decode()
		if err != nil {
			return nil, fmt.Errorf("clauses[%d].%w", i, err)
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// Event represents a contract event
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

func ConvertEvent(e *tx.Event) *Event {
	topics := make([]thor.Bytes32, len(e.Topics))
	copy(topics, e.Topics)
	return &Event{
		Address: e.Address,
		Topics:  topics,
		Data:    hexutil.Encode(e.Data),
	}
}

// Output is the result of one clause.
type Output struct {
	Events []*Event `json:"events"`
	Data   string   `json:"data"`
}

// ReceiptMeta locates a receipt in the chain.
type ReceiptMeta struct {
	BlockNumber    uint32       `json:"blockNumber"`
	BlockTimestamp uint64       `json:"blockTimestamp"`
	TxID           thor.Bytes32 `json:"txID"`
	TxOrigin       thor.Address `json:"txOrigin"`
}

// Receipt for json marshal
type Receipt struct {
	Reverted     bool         `json:"reverted"`
	RevertReason string       `json:"revertReason,omitempty"`
	StateRoot    thor.Bytes32 `json:"stateRoot"`
	Outputs      []*Output    `json:"outputs"`
	Meta         ReceiptMeta  `json:"meta"`
}

// ConvertReceipt convert a raw receipt into a json format receipt
func ConvertReceipt(r *tx.Receipt) *Receipt {
	outputs := make([]*Output, len(r.Outputs))
	for i, o := range r.Outputs {
		events := make([]*Event, len(o.Events))
		for j, e := range o.Events {
			events[j] = ConvertEvent(e)
		}
		outputs[i] = &Output{
			Events: events,
			Data:   hexutil.Encode(o.Data),
		}
	}
	return &Receipt{
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		StateRoot:    r.StateRoot,
		Outputs:      outputs,
		Meta: ReceiptMeta{
			BlockNumber:    r.BlockNumber,
			BlockTimestamp: r.BlockTime,
			TxID:           r.TxID,
			TxOrigin:       r.Origin,
		},
	}
}

// LogMeta represents metadata for logs
type LogMeta struct {
	BlockID        thor.Bytes32 `json:"blockID"`
	BlockNumber    uint32       `json:"blockNumber"`
	BlockTimestamp uint64       `json:"blockTimestamp"`
	TxID           thor.Bytes32 `json:"txID"`
	TxOrigin       thor.Address `json:"txOrigin"`
	ClauseIndex    uint32       `json:"clauseIndex"`
	LogIndex       *uint32      `json:"logIndex,omitempty"`
}

// FilteredEvent is an event with its position in the chain.
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    LogMeta         `json:"meta"`
}

// TopicSet matches up to five topics, nil matches anything.
type TopicSet struct {
	Topic0 *thor.Bytes32 `json:"topic0"`
	Topic1 *thor.Bytes32 `json:"topic1"`
	Topic2 *thor.Bytes32 `json:"topic2"`
	Topic3 *thor.Bytes32 `json:"topic3"`
	Topic4 *thor.Bytes32 `json:"topic4"`
}

// Topics returns the set in logdb order.
func (ts *TopicSet) Topics() [5]*thor.Bytes32 {
	return [5]*thor.Bytes32{ts.Topic0, ts.Topic1, ts.Topic2, ts.Topic3, ts.Topic4}
}

// Match reports whether the event carries every non-nil topic.
func (ts *TopicSet) Match(topics []thor.Bytes32) bool {
	for i, want := range ts.Topics() {
		if want == nil {
			continue
		}
		if i >= len(topics) || topics[i] != *want {
			return false
		}
	}
	return true
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	TopicSet
}

// Match reports whether the event satisfies the criteria.
func (c *EventCriteria) Match(e *tx.Event) bool {
	if c.Address != nil && *c.Address != e.Address {
		return false
	}
	return c.TopicSet.Match(e.Topics)
}
