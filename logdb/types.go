// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockID     thor.Bytes32
	BlockNumber uint32
	BlockTime   uint64
	Index       uint32 // index of the event in its block
	TxID        thor.Bytes32
	TxOrigin    thor.Address
	ClauseIndex uint32
	Address     thor.Address // always a builtin contract address
	Topics      [5]*thor.Bytes32
	Data        []byte
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address
	Topics  [5]*thor.Bytes32
}

// EventFilter selects events matching any of the criteria within the range.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
