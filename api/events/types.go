// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/logdb"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Options struct {
	Offset         uint64 `json:"offset,omitempty"`
	Limit          uint64 `json:"limit,omitempty"`
	IncludeIndexes bool   `json:"includeIndexes,omitempty"`
}

type Range struct {
	Unit logdb.RangeType `json:"unit,omitempty"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != logdb.Block && r.Unit != logdb.Time {
		return fmt.Errorf("range.unit must be either 'block' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

type EventFilter struct {
	CriteriaSet []*types.EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range                 `json:"range,omitempty"`
	Options     *Options               `json:"options,omitempty"`
	Order       logdb.Order            `json:"order,omitempty"`
}

func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{Unit: r.Unit, To: math.MaxInt64}
	if rng.Unit == "" {
		rng.Unit = logdb.Block
	}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	}
	return rng
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range: convertRange(filter.Range),
		Options: &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		},
		Order: filter.Order,
	}
	if len(filter.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, criterion := range filter.CriteriaSet {
			f.CriteriaSet[i] = &logdb.EventCriteria{
				Address: criterion.Address,
				Topics:  criterion.Topics(),
			}
		}
	}
	return f
}

func convertEvent(event *logdb.Event, addIndexes bool) *types.FilteredEvent {
	fe := &types.FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: types.LogMeta{
			BlockID:        event.BlockID,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			TxID:           event.TxID,
			TxOrigin:       event.TxOrigin,
			ClauseIndex:    event.ClauseIndex,
		},
	}
	if addIndexes {
		index := event.Index
		fe.Meta.LogIndex = &index
	}

	fe.Topics = make([]*thor.Bytes32, 0)
	for i := range 5 {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	return fe
}
