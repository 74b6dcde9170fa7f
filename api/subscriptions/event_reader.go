// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
)

// eventReader turns blocks into event messages, in chain order and without gaps.
type eventReader struct {
	rt     *runtime.Runtime
	filter *types.EventCriteria
	next   uint32
}

func newEventReader(rt *runtime.Runtime, position uint32, filter *types.EventCriteria) *eventReader {
	return &eventReader{
		rt:     rt,
		filter: filter,
		next:   position + 1,
	}
}

// Read returns messages of all blocks up to the given number that were not read yet.
// Published blocks may be passed in to save the lookup.
func (er *eventReader) Read(upTo uint32, published *runtime.Block) ([]any, error) {
	var msgs []any
	for ; er.next <= upTo; er.next++ {
		blk := published
		if blk == nil || blk.Number != er.next {
			var err error
			if blk, err = er.rt.GetBlock(er.next); err != nil {
				return nil, err
			}
		}
		msgs = append(msgs, er.filterBlock(blk)...)
	}
	return msgs, nil
}

func (er *eventReader) filterBlock(blk *runtime.Block) []any {
	var (
		msgs     []any
		logIndex uint32
	)
	for _, receipt := range blk.Receipts {
		if receipt.Reverted {
			continue
		}
		for i, output := range receipt.Outputs {
			for _, event := range output.Events {
				if er.filter.Match(event) {
					msgs = append(msgs, convertEvent(blk.Head, receipt, uint32(i), logIndex, event))
				}
				logIndex++
			}
		}
	}
	return msgs
}
