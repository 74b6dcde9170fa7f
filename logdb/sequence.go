// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"errors"
	"math"
)

type sequence int64

const (
	blockNumBits = 28
	indexBits    = 31

	maxBlockNumber = 1<<blockNumBits - 1
	maxIndex       = 1<<indexBits - 1
)

func newSequence(blockNum uint32, index uint32) (sequence, error) {
	if blockNum > maxBlockNumber {
		return 0, errors.New("block number out of range: uint28")
	}
	if index > maxIndex {
		return 0, errors.New("index out of range: uint31")
	}
	return (sequence(blockNum) << indexBits) | sequence(index), nil
}

func (s sequence) BlockNumber() uint32 {
	return uint32(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}

// blockRange returns the sequence bounds covering all events of blocks [from, to].
func blockRange(from, to uint64) (sequence, sequence) {
	if from > maxBlockNumber {
		return math.MaxInt64, math.MaxInt64
	}
	if to > maxBlockNumber {
		to = maxBlockNumber
	}
	return sequence(from) << indexBits, sequence(to)<<indexBits | maxIndex
}
