// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/binary"
	"io"
)

// GenesisParentID is the parent id of the genesis block, so the genesis number is 0.
var GenesisParentID = Bytes32{0xff, 0xff, 0xff, 0xff}

// BlockNumber extracts the block number from a block id.
func BlockNumber(blockID Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}

// NewBlockID computes the id of the block following parentID.
func NewBlockID(parentID Bytes32, time uint64, stateRoot Bytes32) (id Bytes32) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], time)

	id = Blake2bFn(func(w io.Writer) {
		w.Write(parentID[:])
		w.Write(b[:])
		w.Write(stateRoot[:])
	})
	binary.BigEndian.PutUint32(id[:], BlockNumber(parentID)+1)
	return
}
