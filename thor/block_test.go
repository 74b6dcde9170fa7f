// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBlockID(t *testing.T) {
	root := Blake2b([]byte("root"))

	genesis := NewBlockID(GenesisParentID, 100, root)
	assert.Equal(t, uint32(0), BlockNumber(genesis))

	next := NewBlockID(genesis, 200, root)
	assert.Equal(t, uint32(1), BlockNumber(next))
	assert.NotEqual(t, next, NewBlockID(genesis, 201, root))
	assert.Equal(t, next, NewBlockID(genesis, 200, root))
}
