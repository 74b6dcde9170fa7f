// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
)

func TestEmbeddedABIs(t *testing.T) {
	names := Names()
	assert.ElementsMatch(t, []string{"Bribe", "BribeFactory", "Escrow", "PairFactory", "PoolFactory", "Token", "Vesting", "Voter"}, names)

	for _, name := range names {
		_, err := abi.New(MustABI(name))
		assert.NoError(t, err, name)
	}
	assert.Panics(t, func() { MustABI("Missing") })
}
