// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pairs

import (
	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/gen"
)

var (
	pairFactoryABI = mustLoadABI("PairFactory")
	poolFactoryABI = mustLoadABI("PoolFactory")

	pairCreatedEvent      = mustEvent(pairFactoryABI, "PairCreated")
	poolCreatedEvent      = mustEvent(poolFactoryABI, "PoolCreated")
	feeAmountEnabledEvent = mustEvent(poolFactoryABI, "FeeAmountEnabled")
)

func mustLoadABI(name string) *abi.ABI {
	a, err := abi.New(gen.MustABI(name))
	if err != nil {
		panic(err)
	}
	return a
}

func mustEvent(contract *abi.ABI, name string) *abi.Event {
	ev, ok := contract.EventByName(name)
	if !ok {
		panic("pairs: event not found " + name)
	}
	return ev
}
