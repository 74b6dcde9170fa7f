// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/gen"
)

var (
	contractABI          = mustLoadABI()
	depositEvent         = mustEvent("Deposit")
	directRefundEvent    = mustEvent("DirectRefund")
	claimEvent           = mustEvent("Claim")
	vestingUpdateEvent   = mustEvent("VestingUpdate")
	withdrawTokenEvent   = mustEvent("WithdrawToken")
	transferEvent        = mustEvent("Transfer")
	governorChangedEvent = mustEvent("GovernorChanged")
)

func mustLoadABI() *abi.ABI {
	a, err := abi.New(gen.MustABI("Vesting"))
	if err != nil {
		panic(err)
	}
	return a
}

func mustEvent(name string) *abi.Event {
	ev, ok := contractABI.EventByName(name)
	if !ok {
		panic("vesting: event not found " + name)
	}
	return ev
}
