// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/gen"
)

var (
	contractABI          = mustLoadABI()
	votedEvent           = mustEvent("Voted")
	abstainedEvent       = mustEvent("Abstained")
	poolAddedEvent       = mustEvent("PoolAdded")
	poolRemovedEvent     = mustEvent("PoolRemoved")
	whitelistedEvent     = mustEvent("Whitelisted")
	governorChangedEvent = mustEvent("GovernorChanged")
	councilChangedEvent  = mustEvent("EmergencyCouncilChanged")
)

func mustLoadABI() *abi.ABI {
	a, err := abi.New(gen.MustABI("Voter"))
	if err != nil {
		panic(err)
	}
	return a
}

func mustEvent(name string) *abi.Event {
	ev, ok := contractABI.EventByName(name)
	if !ok {
		panic("voter: event not found " + name)
	}
	return ev
}
