// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 thor.Bytes32
	event              ethabi.Event
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event ethabi.Event) *Event {
	var argsWithoutIndexed ethabi.Arguments
	for _, arg := range event.Inputs {
		if !arg.Indexed {
			argsWithoutIndexed = append(argsWithoutIndexed, arg)
		}
	}
	return &Event{
		thor.Bytes32(event.ID),
		event,
		argsWithoutIndexed,
	}
}

// ID returns event id.
func (e *Event) ID() thor.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode encodes args to data.
// Addresses of thor type are converted for the underlying packer.
func (e *Event) Encode(args ...any) ([]byte, error) {
	converted := make([]any, len(args))
	for i, arg := range args {
		if addr, ok := arg.(thor.Address); ok {
			converted[i] = common.Address(addr)
		} else {
			converted[i] = arg
		}
	}
	return e.argsWithoutIndexed.Pack(converted...)
}

// Decode decodes event data.
func (e *Event) Decode(data []byte, v any) error {
	return unpackInto(e.argsWithoutIndexed, v, data)
}

// DecodeMap decodes event data into a map keyed by argument name.
func (e *Event) DecodeMap(data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := e.argsWithoutIndexed.UnpackIntoMap(out, data); err != nil {
		return nil, err
	}
	return out, nil
}
