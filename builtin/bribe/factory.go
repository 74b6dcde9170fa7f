// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bribe

import (
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var slotLedgers = thor.BytesToBytes32([]byte("bribe-factory-ledgers"))

// Factory implements native methods of `BribeFactory` contract.
type Factory struct {
	sctx    *solidity.Context
	ledgers *solidity.Array[thor.Address]
}

func NewFactory(sctx *solidity.Context) *Factory {
	return &Factory{
		sctx:    sctx,
		ledgers: solidity.NewArray[thor.Address](sctx, slotLedgers),
	}
}

// CreateLedger creates a ledger driven by caller and accepting the given reward tokens.
// Ledger addresses derive from the factory address and the ledger index.
func (f *Factory) CreateLedger(caller thor.Address, rewardTokens []thor.Address) (thor.Address, error) {
	index, err := f.ledgers.Len()
	if err != nil {
		return thor.Address{}, err
	}
	addr := thor.DeriveAddress(f.sctx.Address(), thor.Uint64ToBytes32(index).Bytes())
	if err := NewLedger(f.sctx.At(addr), nil).Initialize(caller, rewardTokens); err != nil {
		return thor.Address{}, err
	}
	if _, err := f.ledgers.Push(addr); err != nil {
		return thor.Address{}, err
	}
	if err := f.sctx.Log(ledgerCreatedEvent, []thor.Bytes32{addressTopic(caller)}, addr); err != nil {
		return thor.Address{}, err
	}
	logger.Debug("ledger created", "voter", caller, "ledger", addr, "tokens", len(rewardTokens))
	return addr, nil
}

func (f *Factory) LedgersLength() (uint64, error) {
	return f.ledgers.Len()
}

func (f *Factory) Ledgers(index uint64) (thor.Address, error) {
	return f.ledgers.Get(index)
}
