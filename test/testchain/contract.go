// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"errors"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// Contract binds a builtin contract address and ABI to an account.
type Contract struct {
	chain *Chain
	abi   *abi.ABI
	addr  thor.Address
	acc   thor.Address
}

func NewContract(chain *Chain, acc thor.Address, addr thor.Address, abi *abi.ABI) *Contract {
	return &Contract{
		chain: chain,
		abi:   abi,
		addr:  addr,
		acc:   acc,
	}
}

// Attach returns a copy of the contract bound to acc.
func (c *Contract) Attach(acc thor.Address) *Contract {
	contract := *c
	contract.acc = acc
	return &contract
}

// Call dry-runs a contract method and returns the result.
func (c *Contract) Call(method string, args ...any) ([]byte, error) {
	clause, err := BuildClause(c.addr, c.abi, method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := c.chain.rt.Call(c.acc, []*tx.Clause{clause})
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, errors.New(receipt.RevertReason)
	}
	return receipt.Outputs[0].Data, nil
}

// CallInto dry-runs a contract method and decodes the result into the result argument.
func (c *Contract) CallInto(method string, result any, args ...any) error {
	data, err := c.Call(method, args...)
	if err != nil {
		return err
	}
	methodABI, ok := c.abi.MethodByName(method)
	if !ok {
		return errors.New("method not found")
	}
	return methodABI.DecodeOutput(data, result)
}

// MintTransaction executes a contract method in a new block.
func (c *Contract) MintTransaction(method string, args ...any) (*tx.Receipt, error) {
	return c.chain.MintFromABI(c.acc, c.addr, c.abi, method, args...)
}
