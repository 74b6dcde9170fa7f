// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/gen"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type contract struct {
	name    string
	Address thor.Address
	ABI     *abi.ABI
}

func mustLoadABI(name string) *abi.ABI {
	contractABI, err := abi.New(gen.MustABI(name))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}
	return contractABI
}

// mustLoadContract loads a singleton contract, its address derived from the name.
func mustLoadContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
		mustLoadABI(name),
	}
}

// prototype is a contract deployed at many addresses, all sharing one ABI.
type prototype struct {
	name string
	ABI  *abi.ABI
}

func mustLoadPrototype(name string) *prototype {
	return &prototype{name, mustLoadABI(name)}
}

func (c *contract) Name() string  { return c.name }
func (p *prototype) Name() string { return p.name }
