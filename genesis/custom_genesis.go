// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"gopkg.in/yaml.v3"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime       uint64       `yaml:"launchTime"`
	Governor         thor.Address `yaml:"governor"`
	EmergencyCouncil thor.Address `yaml:"emergencyCouncil"`
	Tokens           []Token      `yaml:"tokens"`
	Escrow           Escrow       `yaml:"escrow"`
	Vesting          *Vesting     `yaml:"vesting,omitempty"`
	Voter            Voter        `yaml:"voter"`
}

// Token is a fungible token deployed at genesis.
type Token struct {
	Address  thor.Address `yaml:"address"`
	Name     string       `yaml:"name"`
	Symbol   string       `yaml:"symbol"`
	Minter   thor.Address `yaml:"minter"`
	Balances []Balance    `yaml:"balances"`
}

// Balance is an initial token balance.
type Balance struct {
	Owner  thor.Address     `yaml:"owner"`
	Amount *HexOrDecimal256 `yaml:"amount"`
}

// Escrow is the voting escrow setup.
type Escrow struct {
	Token thor.Address `yaml:"token"`
	Locks []Lock       `yaml:"locks"`
}

// Lock is a lock created at genesis on behalf of its owner.
// The owner's balance of the escrow token must cover the amount.
type Lock struct {
	Owner    thor.Address     `yaml:"owner"`
	Amount   *HexOrDecimal256 `yaml:"amount"`
	Duration uint64           `yaml:"duration"`
}

// Vesting is the vesting engine setup. Reserve is minted to the engine in claim tokens.
type Vesting struct {
	DepositToken     thor.Address     `yaml:"depositToken"`
	ClaimToken       thor.Address     `yaml:"claimToken"`
	Duration         uint64           `yaml:"duration"`
	DirectRefundRate uint64           `yaml:"directRefundRate"`
	Reserve          *HexOrDecimal256 `yaml:"reserve"`
}

// Voter is the voter setup.
type Voter struct {
	Whitelist     []thor.Address `yaml:"whitelist"`
	FeeAmounts    []uint32       `yaml:"feeAmounts"`
	Pairs         []Pair         `yaml:"pairs"`
	Pools         []Pool         `yaml:"pools"`
	ExternalPools []thor.Address `yaml:"externalPools"`
}

// Pair is a binary-curve pair created and made votable at genesis.
type Pair struct {
	TokenA thor.Address `yaml:"tokenA"`
	TokenB thor.Address `yaml:"tokenB"`
}

// Pool is a concentrated-liquidity pool created and made votable at genesis.
type Pool struct {
	TokenA thor.Address `yaml:"tokenA"`
	TokenB thor.Address `yaml:"tokenB"`
	Fee    uint32       `yaml:"fee"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewAmount returns a HexOrDecimal256 holding v.
func NewAmount(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Big returns the value as big.Int, zero for nil.
func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	return []byte((*big.Int)(&i).String()), nil
}

// ParseCustomGenesis decodes a yaml genesis document.
func ParseCustomGenesis(data []byte) (*CustomGenesis, error) {
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}
	return &gen, nil
}

// LoadCustomGenesis reads a yaml genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCustomGenesis(data)
}
