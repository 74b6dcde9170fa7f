// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pairs implements the registries resolving token pairs to pool addresses:
// a binary-curve pair factory and a concentrated-liquidity pool factory.
package pairs

import (
	"encoding/binary"
	"math/big"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var logger = log.WithContext("pkg", "pairs")

var (
	ErrIdenticalTokens    = reverts.Invalid("pairs: identical tokens")
	ErrZeroToken          = reverts.Invalid("pairs: zero token")
	ErrPairExists         = reverts.Conflict("pairs: pair exists")
	ErrPoolExists         = reverts.Conflict("pairs: pool exists")
	ErrFeeNotEnabled      = reverts.Invalid("pairs: fee not enabled")
	ErrFeeEnabled         = reverts.Conflict("pairs: fee already enabled")
	ErrInvalidFee         = reverts.Invalid("pairs: fee out of range")
	ErrNotGovernor        = reverts.Unauthorized("pairs: caller is not the governor")
	ErrAlreadyInitialized = reverts.Conflict("pairs: already initialized")
)

// MaxFee bounds concentrated pool fees, in hundredths of a bip.
const MaxFee uint32 = 1_000_000

func SetLogger(l log.Logger) {
	logger = l
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func sortTokens(tokenA, tokenB thor.Address) (thor.Address, thor.Address, error) {
	if tokenA == tokenB {
		return thor.Address{}, thor.Address{}, ErrIdenticalTokens
	}
	token0, token1 := thor.SortAddresses(tokenA, tokenB)
	if token0.IsZero() {
		return thor.Address{}, thor.Address{}, ErrZeroToken
	}
	return token0, token1, nil
}

func pairKey(token0, token1 thor.Address) thor.Bytes32 {
	return thor.Blake2b(token0.Bytes(), token1.Bytes())
}

func feeBytes(fee uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], fee)
	return b[:]
}

var (
	slotPairs    = thor.BytesToBytes32([]byte("pairs-by-tokens"))
	slotAllPairs = thor.BytesToBytes32([]byte("pairs-all"))
)

// PairFactory implements native methods of `PairFactory` contract.
type PairFactory struct {
	sctx  *solidity.Context
	pairs *solidity.Mapping[thor.Bytes32, thor.Address]
	all   *solidity.Array[thor.Address]
}

func NewPairFactory(sctx *solidity.Context) *PairFactory {
	return &PairFactory{
		sctx:  sctx,
		pairs: solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotPairs),
		all:   solidity.NewArray[thor.Address](sctx, slotAllPairs),
	}
}

// GetPair returns the pair of the two tokens in any order, zero if absent.
func (f *PairFactory) GetPair(tokenA, tokenB thor.Address) (thor.Address, error) {
	if tokenA == tokenB {
		return thor.Address{}, nil
	}
	token0, token1 := thor.SortAddresses(tokenA, tokenB)
	return f.pairs.Get(pairKey(token0, token1))
}

// CreatePair registers a new pair at an address derived from the factory and the sorted tokens.
func (f *PairFactory) CreatePair(tokenA, tokenB thor.Address) (thor.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return thor.Address{}, err
	}
	existing, err := f.pairs.Get(pairKey(token0, token1))
	if err != nil {
		return thor.Address{}, err
	}
	if !existing.IsZero() {
		return thor.Address{}, ErrPairExists
	}

	pair := thor.DeriveAddress(f.sctx.Address(), token0.Bytes(), token1.Bytes())
	if err := f.pairs.Set(pairKey(token0, token1), pair); err != nil {
		return thor.Address{}, err
	}
	index, err := f.all.Push(pair)
	if err != nil {
		return thor.Address{}, err
	}
	if err := f.sctx.Log(pairCreatedEvent, []thor.Bytes32{addressTopic(token0), addressTopic(token1)}, pair, new(big.Int).SetUint64(index)); err != nil {
		return thor.Address{}, err
	}
	logger.Info("pair created", "token0", token0, "token1", token1, "pair", pair)
	return pair, nil
}

func (f *PairFactory) AllPairsLength() (uint64, error) {
	return f.all.Len()
}

func (f *PairFactory) AllPairs(index uint64) (thor.Address, error) {
	return f.all.Get(index)
}

var (
	slotGovernor   = thor.BytesToBytes32([]byte("pools-governor"))
	slotFeeEnabled = thor.BytesToBytes32([]byte("pools-fee-enabled"))
	slotPoolsByKey = thor.BytesToBytes32([]byte("pools-by-tokens"))
)

// PoolFactory implements native methods of `PoolFactory` contract.
type PoolFactory struct {
	sctx       *solidity.Context
	governor   *solidity.Address
	feeEnabled *solidity.Mapping[thor.Bytes32, bool]
	pools      *solidity.Mapping[thor.Bytes32, thor.Address]
}

func NewPoolFactory(sctx *solidity.Context) *PoolFactory {
	return &PoolFactory{
		sctx:       sctx,
		governor:   solidity.NewAddress(sctx, slotGovernor),
		feeEnabled: solidity.NewMapping[thor.Bytes32, bool](sctx, slotFeeEnabled),
		pools:      solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotPoolsByKey),
	}
}

func poolKey(token0, token1 thor.Address, fee uint32) thor.Bytes32 {
	return thor.Blake2b(token0.Bytes(), token1.Bytes(), feeBytes(fee))
}

// Initialize sets the governor, once.
func (f *PoolFactory) Initialize(governor thor.Address) error {
	current, err := f.governor.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	f.governor.Set(governor)
	return nil
}

func (f *PoolFactory) Governor() (thor.Address, error) {
	return f.governor.Get()
}

// EnableFeeAmount enables a fee tier. Governor only.
func (f *PoolFactory) EnableFeeAmount(caller thor.Address, fee uint32) error {
	governor, err := f.governor.Get()
	if err != nil {
		return err
	}
	if caller != governor {
		return ErrNotGovernor
	}
	if fee == 0 || fee >= MaxFee {
		return ErrInvalidFee
	}
	enabled, err := f.FeeAmountEnabled(fee)
	if err != nil {
		return err
	}
	if enabled {
		return ErrFeeEnabled
	}
	if err := f.feeEnabled.Set(thor.Uint64ToBytes32(uint64(fee)), true); err != nil {
		return err
	}
	return f.sctx.Log(feeAmountEnabledEvent, []thor.Bytes32{thor.Uint64ToBytes32(uint64(fee))})
}

func (f *PoolFactory) FeeAmountEnabled(fee uint32) (bool, error) {
	return f.feeEnabled.Get(thor.Uint64ToBytes32(uint64(fee)))
}

// GetPool returns the pool of the two tokens and fee in any token order, zero if absent.
func (f *PoolFactory) GetPool(tokenA, tokenB thor.Address, fee uint32) (thor.Address, error) {
	if tokenA == tokenB {
		return thor.Address{}, nil
	}
	token0, token1 := thor.SortAddresses(tokenA, tokenB)
	return f.pools.Get(poolKey(token0, token1, fee))
}

// CreatePool registers a new pool for an enabled fee tier.
func (f *PoolFactory) CreatePool(tokenA, tokenB thor.Address, fee uint32) (thor.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return thor.Address{}, err
	}
	enabled, err := f.FeeAmountEnabled(fee)
	if err != nil {
		return thor.Address{}, err
	}
	if !enabled {
		return thor.Address{}, ErrFeeNotEnabled
	}
	key := poolKey(token0, token1, fee)
	existing, err := f.pools.Get(key)
	if err != nil {
		return thor.Address{}, err
	}
	if !existing.IsZero() {
		return thor.Address{}, ErrPoolExists
	}

	pool := thor.DeriveAddress(f.sctx.Address(), token0.Bytes(), token1.Bytes(), feeBytes(fee))
	if err := f.pools.Set(key, pool); err != nil {
		return thor.Address{}, err
	}
	topics := []thor.Bytes32{addressTopic(token0), addressTopic(token1), thor.Uint64ToBytes32(uint64(fee))}
	if err := f.sctx.Log(poolCreatedEvent, topics, pool); err != nil {
		return thor.Address{}, err
	}
	logger.Info("pool created", "token0", token0, "token1", token1, "fee", fee, "pool", pool)
	return pool, nil
}
