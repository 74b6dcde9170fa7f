// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// PoolKind tells how a pool was discovered.
type PoolKind uint8

const (
	KindUnknown PoolKind = iota
	KindPair
	KindConcentrated
	KindExternal
)

func (k PoolKind) String() string {
	switch k {
	case KindPair:
		return "pair"
	case KindConcentrated:
		return "concentrated"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Pool is the registry entry of a pool. Entries are never deleted; the
// ledger is fixed at the first activation.
type Pool struct {
	Kind   PoolKind
	Active bool
	Ledger thor.Address
}

// IsEmpty reports whether the pool was never registered.
func (p *Pool) IsEmpty() bool {
	return p == nil || p.Ledger.IsZero()
}

// Pool returns the registry entry of pool.
func (v *Voter) Pool(pool thor.Address) (*Pool, error) {
	info, err := v.poolInfo.Get(pool)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return info, nil
}

func (v *Voter) IsActive(pool thor.Address) (bool, error) {
	info, err := v.Pool(pool)
	if err != nil {
		return false, err
	}
	return info.Active, nil
}

// LedgerOf returns the reward ledger of pool, zero if never registered.
func (v *Voter) LedgerOf(pool thor.Address) (thor.Address, error) {
	info, err := v.Pool(pool)
	if err != nil {
		return thor.Address{}, err
	}
	return info.Ledger, nil
}

// IsLedger reports whether addr is a ledger created by this voter.
func (v *Voter) IsLedger(addr thor.Address) (bool, error) {
	return v.isLedger.Get(addr)
}

// PoolCount returns the number of pools ever registered.
func (v *Voter) PoolCount() (uint64, error) {
	return v.pools.Len()
}

// PoolAt returns the pool registered at index.
func (v *Voter) PoolAt(index uint64) (thor.Address, error) {
	return v.pools.Get(index)
}

// AllPools returns every registered pool in registration order.
func (v *Voter) AllPools() ([]thor.Address, error) {
	return v.pools.All()
}

// AddPair makes the binary-curve pair of the two tokens votable. Anyone may call it.
func (v *Voter) AddPair(caller, tokenA, tokenB thor.Address) (thor.Address, error) {
	pool, err := v.collab.Pairs.GetPair(tokenA, tokenB)
	if err != nil {
		return thor.Address{}, err
	}
	if pool.IsZero() {
		return thor.Address{}, ErrPoolNotFound
	}
	if err := v.addVotablePool(caller, pool, KindPair, []thor.Address{tokenA, tokenB}); err != nil {
		return thor.Address{}, err
	}
	return pool, nil
}

// AddConcentratedPool makes the concentrated pool of the two tokens and fee votable. Anyone may call it.
func (v *Voter) AddConcentratedPool(caller, tokenA, tokenB thor.Address, fee uint32) (thor.Address, error) {
	pool, err := v.collab.Pools.GetPool(tokenA, tokenB, fee)
	if err != nil {
		return thor.Address{}, err
	}
	if pool.IsZero() {
		return thor.Address{}, ErrPoolNotFound
	}
	if err := v.addVotablePool(caller, pool, KindConcentrated, []thor.Address{tokenA, tokenB}); err != nil {
		return thor.Address{}, err
	}
	return pool, nil
}

// AddExternalPool makes an arbitrary pool votable. Governor only.
func (v *Voter) AddExternalPool(caller, pool thor.Address) error {
	if err := v.onlyGovernor(caller); err != nil {
		return err
	}
	if pool.IsZero() {
		return ErrZeroAddress
	}
	return v.addVotablePool(caller, pool, KindExternal, nil)
}

func (v *Voter) addVotablePool(caller, pool thor.Address, kind PoolKind, constituents []thor.Address) error {
	logger.Debug("adding votable pool", "creator", caller, "pool", pool, "kind", kind)

	info, err := v.Pool(pool)
	if err != nil {
		return err
	}
	if info.Active {
		return ErrAlreadyActive
	}

	if info.IsEmpty() {
		whitelist, err := v.whitelist.All()
		if err != nil {
			return err
		}
		rewardTokens := append(append([]thor.Address{}, constituents...), whitelist...)
		ledger, err := v.collab.Factory.CreateLedger(v.Address(), rewardTokens)
		if err != nil {
			return err
		}
		if err := v.isLedger.Set(ledger, true); err != nil {
			return err
		}
		if _, err := v.pools.Push(pool); err != nil {
			return err
		}
		info.Kind = kind
		info.Ledger = ledger
	}
	info.Active = true
	if err := v.poolInfo.Set(pool, info); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}

	topics := []thor.Bytes32{addressTopic(caller), addressTopic(info.Ledger), addressTopic(pool)}
	if err := v.sctx.Log(poolAddedEvent, topics, uint8(info.Kind)); err != nil {
		return err
	}
	logger.Info("votable pool added", "pool", pool, "ledger", info.Ledger, "kind", info.Kind)
	return nil
}

// RemoveVotablePool stops new votes for pool. Weight already cast and the ledger are kept.
// Emergency council only.
func (v *Voter) RemoveVotablePool(caller, pool thor.Address) error {
	if err := v.onlyCouncil(caller); err != nil {
		return err
	}
	info, err := v.Pool(pool)
	if err != nil {
		return err
	}
	if !info.Active {
		return ErrAlreadyInactive
	}
	info.Active = false
	if err := v.poolInfo.Set(pool, info); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	if err := v.sctx.Log(poolRemovedEvent, []thor.Bytes32{addressTopic(pool)}); err != nil {
		return err
	}
	logger.Info("votable pool removed", "pool", pool)
	return nil
}
