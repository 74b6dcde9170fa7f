// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

func (v *Voter) TotalWeight() (*big.Int, error) {
	return v.totalWeight.Get()
}

func (v *Voter) PoolWeight(pool thor.Address) (*big.Int, error) {
	return v.poolWeight.Get(pool)
}

// Votes returns the weight id allocated to pool.
func (v *Voter) Votes(id uint64, pool thor.Address) (*big.Int, error) {
	return v.votes.Get(voteKey(id, pool))
}

// VoterPools returns the pools id currently holds votes in, in vote order.
func (v *Voter) VoterPools(id uint64) ([]thor.Address, error) {
	return v.voterPools.Get(idKey(id))
}

func (v *Voter) UsedWeight(id uint64) (*big.Int, error) {
	return v.usedWeight.Get(idKey(id))
}

// LastVoted returns the block time of the last vote or reset of id.
func (v *Voter) LastVoted(id uint64) (uint64, error) {
	return v.lastVoted.Get(idKey(id))
}

func (v *Voter) onlyApprovedOrOwner(caller thor.Address, id uint64) error {
	ok, err := v.collab.Escrow.IsApprovedOrOwner(caller, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotApprovedOrOwner
	}
	return nil
}

// onlyNewEpoch allows one vote or reset per epoch and stamps the current one.
// The stamp is written before any ledger is touched.
func (v *Voter) onlyNewEpoch(id uint64) error {
	last, err := v.lastVoted.Get(idKey(id))
	if err != nil {
		return err
	}
	now := v.sctx.Now()
	if thor.EpochStart(now) <= last {
		return ErrAlreadyVoted
	}
	return v.lastVoted.Set(idKey(id), now)
}

// Reset withdraws every vote of id and clears its voting flag.
func (v *Voter) Reset(caller thor.Address, id uint64) error {
	logger.Debug("resetting", "caller", caller, "tokenId", id)

	if err := v.onlyApprovedOrOwner(caller, id); err != nil {
		return err
	}
	if err := v.onlyNewEpoch(id); err != nil {
		logger.Info("reset rejected", "tokenId", id, "error", err)
		return err
	}
	if err := v.reset(id); err != nil {
		return err
	}
	if err := v.collab.Escrow.Abstain(v.Address(), id); err != nil {
		return err
	}
	logger.Info("reset", "tokenId", id)
	return nil
}

func (v *Voter) reset(id uint64) error {
	pools, err := v.voterPools.Get(idKey(id))
	if err != nil {
		return err
	}

	total := new(big.Int)
	for _, pool := range pools {
		votes, err := v.votes.Get(voteKey(id, pool))
		if err != nil {
			return err
		}
		if votes.Sign() == 0 {
			continue
		}

		weight, err := v.poolWeight.Get(pool)
		if err != nil {
			return err
		}
		if err := v.poolWeight.Set(pool, weight.Sub(weight, votes)); err != nil {
			return err
		}
		v.votes.Delete(voteKey(id, pool))

		info, err := v.Pool(pool)
		if err != nil {
			return err
		}
		if err := v.collab.Ledger(info.Ledger).Withdraw(v.Address(), votes, id); err != nil {
			return errors.WithMessage(err, "ledger withdraw")
		}
		total.Add(total, votes)

		if err := v.sctx.Log(abstainedEvent, []thor.Bytes32{idKey(id)}, pool, votes); err != nil {
			return err
		}
	}

	if err := v.totalWeight.Sub(total); err != nil {
		return errors.Wrap(err, "failed to update total weight")
	}
	v.usedWeight.Delete(idKey(id))
	v.voterPools.Delete(idKey(id))
	return nil
}

// Vote replaces the allocation of id. Weights are relative: pool i receives
// weights[i] * power / sum(weights), truncated. Inactive pools are skipped.
func (v *Voter) Vote(caller thor.Address, id uint64, pools []thor.Address, weights []*big.Int) error {
	logger.Debug("voting", "caller", caller, "tokenId", id, "pools", len(pools))

	if err := v.onlyApprovedOrOwner(caller, id); err != nil {
		return err
	}
	if len(pools) != len(weights) {
		return ErrLengthMismatch
	}
	if err := v.onlyNewEpoch(id); err != nil {
		logger.Info("vote rejected", "tokenId", id, "error", err)
		return err
	}
	if err := v.vote(caller, id, pools, weights); err != nil {
		logger.Info("vote failed", "tokenId", id, "error", err)
		return err
	}
	return nil
}

// Poke reapplies the current allocation of id with its current voting power.
// It is not bound to the one vote per epoch rule.
func (v *Voter) Poke(caller thor.Address, id uint64) error {
	logger.Debug("poking", "caller", caller, "tokenId", id)

	if err := v.onlyApprovedOrOwner(caller, id); err != nil {
		return err
	}
	pools, err := v.voterPools.Get(idKey(id))
	if err != nil {
		return err
	}
	weights := make([]*big.Int, 0, len(pools))
	for _, pool := range pools {
		w, err := v.votes.Get(voteKey(id, pool))
		if err != nil {
			return err
		}
		weights = append(weights, w)
	}
	return v.vote(caller, id, pools, weights)
}

func (v *Voter) vote(caller thor.Address, id uint64, pools []thor.Address, weights []*big.Int) error {
	if err := v.reset(id); err != nil {
		return err
	}

	power, err := v.collab.Escrow.BalanceOfNFT(id)
	if err != nil {
		return err
	}
	sum := new(big.Int)
	for _, w := range weights {
		if w.Sign() < 0 {
			return ErrZeroAllocation
		}
		sum.Add(sum, w)
	}
	if len(pools) > 0 && sum.Sign() == 0 {
		return ErrZeroWeightSum
	}

	var (
		used  = new(big.Int)
		voted = make([]thor.Address, 0, len(pools))
	)
	for i, pool := range pools {
		info, err := v.Pool(pool)
		if err != nil {
			return err
		}
		if !info.Active {
			continue
		}

		allocated, err := solidity.MulDiv(weights[i], power, sum)
		if err != nil {
			return errors.Wrap(err, "failed to split weight")
		}
		if allocated.Sign() == 0 {
			return ErrZeroAllocation
		}
		existing, err := v.votes.Get(voteKey(id, pool))
		if err != nil {
			return err
		}
		if existing.Sign() != 0 {
			return ErrDuplicatePool
		}

		voted = append(voted, pool)
		if err := v.voterPools.Set(idKey(id), voted); err != nil {
			return err
		}
		weight, err := v.poolWeight.Get(pool)
		if err != nil {
			return err
		}
		if err := v.poolWeight.Set(pool, weight.Add(weight, allocated)); err != nil {
			return err
		}
		if err := v.votes.Set(voteKey(id, pool), allocated); err != nil {
			return err
		}
		if err := v.collab.Ledger(info.Ledger).Deposit(v.Address(), allocated, id); err != nil {
			return errors.WithMessage(err, "ledger deposit")
		}
		used.Add(used, allocated)

		if err := v.sctx.Log(votedEvent, []thor.Bytes32{addressTopic(caller), idKey(id)}, pool, allocated); err != nil {
			return err
		}
	}

	if used.Sign() > 0 {
		if err := v.collab.Escrow.Voting(v.Address(), id); err != nil {
			return err
		}
	} else if err := v.collab.Escrow.Abstain(v.Address(), id); err != nil {
		return err
	}
	if err := v.totalWeight.Add(used); err != nil {
		return err
	}
	if err := v.usedWeight.Set(idKey(id), used); err != nil {
		return err
	}

	logger.Info("voted", "tokenId", id, "power", power, "used", used, "pools", len(voted))
	return nil
}

// ClaimBribes claims the rewards of id from each ledger, in the tokens listed for it.
func (v *Voter) ClaimBribes(caller thor.Address, ledgers []thor.Address, tokens [][]thor.Address, id uint64) error {
	if err := v.onlyApprovedOrOwner(caller, id); err != nil {
		return err
	}
	if len(ledgers) != len(tokens) {
		return ErrLengthMismatch
	}
	for i, addr := range ledgers {
		ok, err := v.isLedger.Get(addr)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownLedger
		}
		if err := v.collab.Ledger(addr).GetReward(v.Address(), id, tokens[i]); err != nil {
			return err
		}
	}
	return nil
}
