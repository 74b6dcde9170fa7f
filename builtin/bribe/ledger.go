// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bribe implements the per-pool reward ledgers driven by the voter, and
// the factory creating them.
package bribe

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	logger = log.WithContext("pkg", "bribe")

	slotVoter          = thor.BytesToBytes32([]byte("bribe-voter"))
	slotRewardTokens   = thor.BytesToBytes32([]byte("bribe-reward-tokens"))
	slotIsReward       = thor.BytesToBytes32([]byte("bribe-is-reward"))
	slotTotalSupply    = thor.BytesToBytes32([]byte("bribe-total-supply"))
	slotBalances       = thor.BytesToBytes32([]byte("bribe-balances"))
	slotRewardPerToken = thor.BytesToBytes32([]byte("bribe-reward-per-token"))
	slotPaid           = thor.BytesToBytes32([]byte("bribe-paid"))
	slotRewards        = thor.BytesToBytes32([]byte("bribe-rewards"))
	slotQueued         = thor.BytesToBytes32([]byte("bribe-queued"))
)

var (
	ErrAlreadyInitialized  = reverts.Conflict("bribe: already initialized")
	ErrNotVoter            = reverts.Unauthorized("bribe: caller is not the voter")
	ErrNotApprovedOrOwner  = reverts.Unauthorized("bribe: caller is not approved or owner")
	ErrZeroAmount          = reverts.Invalid("bribe: zero amount")
	ErrNotRewardToken      = reverts.Invalid("bribe: not a reward token")
	ErrInsufficientBalance = reverts.Conflict("bribe: withdraw exceeds deposit")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Owners resolves identity ownership for reward claims.
type Owners interface {
	OwnerOf(id uint64) (thor.Address, error)
	IsApprovedOrOwner(spender thor.Address, id uint64) (bool, error)
}

// Ledger implements native methods of `Bribe` contract. Rewards are tracked with
// a reward per token accumulator scaled by thor.RewardPrecision.
type Ledger struct {
	sctx           *solidity.Context
	owners         Owners
	voter          *solidity.Address
	rewardTokens   *solidity.Array[thor.Address]
	isReward       *solidity.Mapping[thor.Address, bool]
	totalSupply    *solidity.Uint256
	balances       *solidity.Mapping[thor.Bytes32, *big.Int]
	rewardPerToken *solidity.Mapping[thor.Address, *big.Int]
	paid           *solidity.Mapping[thor.Bytes32, *big.Int]
	rewards        *solidity.Mapping[thor.Bytes32, *big.Int]
	queued         *solidity.Mapping[thor.Address, *big.Int]
}

// NewLedger binds a ledger to the context address. owners may be nil when
// rewards are not claimed through this instance.
func NewLedger(sctx *solidity.Context, owners Owners) *Ledger {
	return &Ledger{
		sctx:           sctx,
		owners:         owners,
		voter:          solidity.NewAddress(sctx, slotVoter),
		rewardTokens:   solidity.NewArray[thor.Address](sctx, slotRewardTokens),
		isReward:       solidity.NewMapping[thor.Address, bool](sctx, slotIsReward),
		totalSupply:    solidity.NewUint256(sctx, slotTotalSupply),
		balances:       solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotBalances),
		rewardPerToken: solidity.NewMapping[thor.Address, *big.Int](sctx, slotRewardPerToken),
		paid:           solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotPaid),
		rewards:        solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotRewards),
		queued:         solidity.NewMapping[thor.Address, *big.Int](sctx, slotQueued),
	}
}

func idKey(id uint64) thor.Bytes32 {
	return thor.Uint64ToBytes32(id)
}

func accountKey(rewardToken thor.Address, id uint64) thor.Bytes32 {
	return thor.Blake2b(rewardToken.Bytes(), thor.Uint64ToBytes32(id).Bytes())
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func (l *Ledger) Address() thor.Address {
	return l.sctx.Address()
}

// Initialize sets the voter and the allowed reward tokens, once.
// Zero and duplicate tokens are ignored.
func (l *Ledger) Initialize(voter thor.Address, rewardTokens []thor.Address) error {
	current, err := l.voter.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	l.voter.Set(voter)
	for _, t := range rewardTokens {
		if t.IsZero() {
			continue
		}
		ok, err := l.isReward.Get(t)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := l.isReward.Set(t, true); err != nil {
			return err
		}
		if _, err := l.rewardTokens.Push(t); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Voter() (thor.Address, error) {
	return l.voter.Get()
}

func (l *Ledger) RewardTokens() ([]thor.Address, error) {
	return l.rewardTokens.All()
}

func (l *Ledger) IsRewardToken(t thor.Address) (bool, error) {
	return l.isReward.Get(t)
}

func (l *Ledger) TotalSupply() (*big.Int, error) {
	return l.totalSupply.Get()
}

// BalanceOf returns the weight deposited for id.
func (l *Ledger) BalanceOf(id uint64) (*big.Int, error) {
	return l.balances.Get(idKey(id))
}

func (l *Ledger) RewardPerToken(rewardToken thor.Address) (*big.Int, error) {
	return l.rewardPerToken.Get(rewardToken)
}

// Queued returns rewards notified while nothing was deposited.
func (l *Ledger) Queued(rewardToken thor.Address) (*big.Int, error) {
	return l.queued.Get(rewardToken)
}

// Earned returns the unclaimed reward of id in rewardToken.
func (l *Ledger) Earned(rewardToken thor.Address, id uint64) (*big.Int, error) {
	balance, err := l.balances.Get(idKey(id))
	if err != nil {
		return nil, err
	}
	rpt, err := l.rewardPerToken.Get(rewardToken)
	if err != nil {
		return nil, err
	}
	paid, err := l.paid.Get(accountKey(rewardToken, id))
	if err != nil {
		return nil, err
	}
	stored, err := l.rewards.Get(accountKey(rewardToken, id))
	if err != nil {
		return nil, err
	}
	delta := new(big.Int).Sub(rpt, paid)
	pending, err := solidity.MulDiv(balance, delta, thor.RewardPrecision)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute earned")
	}
	return pending.Add(pending, stored), nil
}

func (l *Ledger) updateReward(rewardToken thor.Address, id uint64) error {
	earned, err := l.Earned(rewardToken, id)
	if err != nil {
		return err
	}
	rpt, err := l.rewardPerToken.Get(rewardToken)
	if err != nil {
		return err
	}
	if err := l.rewards.Set(accountKey(rewardToken, id), earned); err != nil {
		return err
	}
	return l.paid.Set(accountKey(rewardToken, id), rpt)
}

func (l *Ledger) updateRewards(id uint64) error {
	tokens, err := l.rewardTokens.All()
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if err := l.updateReward(t, id); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) onlyVoter(caller thor.Address) error {
	voter, err := l.voter.Get()
	if err != nil {
		return err
	}
	if voter.IsZero() || caller != voter {
		return ErrNotVoter
	}
	return nil
}

// Deposit records amount of weight for id. Only the voter may deposit.
func (l *Ledger) Deposit(caller thor.Address, amount *big.Int, id uint64) error {
	if err := l.onlyVoter(caller); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if err := l.updateRewards(id); err != nil {
		return err
	}
	balance, err := l.balances.Get(idKey(id))
	if err != nil {
		return err
	}
	if err := l.balances.Set(idKey(id), new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	if err := l.totalSupply.Add(amount); err != nil {
		return err
	}
	return l.sctx.Log(depositEvent, []thor.Bytes32{addressTopic(caller), idKey(id)}, amount)
}

// Withdraw removes amount of weight of id. Only the voter may withdraw.
func (l *Ledger) Withdraw(caller thor.Address, amount *big.Int, id uint64) error {
	if err := l.onlyVoter(caller); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	balance, err := l.balances.Get(idKey(id))
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := l.updateRewards(id); err != nil {
		return err
	}
	if err := l.balances.Set(idKey(id), new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	if err := l.totalSupply.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to update total supply")
	}
	return l.sctx.Log(withdrawEvent, []thor.Bytes32{addressTopic(caller), idKey(id)}, amount)
}

// NotifyRewardAmount pulls amount of rewardToken from caller and credits it to
// current depositors. With nothing deposited the reward is queued and
// distributed with the next notification.
func (l *Ledger) NotifyRewardAmount(caller, rewardToken thor.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	ok, err := l.isReward.Get(rewardToken)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRewardToken
	}
	if err := token.FromContext(l.sctx.At(rewardToken)).TransferFrom(l.Address(), caller, l.Address(), amount); err != nil {
		return err
	}

	supply, err := l.totalSupply.Get()
	if err != nil {
		return err
	}
	queued, err := l.queued.Get(rewardToken)
	if err != nil {
		return err
	}
	total := new(big.Int).Add(queued, amount)
	if supply.Sign() == 0 {
		if err := l.queued.Set(rewardToken, total); err != nil {
			return err
		}
	} else {
		increment, err := solidity.MulDiv(total, thor.RewardPrecision, supply)
		if err != nil {
			return errors.Wrap(err, "failed to compute reward per token")
		}
		rpt, err := l.rewardPerToken.Get(rewardToken)
		if err != nil {
			return err
		}
		if err := l.rewardPerToken.Set(rewardToken, rpt.Add(rpt, increment)); err != nil {
			return err
		}
		if queued.Sign() > 0 {
			l.queued.Delete(rewardToken)
		}
	}

	logger.Debug("reward notified", "ledger", l.Address(), "token", rewardToken, "amount", amount, "supply", supply)
	return l.sctx.Log(notifyRewardEvent, []thor.Bytes32{addressTopic(caller), addressTopic(rewardToken)}, amount)
}

// GetReward pays the rewards of id in the given tokens to the owner of id.
// The caller must be the voter or approved for id.
func (l *Ledger) GetReward(caller thor.Address, id uint64, rewardTokens []thor.Address) error {
	if l.owners == nil {
		return errors.New("bribe: ledger has no owner registry")
	}
	voter, err := l.voter.Get()
	if err != nil {
		return err
	}
	if caller != voter {
		ok, err := l.owners.IsApprovedOrOwner(caller, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotApprovedOrOwner
		}
	}
	owner, err := l.owners.OwnerOf(id)
	if err != nil {
		return err
	}

	for _, t := range rewardTokens {
		if err := l.updateReward(t, id); err != nil {
			return err
		}
		reward, err := l.rewards.Get(accountKey(t, id))
		if err != nil {
			return err
		}
		if reward.Sign() == 0 {
			continue
		}
		if owner.IsZero() {
			return ErrNotApprovedOrOwner
		}
		l.rewards.Delete(accountKey(t, id))
		if err := token.FromContext(l.sctx.At(t)).Transfer(l.Address(), owner, reward); err != nil {
			return err
		}
		if err := l.sctx.Log(claimRewardsEvent, []thor.Bytes32{addressTopic(owner), addressTopic(t)}, reward); err != nil {
			return err
		}
		logger.Info("reward claimed", "ledger", l.Address(), "tokenId", id, "token", t, "amount", reward)
	}
	return nil
}
