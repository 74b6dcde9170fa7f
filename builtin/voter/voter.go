// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voter implements the pool registry and the vote controller. Holders of
// escrow identities split their voting power across votable pools once per epoch,
// and every allocation is mirrored into the pool's reward ledger.
package voter

import (
	"math/big"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var logger = log.WithContext("pkg", "voter")

func SetLogger(l log.Logger) {
	logger = l
}

var (
	ErrAlreadyInitialized  = reverts.Conflict("voter: already initialized")
	ErrNotGovernor         = reverts.Unauthorized("voter: caller is not the governor")
	ErrNotEmergencyCouncil = reverts.Unauthorized("voter: caller is not the emergency council")
	ErrNotApprovedOrOwner  = reverts.Unauthorized("voter: caller is not approved or owner")
	ErrZeroAddress         = reverts.Invalid("voter: zero address")
	ErrLengthMismatch      = reverts.Invalid("voter: length mismatch")
	ErrZeroWeightSum       = reverts.Invalid("voter: weights sum to zero")
	ErrZeroAllocation      = reverts.Invalid("voter: zero allocation")
	ErrPoolNotFound        = reverts.Invalid("voter: pool not found")
	ErrUnknownLedger       = reverts.Invalid("voter: unknown ledger")
	ErrAlreadyVoted        = reverts.Conflict("voter: already voted this epoch")
	ErrDuplicatePool       = reverts.Conflict("voter: duplicate pool")
	ErrAlreadyActive       = reverts.Conflict("voter: pool already active")
	ErrAlreadyInactive     = reverts.Conflict("voter: pool already inactive")
	ErrAlreadyWhitelisted  = reverts.Conflict("voter: token already whitelisted")
)

// VotingEscrow is the source of voting power.
type VotingEscrow interface {
	IsApprovedOrOwner(spender thor.Address, id uint64) (bool, error)
	BalanceOfNFT(id uint64) (*big.Int, error)
	Voting(caller thor.Address, id uint64) error
	Abstain(caller thor.Address, id uint64) error
}

// PairLookup resolves binary-curve pairs.
type PairLookup interface {
	GetPair(tokenA, tokenB thor.Address) (thor.Address, error)
}

// ConcentratedLookup resolves concentrated-liquidity pools.
type ConcentratedLookup interface {
	GetPool(tokenA, tokenB thor.Address, fee uint32) (thor.Address, error)
}

// LedgerFactory creates reward ledgers.
type LedgerFactory interface {
	CreateLedger(caller thor.Address, rewardTokens []thor.Address) (thor.Address, error)
}

// RewardLedger records the weight each identity allocated to a pool.
type RewardLedger interface {
	Deposit(caller thor.Address, amount *big.Int, id uint64) error
	Withdraw(caller thor.Address, amount *big.Int, id uint64) error
	GetReward(caller thor.Address, id uint64, rewardTokens []thor.Address) error
}

// Collaborators are the contracts the voter drives.
type Collaborators struct {
	Escrow  VotingEscrow
	Pairs   PairLookup
	Pools   ConcentratedLookup
	Factory LedgerFactory
	Ledger  func(addr thor.Address) RewardLedger
}

var (
	slotGovernor    = thor.BytesToBytes32([]byte("voter-governor"))
	slotCouncil     = thor.BytesToBytes32([]byte("voter-emergency-council"))
	slotTotalWeight = thor.BytesToBytes32([]byte("voter-total-weight"))
	slotPoolWeight  = thor.BytesToBytes32([]byte("voter-pool-weight"))
	slotVotes       = thor.BytesToBytes32([]byte("voter-votes"))
	slotVoterPools  = thor.BytesToBytes32([]byte("voter-pool-vote"))
	slotUsedWeight  = thor.BytesToBytes32([]byte("voter-used-weight"))
	slotLastVoted   = thor.BytesToBytes32([]byte("voter-last-voted"))
	slotPools       = thor.BytesToBytes32([]byte("voter-pools"))
	slotPoolInfo    = thor.BytesToBytes32([]byte("voter-pool-info"))
	slotIsLedger    = thor.BytesToBytes32([]byte("voter-is-ledger"))
	slotWhitelisted = thor.BytesToBytes32([]byte("voter-whitelisted"))
	slotWhitelist   = thor.BytesToBytes32([]byte("voter-whitelist"))
)

// Voter implements native methods of `Voter` contract.
type Voter struct {
	sctx   *solidity.Context
	collab Collaborators

	governor *solidity.Address
	council  *solidity.Address

	totalWeight *solidity.Uint256
	poolWeight  *solidity.Mapping[thor.Address, *big.Int]
	votes       *solidity.Mapping[thor.Bytes32, *big.Int]
	voterPools  *solidity.Mapping[thor.Bytes32, []thor.Address]
	usedWeight  *solidity.Mapping[thor.Bytes32, *big.Int]
	lastVoted   *solidity.Mapping[thor.Bytes32, uint64]

	pools       *solidity.Array[thor.Address]
	poolInfo    *solidity.Mapping[thor.Address, *Pool]
	isLedger    *solidity.Mapping[thor.Address, bool]
	whitelisted *solidity.Mapping[thor.Address, bool]
	whitelist   *solidity.Array[thor.Address]
}

// New creates a voter bound to the context address.
func New(sctx *solidity.Context, collab Collaborators) *Voter {
	return &Voter{
		sctx:   sctx,
		collab: collab,

		governor: solidity.NewAddress(sctx, slotGovernor),
		council:  solidity.NewAddress(sctx, slotCouncil),

		totalWeight: solidity.NewUint256(sctx, slotTotalWeight),
		poolWeight:  solidity.NewMapping[thor.Address, *big.Int](sctx, slotPoolWeight),
		votes:       solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotVotes),
		voterPools:  solidity.NewMapping[thor.Bytes32, []thor.Address](sctx, slotVoterPools),
		usedWeight:  solidity.NewMapping[thor.Bytes32, *big.Int](sctx, slotUsedWeight),
		lastVoted:   solidity.NewMapping[thor.Bytes32, uint64](sctx, slotLastVoted),

		pools:       solidity.NewArray[thor.Address](sctx, slotPools),
		poolInfo:    solidity.NewMapping[thor.Address, *Pool](sctx, slotPoolInfo),
		isLedger:    solidity.NewMapping[thor.Address, bool](sctx, slotIsLedger),
		whitelisted: solidity.NewMapping[thor.Address, bool](sctx, slotWhitelisted),
		whitelist:   solidity.NewArray[thor.Address](sctx, slotWhitelist),
	}
}

func idKey(id uint64) thor.Bytes32 {
	return thor.Uint64ToBytes32(id)
}

func voteKey(id uint64, pool thor.Address) thor.Bytes32 {
	return thor.Blake2b(thor.Uint64ToBytes32(id).Bytes(), pool.Bytes())
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// Address returns the voter address.
func (v *Voter) Address() thor.Address {
	return v.sctx.Address()
}

// Initialize sets the roles and the initial reward token whitelist, once.
func (v *Voter) Initialize(governor, council thor.Address, whitelist []thor.Address) error {
	current, err := v.governor.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	if governor.IsZero() || council.IsZero() {
		return ErrZeroAddress
	}
	v.governor.Set(governor)
	v.council.Set(council)
	for _, token := range whitelist {
		if err := v.addWhitelist(governor, token); err != nil {
			return err
		}
	}
	return nil
}

func (v *Voter) Governor() (thor.Address, error) {
	return v.governor.Get()
}

func (v *Voter) EmergencyCouncil() (thor.Address, error) {
	return v.council.Get()
}

func (v *Voter) onlyGovernor(caller thor.Address) error {
	governor, err := v.governor.Get()
	if err != nil {
		return err
	}
	if caller != governor {
		return ErrNotGovernor
	}
	return nil
}

func (v *Voter) onlyCouncil(caller thor.Address) error {
	council, err := v.council.Get()
	if err != nil {
		return err
	}
	if caller != council {
		return ErrNotEmergencyCouncil
	}
	return nil
}

// SetGovernor hands the governor role over. Only the governor may call it.
func (v *Voter) SetGovernor(caller, governor thor.Address) error {
	if err := v.onlyGovernor(caller); err != nil {
		return err
	}
	if governor.IsZero() {
		return ErrZeroAddress
	}
	v.governor.Set(governor)
	logger.Info("governor changed", "previous", caller, "next", governor)
	return v.sctx.Log(governorChangedEvent, []thor.Bytes32{addressTopic(caller), addressTopic(governor)})
}

// SetEmergencyCouncil hands the emergency council role over. Only the council may call it.
func (v *Voter) SetEmergencyCouncil(caller, council thor.Address) error {
	if err := v.onlyCouncil(caller); err != nil {
		return err
	}
	if council.IsZero() {
		return ErrZeroAddress
	}
	v.council.Set(council)
	logger.Info("emergency council changed", "previous", caller, "next", council)
	return v.sctx.Log(councilChangedEvent, []thor.Bytes32{addressTopic(caller), addressTopic(council)})
}

// Whitelist marks a reward token as eligible for ledgers created from now on. Governor only.
func (v *Voter) Whitelist(caller, token thor.Address) error {
	if err := v.onlyGovernor(caller); err != nil {
		return err
	}
	return v.addWhitelist(caller, token)
}

func (v *Voter) addWhitelist(caller, token thor.Address) error {
	if token.IsZero() {
		return ErrZeroAddress
	}
	listed, err := v.whitelisted.Get(token)
	if err != nil {
		return err
	}
	if listed {
		return ErrAlreadyWhitelisted
	}
	if err := v.whitelisted.Set(token, true); err != nil {
		return err
	}
	if _, err := v.whitelist.Push(token); err != nil {
		return err
	}
	return v.sctx.Log(whitelistedEvent, []thor.Bytes32{addressTopic(caller), addressTopic(token)})
}

func (v *Voter) IsWhitelisted(token thor.Address) (bool, error) {
	return v.whitelisted.Get(token)
}

// WhitelistedTokens returns the whitelist in insertion order.
func (v *Voter) WhitelistedTokens() ([]thor.Address, error) {
	return v.whitelist.All()
}

// EpochStart returns the start of the epoch containing t.
func (v *Voter) EpochStart(t uint64) uint64 {
	return thor.EpochStart(t)
}
