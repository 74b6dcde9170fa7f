// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow implements the vote escrow: tokens locked for a fixed term
// mint a non-transferable identity whose voting power decays linearly to zero
// at the end of the lock.
package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/solidity"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

var (
	logger = log.WithContext("pkg", "escrow")

	slotToken     = thor.BytesToBytes32([]byte("escrow-token"))
	slotVoter     = thor.BytesToBytes32([]byte("escrow-voter"))
	slotGovernor  = thor.BytesToBytes32([]byte("escrow-governor"))
	slotCount     = thor.BytesToBytes32([]byte("escrow-count"))
	slotLocks     = thor.BytesToBytes32([]byte("escrow-locks"))
	slotApprovals = thor.BytesToBytes32([]byte("escrow-approvals"))
	slotVoted     = thor.BytesToBytes32([]byte("escrow-voted"))
)

var (
	ErrAlreadyInitialized = reverts.Conflict("escrow: already initialized")
	ErrNotGovernor        = reverts.Unauthorized("escrow: caller is not the governor")
	ErrNotVoter           = reverts.Unauthorized("escrow: caller is not the voter")
	ErrNotOwner           = reverts.Unauthorized("escrow: caller is not the owner")
	ErrNotApprovedOrOwner = reverts.Unauthorized("escrow: caller is not approved or owner")
	ErrZeroAmount         = reverts.Invalid("escrow: zero amount")
	ErrLockTooShort       = reverts.Invalid("escrow: lock shorter than one epoch")
	ErrLockTooLong        = reverts.Invalid("escrow: lock longer than the maximum")
	ErrUnknownToken       = reverts.Invalid("escrow: unknown token id")
	ErrLockNotExpired     = reverts.Conflict("escrow: lock not expired")
	ErrVoting             = reverts.Conflict("escrow: token is voting")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Lock is the locked position behind a token id.
type Lock struct {
	Owner  thor.Address
	Amount *big.Int
	End    uint64
}

// IsEmpty reports whether no lock exists.
func (l *Lock) IsEmpty() bool {
	return l == nil || l.Owner.IsZero()
}

// Escrow implements native methods of `Escrow` contract.
type Escrow struct {
	sctx      *solidity.Context
	token     *solidity.Address
	voter     *solidity.Address
	governor  *solidity.Address
	count     *solidity.Uint256
	locks     *solidity.Mapping[thor.Bytes32, *Lock]
	approvals *solidity.Mapping[thor.Bytes32, thor.Address]
	voted     *solidity.Mapping[thor.Bytes32, bool]
}

// New creates an escrow bound to addr.
func New(addr thor.Address, state *state.State, env solidity.Env) *Escrow {
	sctx := solidity.NewContext(addr, state, env)
	return &Escrow{
		sctx:      sctx,
		token:     solidity.NewAddress(sctx, slotToken),
		voter:     solidity.NewAddress(sctx, slotVoter),
		governor:  solidity.NewAddress(sctx, slotGovernor),
		count:     solidity.NewUint256(sctx, slotCount),
		locks:     solidity.NewMapping[thor.Bytes32, *Lock](sctx, slotLocks),
		approvals: solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotApprovals),
		voted:     solidity.NewMapping[thor.Bytes32, bool](sctx, slotVoted),
	}
}

func idKey(id uint64) thor.Bytes32 {
	return thor.Uint64ToBytes32(id)
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// Address returns the escrow address.
func (e *Escrow) Address() thor.Address {
	return e.sctx.Address()
}

// Initialize sets the locked token and the governor, once.
func (e *Escrow) Initialize(governor, lockedToken thor.Address) error {
	current, err := e.token.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	e.token.Set(lockedToken)
	e.governor.Set(governor)
	return nil
}

func (e *Escrow) Token() (thor.Address, error)    { return e.token.Get() }
func (e *Escrow) Voter() (thor.Address, error)    { return e.voter.Get() }
func (e *Escrow) Governor() (thor.Address, error) { return e.governor.Get() }

// TokenCount returns the number of identities ever minted.
func (e *Escrow) TokenCount() (uint64, error) {
	n, err := e.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SetVoter sets the only contract allowed to flag identities as voting.
func (e *Escrow) SetVoter(caller, voter thor.Address) error {
	governor, err := e.governor.Get()
	if err != nil {
		return err
	}
	if caller != governor {
		return ErrNotGovernor
	}
	e.voter.Set(voter)
	return e.sctx.Log(voterChangedEvent, []thor.Bytes32{addressTopic(voter)})
}

// Locked returns the lock of id, empty if none.
func (e *Escrow) Locked(id uint64) (*Lock, error) {
	lock, err := e.locks.Get(idKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get lock")
	}
	if lock.Amount == nil {
		lock.Amount = new(big.Int)
	}
	return lock, nil
}

// CreateLock pulls amount of the locked token from caller and mints a new identity.
// The duration is rounded down to whole epochs.
func (e *Escrow) CreateLock(caller thor.Address, amount *big.Int, duration uint64) (uint64, error) {
	logger.Debug("creating lock", "owner", caller, "amount", amount, "duration", duration)

	if amount.Sign() <= 0 {
		return 0, ErrZeroAmount
	}
	if duration < thor.Epoch {
		return 0, ErrLockTooShort
	}
	if duration > thor.MaxLockDuration {
		return 0, ErrLockTooLong
	}
	now := e.sctx.Now()
	end := thor.EpochStart(now + duration)

	lockedToken, err := e.token.Get()
	if err != nil {
		return 0, err
	}
	if err := token.FromContext(e.sctx.At(lockedToken)).TransferFrom(e.Address(), caller, e.Address(), amount); err != nil {
		return 0, err
	}

	id, err := e.count.Next()
	if err != nil {
		return 0, err
	}
	if err := e.locks.Set(idKey(id), &Lock{Owner: caller, Amount: new(big.Int).Set(amount), End: end}); err != nil {
		return 0, errors.Wrap(err, "failed to set lock")
	}
	if err := e.sctx.Log(depositEvent, []thor.Bytes32{addressTopic(caller), idKey(id)}, amount, new(big.Int).SetUint64(end)); err != nil {
		return 0, err
	}

	logger.Info("created lock", "owner", caller, "tokenId", id, "end", end)
	return id, nil
}

// BalanceOfNFT returns the voting power of id at the current block time.
func (e *Escrow) BalanceOfNFT(id uint64) (*big.Int, error) {
	return e.BalanceOfNFTAt(id, e.sctx.Now())
}

// BalanceOfNFTAt returns amount * (end - t) / MaxLockDuration, zero once the lock ended.
func (e *Escrow) BalanceOfNFTAt(id uint64, t uint64) (*big.Int, error) {
	lock, err := e.Locked(id)
	if err != nil {
		return nil, err
	}
	if lock.IsEmpty() || lock.End <= t {
		return new(big.Int), nil
	}
	remaining := new(big.Int).SetUint64(lock.End - t)
	return solidity.MulDiv(lock.Amount, remaining, new(big.Int).SetUint64(thor.MaxLockDuration))
}

// OwnerOf returns the owner of id, zero if none.
func (e *Escrow) OwnerOf(id uint64) (thor.Address, error) {
	lock, err := e.Locked(id)
	if err != nil {
		return thor.Address{}, err
	}
	return lock.Owner, nil
}

// GetApproved returns the approved operator of id.
func (e *Escrow) GetApproved(id uint64) (thor.Address, error) {
	return e.approvals.Get(idKey(id))
}

// Approve lets spender act for id. Only the owner may approve.
func (e *Escrow) Approve(caller, spender thor.Address, id uint64) error {
	owner, err := e.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner.IsZero() {
		return ErrUnknownToken
	}
	if owner != caller {
		return ErrNotOwner
	}
	if err := e.approvals.Set(idKey(id), spender); err != nil {
		return err
	}
	return e.sctx.Log(approvalEvent, []thor.Bytes32{addressTopic(owner), addressTopic(spender), idKey(id)})
}

// IsApprovedOrOwner reports whether spender is the owner or approved operator of id.
func (e *Escrow) IsApprovedOrOwner(spender thor.Address, id uint64) (bool, error) {
	owner, err := e.OwnerOf(id)
	if err != nil {
		return false, err
	}
	if owner.IsZero() {
		return false, nil
	}
	if owner == spender {
		return true, nil
	}
	approved, err := e.GetApproved(id)
	if err != nil {
		return false, err
	}
	return !approved.IsZero() && approved == spender, nil
}

func (e *Escrow) setVoted(caller thor.Address, id uint64, voted bool) error {
	voter, err := e.voter.Get()
	if err != nil {
		return err
	}
	if voter.IsZero() || caller != voter {
		return ErrNotVoter
	}
	if voted {
		return e.voted.Set(idKey(id), true)
	}
	e.voted.Delete(idKey(id))
	return nil
}

// Voting flags id as holding votes. Only the voter may call it.
func (e *Escrow) Voting(caller thor.Address, id uint64) error {
	return e.setVoted(caller, id, true)
}

// Abstain clears the voting flag of id. Only the voter may call it.
func (e *Escrow) Abstain(caller thor.Address, id uint64) error {
	return e.setVoted(caller, id, false)
}

// Voted reports whether id currently holds votes.
func (e *Escrow) Voted(id uint64) (bool, error) {
	return e.voted.Get(idKey(id))
}

// Withdraw returns the locked amount of an expired, non voting lock to its owner
// and burns the identity.
func (e *Escrow) Withdraw(caller thor.Address, id uint64) (*big.Int, error) {
	lock, err := e.Locked(id)
	if err != nil {
		return nil, err
	}
	if lock.IsEmpty() {
		return nil, ErrUnknownToken
	}
	ok, err := e.IsApprovedOrOwner(caller, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotApprovedOrOwner
	}
	if e.sctx.Now() < lock.End {
		return nil, ErrLockNotExpired
	}
	voted, err := e.Voted(id)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrVoting
	}

	e.locks.Delete(idKey(id))
	e.approvals.Delete(idKey(id))

	lockedToken, err := e.token.Get()
	if err != nil {
		return nil, err
	}
	if err := token.FromContext(e.sctx.At(lockedToken)).Transfer(e.Address(), lock.Owner, lock.Amount); err != nil {
		return nil, err
	}
	if err := e.sctx.Log(withdrawEvent, []thor.Bytes32{addressTopic(lock.Owner), idKey(id)}, lock.Amount); err != nil {
		return nil, err
	}

	logger.Info("withdrew lock", "owner", lock.Owner, "tokenId", id, "amount", lock.Amount)
	return lock.Amount, nil
}
