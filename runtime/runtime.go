// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/genesis"
	"github.com/kinetixfi/kinetix-tokenomics/kv"
	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/logdb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

var logger = log.WithContext("pkg", "runtime")

const (
	metaBucket    = kv.Bucket("m")
	blockBucket   = kv.Bucket("b")
	txIndexBucket = kv.Bucket("t")
)

var (
	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

var (
	ErrKnownTx         = errors.New("known transaction")
	ErrNotFound        = errors.New("not found")
	ErrGenesisMismatch = errors.New("genesis mismatch")
)

// Head is the summary of the newest block.
type Head struct {
	ID        thor.Bytes32
	Number    uint32
	Time      uint64
	StateRoot thor.Bytes32
}

// Block is published for every committed block.
type Block struct {
	Head
	Receipts []*tx.Receipt
}

// Runtime executes transactions one per block on top of the committed state.
// Execution is serialized, reads see the newest committed block.
type Runtime struct {
	mu     sync.RWMutex
	db     kv.Store
	stater *state.Stater
	logDB  *logdb.LogDB
	clock  func() uint64

	genesisID thor.Bytes32
	head      Head

	feed  event.Feed
	scope event.SubscriptionScope
}

// New creates a runtime over db. The genesis is applied if db is empty.
// Block times come from clock, nil means the wall clock.
func New(db kv.Store, logDB *logdb.LogDB, gen *genesis.Genesis, clock func() uint64) (*Runtime, error) {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	rt := &Runtime{
		db:        db,
		stater:    state.NewStater(db),
		logDB:     logDB,
		clock:     clock,
		genesisID: gen.ID(),
	}

	meta := metaBucket.NewGetter(db)
	stored, err := meta.Get(genesisKey)
	switch {
	case err == nil:
		if thor.BytesToBytes32(stored) != gen.ID() {
			return nil, errors.WithMessagef(ErrGenesisMismatch, "want %v, stored %v", gen.ID(), thor.BytesToBytes32(stored))
		}
		data, err := meta.Get(headKey)
		if err != nil {
			return nil, errors.Wrap(err, "load head")
		}
		if err := rlp.DecodeBytes(data, &rt.head); err != nil {
			return nil, errors.Wrap(err, "decode head")
		}
	case meta.IsNotFound(err):
		if err := rt.buildGenesis(gen); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(err, "load genesis id")
	}

	if err := rt.syncLogDB(); err != nil {
		return nil, errors.Wrap(err, "sync logdb")
	}
	logger.Info("runtime ready", "genesis", gen.Name(), "head", rt.head.ID, "number", rt.head.Number)
	return rt, nil
}

func (rt *Runtime) buildGenesis(gen *genesis.Genesis) error {
	st := rt.stater.NewState()
	events, err := gen.Build(st)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	stage := st.Stage()
	root := stage.Hash(thor.Bytes32{})
	if id := thor.NewBlockID(thor.GenesisParentID, gen.Timestamp(), root); id != gen.ID() {
		return errors.WithMessagef(ErrGenesisMismatch, "built %v", id)
	}

	blk := &Block{
		Head: Head{ID: gen.ID(), Time: gen.Timestamp(), StateRoot: root},
		Receipts: []*tx.Receipt{{
			BlockTime: gen.Timestamp(),
			StateRoot: root,
			Outputs:   []*tx.Output{{Events: events}},
		}},
	}

	batch := rt.db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		return err
	}
	if err := metaBucket.NewPutter(batch).Put(genesisKey, gen.ID().Bytes()); err != nil {
		return err
	}
	if err := rt.saveBlock(batch, blk); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	rt.head = blk.Head
	logger.Info("genesis applied", "id", gen.ID(), "slots", stage.Len(), "events", len(events))
	return nil
}

func (rt *Runtime) saveBlock(putter kv.Putter, blk *Block) error {
	data, err := rlp.EncodeToBytes(blk)
	if err != nil {
		return err
	}
	var num [4]byte
	binary.BigEndian.PutUint32(num[:], blk.Number)
	if err := blockBucket.NewPutter(putter).Put(num[:], data); err != nil {
		return err
	}
	for _, r := range blk.Receipts {
		if r.TxID.IsZero() {
			continue
		}
		if err := txIndexBucket.NewPutter(putter).Put(r.TxID.Bytes(), num[:]); err != nil {
			return err
		}
	}
	head, err := rlp.EncodeToBytes(&blk.Head)
	if err != nil {
		return err
	}
	return metaBucket.NewPutter(putter).Put(headKey, head)
}

// GetBlock returns the block of the given number.
func (rt *Runtime) GetBlock(num uint32) (*Block, error) {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], num)

	getter := blockBucket.NewGetter(rt.db)
	data, err := getter.Get(key[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var blk Block
	if err := rlp.DecodeBytes(data, &blk); err != nil {
		return nil, errors.Wrap(err, "decode block")
	}
	return &blk, nil
}

// GetReceipt returns the receipt of a committed transaction.
func (rt *Runtime) GetReceipt(txID thor.Bytes32) (*tx.Receipt, error) {
	getter := txIndexBucket.NewGetter(rt.db)
	num, err := getter.Get(txID.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	blk, err := rt.GetBlock(binary.BigEndian.Uint32(num))
	if err != nil {
		return nil, err
	}
	for _, r := range blk.Receipts {
		if r.TxID == txID {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// syncLogDB indexes committed blocks the log db has not seen yet,
// and drops logs of blocks beyond the head.
func (rt *Runtime) syncLogDB() error {
	if rt.logDB == nil {
		return nil
	}
	newest, err := rt.logDB.NewestBlockID()
	if err != nil {
		return err
	}
	if newest == rt.head.ID {
		return nil
	}

	w := rt.logDB.NewWriter()
	start := uint32(0)
	if !newest.IsZero() {
		start = thor.BlockNumber(newest) + 1
		if start > rt.head.Number+1 {
			logger.Warn("logdb ahead of head, truncating", "newest", newest, "head", rt.head.Number)
			start = rt.head.Number + 1
		}
		// a block with the same number may have been replaced
		if err := w.Truncate(start); err != nil {
			return err
		}
	}

	for n := start; n <= rt.head.Number; n++ {
		blk, err := rt.GetBlock(n)
		if err != nil {
			w.Rollback()
			return err
		}
		if err := w.Write(blk.ID, blk.Number, blk.Time, blk.Receipts); err != nil {
			w.Rollback()
			return err
		}
	}
	if start > rt.head.Number {
		// nothing to replay, just move the newest marker back to the head
		if err := w.Write(rt.head.ID, rt.head.Number, rt.head.Time, nil); err != nil {
			w.Rollback()
			return err
		}
	}
	if err := w.Commit(); err != nil {
		return err
	}
	logger.Info("logdb synced", "from", start, "to", rt.head.Number)
	return nil
}

// GenesisID returns the genesis block id.
func (rt *Runtime) GenesisID() thor.Bytes32 {
	return rt.genesisID
}

// Head returns the newest block summary.
func (rt *Runtime) Head() Head {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.head
}

// View runs fn against the state of the newest block.
// Changes made by fn are discarded.
func (rt *Runtime) View(fn func(st *state.State, head Head) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return fn(rt.stater.NewState(), rt.head)
}

// NewReadEnv returns an environment to read st as of the given head.
// Time-dependent values such as voting power are evaluated at the head's time.
func NewReadEnv(st *state.State, head Head) *xenv.Environment {
	return xenv.New(nil, st, &xenv.BlockContext{Number: head.Number, Time: head.Time}, nil, thor.Address{}, thor.Address{}, nil)
}

// LogDB returns the event index, may be nil.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}

// SubscribeBlocks receivers will receive every committed block.
func (rt *Runtime) SubscribeBlocks(ch chan *Block) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

// Close unsubscribes all subscribers.
func (rt *Runtime) Close() {
	rt.scope.Close()
}

func (rt *Runtime) nextBlockContext() *xenv.BlockContext {
	now := rt.clock()
	if now < rt.head.Time {
		now = rt.head.Time
	}
	return &xenv.BlockContext{Number: rt.head.Number + 1, Time: now}
}

// Execute runs the transaction in a new block and commits it.
// A failing clause reverts the whole transaction, the block is still committed
// with a reverted receipt. An error is returned only if the tx is rejected or
// the commit fails.
func (rt *Runtime) Execute(trx *tx.Transaction) (*tx.Receipt, error) {
	resolved, err := ResolveTransaction(trx)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	blk, err := rt.pack(resolved)
	if err != nil {
		return nil, err
	}
	receipt := blk.Receipts[0]

	status := "success"
	if receipt.Reverted {
		status = "reverted"
		logger.Debug("tx reverted", "id", receipt.TxID, "origin", receipt.Origin, "reason", receipt.RevertReason)
	}
	metricTxCount().AddWithLabel(1, map[string]string{"status": status})
	metricExecutionTime().Observe(time.Since(startTime).Milliseconds())

	rt.feed.Send(blk)
	return receipt, nil
}

// pack executes the tx on top of the head and commits the resulting block.
func (rt *Runtime) pack(resolved *ResolvedTransaction) (*Block, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	has, err := txIndexBucket.NewGetter(rt.db).Has(resolved.ID().Bytes())
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrKnownTx
	}

	blockCtx := rt.nextBlockContext()
	st := rt.stater.NewState()
	receipt, err := rt.execute(st, resolved, blockCtx)
	if err != nil {
		return nil, err
	}

	stage := st.Stage()
	root := stage.Hash(rt.head.StateRoot)
	receipt.StateRoot = root
	blk := &Block{
		Head: Head{
			ID:        thor.NewBlockID(rt.head.ID, blockCtx.Time, root),
			Number:    blockCtx.Number,
			Time:      blockCtx.Time,
			StateRoot: root,
		},
		Receipts: []*tx.Receipt{receipt},
	}
	if err := rt.commit(stage, blk); err != nil {
		return nil, err
	}
	logger.Debug("block committed", "number", blk.Number, "id", blk.ID, "tx", receipt.TxID, "slots", stage.Len())

	if changed, rate := rt.stater.CacheStats().HitRate(); changed {
		metricSlotCacheHitRate().Set(rate)
		logger.Debug("slot cache", "hitRatePermille", rate)
	}
	return blk, nil
}

func (rt *Runtime) commit(stage *state.Stage, blk *Block) error {
	batch := rt.db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		return err
	}
	if err := rt.saveBlock(batch, blk); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}
	rt.head = blk.Head

	if rt.logDB != nil {
		// the index is rebuilt from committed blocks on restart
		w := rt.logDB.NewWriter()
		if err := w.Write(blk.ID, blk.Number, blk.Time, blk.Receipts); err != nil {
			w.Rollback()
			logger.Warn("failed to write logs", "number", blk.Number, "err", err)
		} else if err := w.Commit(); err != nil {
			logger.Warn("failed to commit logs", "number", blk.Number, "err", err)
		}
	}
	return nil
}

// Call executes clauses on behalf of origin as if in the next block, without committing.
// Origin may be zero.
func (rt *Runtime) Call(origin thor.Address, clauses []*tx.Clause) (*tx.Receipt, error) {
	builder := tx.NewBuilder().Origin(origin)
	for _, c := range clauses {
		builder.Clause(c)
	}
	trx := builder.Build()
	if err := ValidateClauses(trx.Clauses()); err != nil {
		return nil, err
	}
	resolved := &ResolvedTransaction{trx, origin, trx.Clauses()}

	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.execute(rt.stater.NewState(), resolved, rt.nextBlockContext())
}

// execute runs all clauses atomically.
// Only state access failures are returned as errors, any other failure reverts the tx.
func (rt *Runtime) execute(st *state.State, resolved *ResolvedTransaction, blockCtx *xenv.BlockContext) (*tx.Receipt, error) {
	receipt := &tx.Receipt{
		TxID:        resolved.ID(),
		Origin:      resolved.Origin,
		BlockNumber: blockCtx.Number,
		BlockTime:   blockCtx.Time,
		Outputs:     make([]*tx.Output, 0, len(resolved.Clauses)),
	}

	checkpoint := st.NewCheckpoint()
	for i, clause := range resolved.Clauses {
		output, err := rt.executeClause(st, resolved, uint32(i), clause, blockCtx)
		if err != nil {
			var stateErr *state.Error
			if errors.As(err, &stateErr) {
				return nil, err
			}
			st.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.RevertReason = err.Error()
			receipt.Outputs = nil
			break
		}
		receipt.Outputs = append(receipt.Outputs, output)
	}
	return receipt, nil
}

func (rt *Runtime) executeClause(
	st *state.State,
	resolved *ResolvedTransaction,
	index uint32,
	clause *tx.Clause,
	blockCtx *xenv.BlockContext,
) (*tx.Output, error) {
	call, err := builtin.HandleNativeCall(st, clause.To(), clause.Data())
	if err != nil {
		return nil, err
	}
	env := xenv.New(
		call.Method(),
		st,
		blockCtx,
		&xenv.TransactionContext{ID: resolved.ID(), Origin: resolved.Origin, ClauseIndex: index},
		resolved.Origin,
		clause.To(),
		clause.Data(),
	)
	data, err := call.Run(env, false)
	if err != nil {
		return nil, errors.WithMessage(err, call.Method().Name())
	}
	metricMethodCount().AddWithLabel(1, map[string]string{"method": call.Method().Name()})
	return &tx.Output{Events: env.Events(), Data: data}, nil
}
