// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/log"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

const (
	newestIDKey   = "newestBlockID"
	defaultLimit  = 1000
	maxTopicCount = 5
	memPath       = ":memory:"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	driverVersion string
	db            *sql.DB
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal=wal"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()

	if path == memPath {
		// every connection to :memory: opens a distinct database
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	if _, err := db.Exec(configTableSchema + eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		driverVersion: driverVer,
		db:            db,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library in use.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// FilterEvents returns events matching the filter, in sequence order.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		filter = &EventFilter{}
	}
	if filter.Options == nil {
		filter.Options = &Options{Limit: defaultLimit}
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = "SELECT seq, blockID, blockTime, txID, txOrigin, clauseIndex, address, topic0, topic1, topic2, topic3, topic4, data FROM event WHERE 1"
	)

	if r := filter.Range; r != nil {
		if r.Unit == Time {
			stmt += " AND blockTime >= ?"
			args = append(args, r.From)
			if r.To >= r.From {
				stmt += " AND blockTime <= ?"
				args = append(args, r.To)
			}
		} else {
			to := r.To
			if to < r.From {
				to = math.MaxUint32
			}
			fromSeq, toSeq := blockRange(r.From, to)
			stmt += " AND seq >= ? AND seq <= ?"
			args = append(args, fromSeq, toSeq)
		}
	}

	if len(filter.CriteriaSet) > 0 {
		stmt += " AND ("
		for i, c := range filter.CriteriaSet {
			if i > 0 {
				stmt += " OR "
			}
			stmt += "(1"
			if c.Address != nil {
				stmt += " AND address = ?"
				args = append(args, c.Address.Bytes())
			}
			for j, topic := range c.Topics {
				if topic != nil {
					stmt += fmt.Sprintf(" AND topic%d = ?", j)
					args = append(args, topic.Bytes())
				}
			}
			stmt += ")"
		}
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	stmt += " LIMIT ?, ?"
	args = append(args, filter.Options.Offset, filter.Options.Limit)

	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq         sequence
			blockID     []byte
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			clauseIndex uint32
			address     []byte
			topics      [maxTopicCount][]byte
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&blockID,
			&blockTime,
			&txID,
			&txOrigin,
			&clauseIndex,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		event := &Event{
			BlockID:     thor.BytesToBytes32(blockID),
			BlockNumber: seq.BlockNumber(),
			BlockTime:   blockTime,
			Index:       seq.Index(),
			TxID:        thor.BytesToBytes32(txID),
			TxOrigin:    thor.BytesToAddress(txOrigin),
			ClauseIndex: clauseIndex,
			Address:     thor.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewestBlockID returns the id of the newest written block, zero if none.
func (db *LogDB) NewestBlockID() (thor.Bytes32, error) {
	stmt, err := db.stmtCache.Prepare("SELECT value FROM config WHERE key = ?")
	if err != nil {
		return thor.Bytes32{}, err
	}
	var data []byte
	if err := stmt.QueryRow(newestIDKey).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return thor.Bytes32{}, nil
		}
		return thor.Bytes32{}, err
	}
	return thor.BytesToBytes32(data), nil
}

// HasBlockID reports whether events of the block were written.
func (db *LogDB) HasBlockID(id thor.Bytes32) (bool, error) {
	stmt, err := db.stmtCache.Prepare("SELECT COUNT(*) FROM event WHERE blockID = ?")
	if err != nil {
		return false, err
	}
	var count int
	if err := stmt.QueryRow(id.Bytes()).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	newest, err := db.NewestBlockID()
	if err != nil {
		return false, err
	}
	return newest == id, nil
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db.db}
}

// Writer writes logs in a sql transaction.
type Writer struct {
	db *sql.DB

	tx      *sql.Tx
	len     int
	newest  thor.Bytes32
	written bool
}

func (w *Writer) exec(query string, args ...any) (err error) {
	if w.tx == nil {
		if w.tx, err = w.db.Begin(); err != nil {
			return err
		}
	}
	_, err = w.tx.Exec(query, args...)
	return err
}

// Write writes the events of receipts packed in the given block.
// Events of reverted receipts are skipped.
func (w *Writer) Write(blockID thor.Bytes32, blockNumber uint32, blockTime uint64, receipts []*tx.Receipt) error {
	var index uint32
	for _, r := range receipts {
		if r.Reverted {
			continue
		}
		for clauseIndex, output := range r.Outputs {
			for _, ev := range output.Events {
				seq, err := newSequence(blockNumber, index)
				if err != nil {
					return err
				}
				var topics [maxTopicCount][]byte
				for i := 0; i < len(ev.Topics) && i < maxTopicCount; i++ {
					topics[i] = ev.Topics[i].Bytes()
				}
				if err := w.exec(
					"INSERT OR REPLACE INTO event(seq, blockID, blockTime, txID, txOrigin, clauseIndex, address, topic0, topic1, topic2, topic3, topic4, data) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)",
					seq,
					blockID.Bytes(),
					blockTime,
					r.TxID.Bytes(),
					r.Origin.Bytes(),
					clauseIndex,
					ev.Address.Bytes(),
					topics[0],
					topics[1],
					topics[2],
					topics[3],
					topics[4],
					ev.Data,
				); err != nil {
					return errors.Wrap(err, "insert event")
				}
				index++
				w.len++
			}
		}
	}
	w.newest = blockID
	w.written = true
	return nil
}

// Truncate deletes logs of blocks after blockNum (included).
func (w *Writer) Truncate(blockNum uint32) error {
	seq, err := newSequence(blockNum, 0)
	if err != nil {
		return err
	}
	return w.exec("DELETE FROM event WHERE seq >= ?", seq)
}

// Commit commits accumulated logs.
func (w *Writer) Commit() error {
	if w.written {
		if err := w.exec("INSERT OR REPLACE INTO config(key, value) VALUES(?,?)", newestIDKey, w.newest.Bytes()); err != nil {
			return err
		}
	}
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	if err == nil {
		logger.Trace("logs committed", "count", w.len, "newest", w.newest)
	}
	w.reset()
	return err
}

// Rollback rollbacks all uncommitted logs.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Rollback()
	w.reset()
	return err
}

// UncommittedCount returns the count of uncommitted logs.
func (w *Writer) UncommittedCount() int {
	return w.len
}

func (w *Writer) reset() {
	w.tx = nil
	w.len = 0
	w.written = false
}
