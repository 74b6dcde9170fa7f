// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Transaction is an immutable tx type.
// All clauses execute atomically on behalf of the origin.
type Transaction struct {
	body body

	cache struct {
		id atomic.Value
	}
}

type body struct {
	Origin  thor.Address
	Nonce   uint64
	Clauses []*Clause
}

// ID returns id of tx.
func (t *Transaction) ID() (id thor.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(thor.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	return thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &t.body)
	})
}

// Origin returns the account which sends the tx.
func (t *Transaction) Origin() thor.Address {
	return t.body.Origin
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Clauses returns clauses in tx.
func (t *Transaction) Clauses() []*Clause {
	return append([]*Clause(nil), t.body.Clauses...)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v)
	Origin:	%v
	Nonce:	%v
	Clauses:	%v`, t.ID(), t.body.Origin, t.body.Nonce, t.body.Clauses)
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder create a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Origin set origin.
func (b *Builder) Origin(origin thor.Address) *Builder {
	b.body.Origin = origin
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Clause add a clause.
func (b *Builder) Clause(c *Clause) *Builder {
	b.body.Clauses = append(b.body.Clauses, c)
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Clauses = append([]*Clause(nil), b.body.Clauses...)
	return &tx
}
