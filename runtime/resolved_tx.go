// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// MaxClauses is the upper bound of clauses in one transaction.
const MaxClauses = 64

// ResolvedTransaction is a transaction that passed basic validation.
type ResolvedTransaction struct {
	tx      *tx.Transaction
	Origin  thor.Address
	Clauses []*tx.Clause
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(trx *tx.Transaction) (*ResolvedTransaction, error) {
	origin := trx.Origin()
	if origin.IsZero() {
		return nil, errors.New("tx origin must be set")
	}

	clauses := trx.Clauses()
	if err := ValidateClauses(clauses); err != nil {
		return nil, err
	}

	return &ResolvedTransaction{
		trx,
		origin,
		clauses,
	}, nil
}

// ValidateClauses checks the clauses of a transaction or a dry run.
func ValidateClauses(clauses []*tx.Clause) error {
	if len(clauses) == 0 {
		return errors.New("tx without clauses")
	}
	if len(clauses) > MaxClauses {
		return errors.Errorf("too many clauses: %d > %d", len(clauses), MaxClauses)
	}
	for i, clause := range clauses {
		if clause.To().IsZero() {
			return errors.Errorf("clause %d: missing 'to'", i)
		}
		if len(clause.Data()) < 4 {
			return errors.Errorf("clause %d: missing method id", i)
		}
	}
	return nil
}

// ID returns the id of the underlying transaction.
func (r *ResolvedTransaction) ID() thor.Bytes32 {
	return r.tx.ID()
}

// CommonTo returns common 'To' field of clauses if any.
// Nil returned if no common 'To'.
func (r *ResolvedTransaction) CommonTo() *thor.Address {
	if len(r.Clauses) == 0 {
		return nil
	}

	firstTo := r.Clauses[0].To()
	for _, clause := range r.Clauses[1:] {
		if clause.To() != firstTo {
			return nil
		}
	}
	return &firstTo
}
