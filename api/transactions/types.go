// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/tx"
)

// SendTx is the body of a transaction submission.
type SendTx struct {
	Origin  thor.Address        `json:"origin"`
	Nonce   math.HexOrDecimal64 `json:"nonce"`
	Clauses types.Clauses       `json:"clauses"`
}

func (s *SendTx) decode() (*tx.Transaction, error) {
	clauses, err := s.Clauses.Decode()
	if err != nil {
		return nil, err
	}
	builder := tx.NewBuilder().
		Origin(s.Origin).
		Nonce(uint64(s.Nonce))
	for _, c := range clauses {
		builder.Clause(c)
	}
	return builder.Build(), nil
}

// SendTxResult is responded to a successful submission.
type SendTxResult struct {
	ID thor.Bytes32 `json:"id"`
}
