// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Transactions struct {
	rt         *runtime.Runtime
	enableSend bool
}

// New creates the transactions api. Submission is only served when enableSend is set.
func New(rt *runtime.Runtime, enableSend bool) *Transactions {
	return &Transactions{
		rt,
		enableSend,
	}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	if !t.enableSend {
		return restutil.Forbidden(errors.New("transaction submission is only enabled in solo mode"))
	}

	var body SendTx
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := body.decode()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if _, err := runtime.ResolveTransaction(trx); err != nil {
		metricTxSendCount().AddWithLabel(1, map[string]string{"status": "bad"})
		return restutil.BadRequest(errors.WithMessage(err, "bad tx"))
	}

	if _, err := t.rt.Execute(trx); err != nil {
		if errors.Is(err, runtime.ErrKnownTx) {
			metricTxSendCount().AddWithLabel(1, map[string]string{"status": "rejected"})
			return restutil.Forbidden(errors.WithMessage(err, "rejected tx"))
		}
		return err
	}
	metricTxSendCount().AddWithLabel(1, map[string]string{"status": "accepted"})
	return restutil.WriteJSON(w, &SendTxResult{ID: trx.ID()})
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	txID, err := thor.ParseBytes32(id)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.rt.GetReceipt(txID)
	if err != nil {
		if errors.Is(err, runtime.ErrNotFound) {
			return restutil.WriteJSON(w, nil)
		}
		return err
	}
	return restutil.WriteJSON(w, types.ConvertReceipt(receipt))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
