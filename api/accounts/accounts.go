// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/api/types"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{
		rt,
	}
}

func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	callData := &CallData{}
	if err := restutil.ParseJSON(req.Body, &callData); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	address, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	batchCallData := &BatchCallData{
		Clauses: types.Clauses{
			&types.Clause{
				To:   &address,
				Data: callData.Data,
			},
		},
		Caller: callData.Caller,
	}
	results, err := a.batchCall(batchCallData)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, results[0])
}

func (a *Accounts) handleCallBatchCode(w http.ResponseWriter, req *http.Request) error {
	batchCallData := &BatchCallData{}
	if err := restutil.ParseJSON(req.Body, &batchCallData); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	results, err := a.batchCall(batchCallData)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, results)
}

func (a *Accounts) batchCall(batchCallData *BatchCallData) (BatchCallResults, error) {
	clauses, err := batchCallData.Clauses.Decode()
	if err != nil {
		return nil, restutil.BadRequest(err)
	}
	if err := runtime.ValidateClauses(clauses); err != nil {
		return nil, restutil.BadRequest(err)
	}
	var caller thor.Address
	if batchCallData.Caller != nil {
		caller = *batchCallData.Caller
	}

	receipt, err := a.rt.Call(caller, clauses)
	if err != nil {
		return nil, err
	}
	return convertReceipt(receipt), nil
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/*").
		Methods(http.MethodPost).
		Name("POST /accounts/*").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleCallBatchCode))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleCallContract))
}
