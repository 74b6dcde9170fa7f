// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/token"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

// view runs fn against the token at the address in the request path.
func (t *Tokens) view(req *http.Request, fn func(addr thor.Address, tok *token.Token) error) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return t.rt.View(func(st *state.State, head runtime.Head) error {
		tok := builtin.Token.At(addr, st, runtime.NewReadEnv(st, head))
		exists, err := tok.Exists()
		if err != nil {
			return err
		}
		if !exists {
			return restutil.NotFound(errors.New("token not found"))
		}
		return fn(addr, tok)
	})
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var result *Token
	err := t.view(req, func(addr thor.Address, tok *token.Token) error {
		meta, err := tok.Metadata()
		if err != nil {
			return err
		}
		supply, err := tok.TotalSupply()
		if err != nil {
			return err
		}
		result = &Token{
			Address:     addr,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    token.Decimals,
			Minter:      meta.Minter,
			TotalSupply: (*math.HexOrDecimal256)(supply),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, result)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	owner, err := thor.ParseAddress(mux.Vars(req)["owner"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "owner"))
	}

	var result *Balance
	err = t.view(req, func(addr thor.Address, tok *token.Token) error {
		bal, err := tok.BalanceOf(owner)
		if err != nil {
			return err
		}
		result = &Balance{Token: addr, Owner: owner, Balance: (*math.HexOrDecimal256)(bal)}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, result)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{owner}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{owner}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetBalance))
}
