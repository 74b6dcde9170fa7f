// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

type Vesting struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Vesting {
	return &Vesting{rt}
}

func (v *Vesting) handleGetVesting(w http.ResponseWriter, _ *http.Request) error {
	var summary *Summary
	err := v.rt.View(func(st *state.State, head runtime.Head) error {
		native := builtin.Vesting.Native(st, runtime.NewReadEnv(st, head))
		cfg, err := native.Config()
		if err != nil {
			return err
		}
		governor, err := native.Governor()
		if err != nil {
			return err
		}
		supply, err := native.TotalSupply()
		if err != nil {
			return err
		}
		summary = &Summary{
			DepositToken:     cfg.DepositToken,
			ClaimToken:       cfg.ClaimToken,
			Duration:         cfg.Duration,
			DirectRefundRate: cfg.DirectRefundRate,
			Governor:         governor,
			TotalSupply:      hexOrDecimal(supply),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, summary)
}

func (v *Vesting) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}

	var pos *Position
	err = v.rt.View(func(st *state.State, head runtime.Head) error {
		native := builtin.Vesting.Native(st, runtime.NewReadEnv(st, head))
		p, err := native.Position(addr)
		if err != nil {
			return err
		}
		vested, err := native.VestedAmount(addr)
		if err != nil {
			return err
		}
		claimable, err := native.Claimable(addr)
		if err != nil {
			return err
		}
		pos = &Position{
			Address:             addr,
			Balance:             hexOrDecimal(p.Balance),
			CumulativeClaimable: hexOrDecimal(p.CumulativeClaimable),
			Claimed:             hexOrDecimal(p.Claimed),
			LastUpdate:          p.LastUpdate,
			Vested:              hexOrDecimal(vested),
			Claimable:           hexOrDecimal(claimable),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pos)
}

func (v *Vesting) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vesting").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetVesting))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /vesting/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetPosition))
}
