// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voter

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/api/restutil"
	"github.com/kinetixfi/kinetix-tokenomics/builtin"
	"github.com/kinetixfi/kinetix-tokenomics/builtin/escrow"
	builtinvoter "github.com/kinetixfi/kinetix-tokenomics/builtin/voter"
	"github.com/kinetixfi/kinetix-tokenomics/runtime"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
	"github.com/kinetixfi/kinetix-tokenomics/xenv"
)

type Voter struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Voter {
	return &Voter{rt}
}

func (v *Voter) view(fn func(st *state.State, env *xenv.Environment) error) error {
	return v.rt.View(func(st *state.State, head runtime.Head) error {
		return fn(st, runtime.NewReadEnv(st, head))
	})
}

func (v *Voter) handleGetVoter(w http.ResponseWriter, _ *http.Request) error {
	var summary *Summary
	err := v.view(func(st *state.State, env *xenv.Environment) error {
		ctrl := builtin.Voter.Native(st, env)
		governor, err := ctrl.Governor()
		if err != nil {
			return err
		}
		council, err := ctrl.EmergencyCouncil()
		if err != nil {
			return err
		}
		total, err := ctrl.TotalWeight()
		if err != nil {
			return err
		}
		count, err := ctrl.PoolCount()
		if err != nil {
			return err
		}
		whitelist, err := ctrl.WhitelistedTokens()
		if err != nil {
			return err
		}
		epoch := ctrl.EpochStart(env.Now())
		summary = &Summary{
			Governor:         governor,
			EmergencyCouncil: council,
			TotalWeight:      hexOrDecimal(total),
			EpochStart:       epoch,
			NextEpoch:        epoch + thor.Epoch,
			PoolCount:        count,
			Whitelist:        whitelist,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, summary)
}

func getPool(ctrl *builtinvoter.Voter, addr thor.Address) (*Pool, error) {
	info, err := ctrl.Pool(addr)
	if err != nil {
		return nil, err
	}
	if info.IsEmpty() {
		return nil, builtinvoter.ErrPoolNotFound
	}
	weight, err := ctrl.PoolWeight(addr)
	if err != nil {
		return nil, err
	}
	return &Pool{
		Address: addr,
		Kind:    info.Kind.String(),
		Active:  info.Active,
		Ledger:  info.Ledger,
		Weight:  hexOrDecimal(weight),
	}, nil
}

func (v *Voter) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools := make([]*Pool, 0)
	err := v.view(func(st *state.State, env *xenv.Environment) error {
		ctrl := builtin.Voter.Native(st, env)
		addrs, err := ctrl.AllPools()
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			pool, err := getPool(ctrl, addr)
			if err != nil {
				return err
			}
			pools = append(pools, pool)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pools)
}

func (v *Voter) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}

	var detail *PoolDetail
	err = v.view(func(st *state.State, env *xenv.Environment) error {
		pool, err := getPool(builtin.Voter.Native(st, env), addr)
		if err != nil {
			return err
		}
		ledger := builtin.Bribe.At(pool.Ledger, st, env)
		tokens, err := ledger.RewardTokens()
		if err != nil {
			return err
		}
		supply, err := ledger.TotalSupply()
		if err != nil {
			return err
		}
		detail = &PoolDetail{
			Pool:         *pool,
			RewardTokens: tokens,
			LedgerSupply: hexOrDecimal(supply),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, detail)
}

func (v *Voter) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 0, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}

	var token *Token
	err = v.view(func(st *state.State, env *xenv.Environment) error {
		esc := builtin.Escrow.Native(st, env)
		lock, err := esc.Locked(id)
		if err != nil {
			return err
		}
		if lock.Owner.IsZero() {
			return escrow.ErrUnknownToken
		}
		power, err := esc.BalanceOfNFT(id)
		if err != nil {
			return err
		}
		voted, err := esc.Voted(id)
		if err != nil {
			return err
		}

		ctrl := builtin.Voter.Native(st, env)
		used, err := ctrl.UsedWeight(id)
		if err != nil {
			return err
		}
		lastVoted, err := ctrl.LastVoted(id)
		if err != nil {
			return err
		}
		pools, err := ctrl.VoterPools(id)
		if err != nil {
			return err
		}

		token = &Token{
			ID:          id,
			Owner:       lock.Owner,
			Amount:      hexOrDecimal(lock.Amount),
			End:         lock.End,
			VotingPower: hexOrDecimal(power),
			Voted:       voted,
			UsedWeight:  hexOrDecimal(used),
			LastVoted:   lastVoted,
			Votes:       make([]*Vote, 0, len(pools)),
			Rewards:     make([]*Reward, 0),
		}
		for _, pool := range pools {
			weight, err := ctrl.Votes(id, pool)
			if err != nil {
				return err
			}
			token.Votes = append(token.Votes, &Vote{Pool: pool, Weight: hexOrDecimal(weight)})

			rewards, err := earned(st, env, ctrl, pool, id)
			if err != nil {
				return err
			}
			token.Rewards = append(token.Rewards, rewards...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, token)
}

// earned lists the nonzero rewards of id on the ledger of pool.
func earned(st *state.State, env *xenv.Environment, ctrl *builtinvoter.Voter, pool thor.Address, id uint64) ([]*Reward, error) {
	addr, err := ctrl.LedgerOf(pool)
	if err != nil {
		return nil, err
	}
	ledger := builtin.Bribe.At(addr, st, env)
	tokens, err := ledger.RewardTokens()
	if err != nil {
		return nil, err
	}
	var rewards []*Reward
	for _, token := range tokens {
		amount, err := ledger.Earned(token, id)
		if err != nil {
			return nil, err
		}
		if amount.Sign() > 0 {
			rewards = append(rewards, &Reward{Ledger: addr, Token: token, Amount: hexOrDecimal(amount)})
		}
	}
	return rewards, nil
}

func (v *Voter) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /voter").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetVoter))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /voter/pools").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetPools))
	sub.Path("/pools/{address}").
		Methods(http.MethodGet).
		Name("GET /voter/pools/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetPool))
	sub.Path("/tokens/{id}").
		Methods(http.MethodGet).
		Name("GET /voter/tokens/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetToken))
}
