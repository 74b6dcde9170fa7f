// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/kinetixfi/kinetix-tokenomics/builtin/reverts"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// ErrReentrant is returned when a guarded contract is entered while already held.
var ErrReentrant = reverts.Conflict("reentrant call")

// Guard is a per-contract exclusive lock kept in storage.
type Guard struct {
	context *Context
	pos     thor.Bytes32
}

func NewGuard(context *Context, pos thor.Bytes32) *Guard {
	return &Guard{context: context, pos: pos}
}

// Enter acquires the lock. The returned release must be called on every exit path.
func (g *Guard) Enter() (release func(), err error) {
	held, err := g.context.state.GetStorage(g.context.address, g.pos)
	if err != nil {
		return nil, err
	}
	if !held.IsZero() {
		return nil, ErrReentrant
	}
	g.context.state.SetStorage(g.context.address, g.pos, thor.BytesToBytes32([]byte{1}))
	return func() {
		g.context.state.SetStorage(g.context.address, g.pos, thor.Bytes32{})
	}, nil
}

// Held reports whether the lock is currently held.
func (g *Guard) Held() (bool, error) {
	held, err := g.context.state.GetStorage(g.context.address, g.pos)
	if err != nil {
		return false, err
	}
	return !held.IsZero(), nil
}
