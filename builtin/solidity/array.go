// Copyright (c) 2025 The Kinetix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

// Array is an append-only list in storage. The length lives at pos,
// element i lives in a mapping keyed by i under the same pos.
type Array[V any] struct {
	length   *Uint256
	elements *Mapping[thor.Bytes32, V]
}

func NewArray[V any](context *Context, pos thor.Bytes32) *Array[V] {
	return &Array[V]{
		length:   NewUint256(context, pos),
		elements: NewMapping[thor.Bytes32, V](context, pos),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	n, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (a *Array[V]) Get(index uint64) (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if index >= n {
		return value, errors.Errorf("array index %d out of range %d", index, n)
	}
	return a.elements.Get(thor.Uint64ToBytes32(index))
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.elements.Set(thor.Uint64ToBytes32(n), value); err != nil {
		return 0, err
	}
	a.length.Set(new(big.Int).SetUint64(n + 1))
	return n, nil
}

// All returns every element in insertion order.
func (a *Array[V]) All() ([]V, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, n)
	for i := range n {
		v, err := a.elements.Get(thor.Uint64ToBytes32(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
