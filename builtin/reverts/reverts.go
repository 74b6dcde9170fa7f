// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
)

// Kind classifies why an operation was rejected.
type Kind uint8

const (
	Unknown Kind = iota
	Authorization
	StateConflict
	InvalidInput
	Solvency
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case StateConflict:
		return "state-conflict"
	case InvalidInput:
		return "invalid-input"
	case Solvency:
		return "solvency"
	default:
		return "unknown"
	}
}

// ErrRevert rejects an operation. All its effects are rolled back.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Unauthorized(message string) *ErrRevert { return New(Authorization, message) }
func Conflict(message string) *ErrRevert     { return New(StateConflict, message) }
func Invalid(message string) *ErrRevert      { return New(InvalidInput, message) }
func Insolvent(message string) *ErrRevert    { return New(Solvency, message) }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Bytes returns the message abi-encoded as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	return abi.PackRevert(e.message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert in err's chain, Unknown if none.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind && kind != Unknown
}
