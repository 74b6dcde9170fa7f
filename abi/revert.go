// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	stringArgs     ethabi.Arguments
)

func init() {
	typ, err := ethabi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	stringArgs = ethabi.Arguments{{Type: typ}}
}

// PackRevert encodes reason the way solidity encodes Error(string).
func PackRevert(reason string) []byte {
	data, err := stringArgs.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, revertSelector...), data...)
}

// UnpackRevert resolves the abi-encoded revert reason.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
