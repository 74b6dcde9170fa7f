// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABI of every builtin contract.
package gen

import (
	"embed"
	"fmt"
)

//go:embed compiled
var fs embed.FS

// MustABI returns the ABI json of the named contract, e.g. "Voter".
func MustABI(name string) []byte {
	data, err := fs.ReadFile("compiled/" + name + ".abi")
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}
	return data
}

// Names lists the embedded contracts.
func Names() []string {
	entries, err := fs.ReadDir("compiled")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		names = append(names, n[:len(n)-len(".abi")])
	}
	return names
}
