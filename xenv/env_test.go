// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetixfi/kinetix-tokenomics/abi"
	"github.com/kinetixfi/kinetix-tokenomics/lvldb"
	"github.com/kinetixfi/kinetix-tokenomics/state"
	"github.com/kinetixfi/kinetix-tokenomics/thor"
)

const testABI = `[
	{"type":"function","name":"double","stateMutability":"nonpayable",
	 "inputs":[{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"peek","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"event","name":"Doubled","anonymous":false,
	 "inputs":[{"name":"caller","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

func newTestEnv(t *testing.T, name string, input func(m *abi.Method) []byte) (*Environment, *abi.ABI) {
	contract, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	method, _ := contract.MethodByName(name)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := New(method, state.NewStater(db).NewState(),
		&BlockContext{Number: 1, Time: 1000},
		&TransactionContext{Origin: thor.BytesToAddress([]byte("origin"))},
		thor.BytesToAddress([]byte("caller")),
		thor.BytesToAddress([]byte("to")),
		input(method))
	return env, contract
}

func TestCall(t *testing.T) {
	env, contract := newTestEnv(t, "double", func(m *abi.Method) []byte {
		data, _ := m.EncodeInput(big.NewInt(21))
		return data
	})
	doubled, _ := contract.EventByName("Doubled")

	out, err := env.Call(func(env *Environment) ([]any, error) {
		var value *big.Int
		env.ParseArgs(&value)
		result := new(big.Int).Mul(value, big.NewInt(2))
		if err := env.Log(doubled, env.To(), []thor.Bytes32{thor.BytesToBytes32(env.Caller().Bytes())}, result); err != nil {
			return nil, err
		}
		return []any{result}, nil
	}, false)()
	require.NoError(t, err)

	method, _ := contract.MethodByName("double")
	var ret *big.Int
	require.NoError(t, method.DecodeOutput(out, &ret))
	assert.Equal(t, int64(42), ret.Int64())

	events := env.Events()
	require.Len(t, events, 1)
	assert.Equal(t, doubled.ID(), events[0].Topics[0])
	assert.Equal(t, env.To(), events[0].Address)
	assert.Equal(t, uint64(1000), env.Now())
}

func TestCallStopAndReadonly(t *testing.T) {
	env, _ := newTestEnv(t, "double", func(m *abi.Method) []byte { return []byte{1, 2, 3, 4} })

	_, err := env.Call(func(env *Environment) ([]any, error) {
		var value *big.Int
		env.ParseArgs(&value)
		return nil, nil
	}, false)()
	assert.ErrorContains(t, err, "decode native input")

	_, err = env.Call(func(env *Environment) ([]any, error) {
		env.Stop(errors.New("stopped"))
		return nil, nil
	}, false)()
	assert.EqualError(t, err, "stopped")

	_, err = env.Call(func(env *Environment) ([]any, error) { return nil, nil }, true)()
	assert.EqualError(t, err, "write protection")

	assert.Panics(t, func() {
		env.Call(func(env *Environment) ([]any, error) { panic("boom") }, false)()
	})
}

func TestEventCheckpoint(t *testing.T) {
	env, contract := newTestEnv(t, "peek", func(m *abi.Method) []byte { id := m.ID(); return id[:] })
	doubled, _ := contract.EventByName("Doubled")

	assert.NoError(t, env.Log(doubled, env.To(), nil, big.NewInt(1)))
	rev := env.Checkpoint()
	assert.NoError(t, env.Log(doubled, env.To(), nil, big.NewInt(2)))
	assert.Len(t, env.Events(), 2)

	env.RevertTo(rev)
	assert.Len(t, env.Events(), 1)

	out, err := env.Call(func(env *Environment) ([]any, error) {
		return []any{env.TransactionContext().Origin}, nil
	}, true)()
	assert.NoError(t, err)
	assert.Len(t, out, 32)
}
