// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRoot(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	lg := WithContext("pkg", "voter")

	buf := &bytes.Buffer{}
	SetDefault(NewLogger(JSONHandler(buf)))
	lg.Info("voted", "tokenId", 1, "weight", big.NewInt(100))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "voter", rec["pkg"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "voted", rec["msg"])
	assert.Equal(t, "100", rec["weight"])
}

func TestWithContextBeforeSetDefault(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	_, lazy := old.(*lazyLogger)
	require.False(t, lazy, "default root must be a concrete logger")
	assert.NotPanics(t, func() { WithContext("pkg", "vesting").Info("deposited", "amount", 1) })

	SetDefault(NewLogger(DiscardHandler()))
	lg := WithContext("pkg", "voter")
	assert.NotPanics(t, func() {
		lg.Info("voted", "tokenId", 1)
		lg.With("tokenId", 1).Debug("reset")
	})

	SetDefault(WithContext("pkg", "root"))
	assert.NotPanics(t, func() { lg.Info("voted", "tokenId", 2) })
	assert.NotPanics(t, func() { Info("root", "tokenId", 2) })
}

func TestTerminalHandlerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	lg := NewLogger(NewTerminalHandlerWithLevel(buf, &lvl, false))

	lg.Info("hidden")
	assert.Zero(t, buf.Len())

	lg.Warn("shown", "pool", "0xabc")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "WARN "))
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "pool=0xabc")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}

func TestAppendBigInt(t *testing.T) {
	v, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, "123,456,789,012,345,678,901,234,567,890", string(appendBigInt(nil, v)))
	assert.Equal(t, "1,000,000", string(appendUint64(nil, 1000000, false)))
	assert.Equal(t, "-1,000,000", string(appendInt64(nil, -1000000)))
}
