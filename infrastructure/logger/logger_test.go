package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestFileOutputAndErrorFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Outputs = []string{"file"}
	cfg.OutputFile = filepath.Join(dir, "logs", "connector.log")
	cfg.ErrorFile = filepath.Join(dir, "logs", "error.log")

	l, err := New(cfg)
	require.NoError(t, err)
	l.LogOrder("placed", "abc", map[string]interface{}{"symbol": "BTCUSD-PERP"})
	l.LogError(errors.New("boom"), nil)
	require.NoError(t, l.Close())

	all := readLines(t, cfg.OutputFile)
	require.Len(t, all, 2)
	assert.Equal(t, "order_event", all[0]["msg"])
	assert.Equal(t, "abc", all[0]["order_id"])
	assert.Equal(t, "BTCUSD-PERP", all[0]["symbol"])

	errs := readLines(t, cfg.ErrorFile)
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0]["error"])
}

func TestSetLevelAtRuntime(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Outputs = []string{"file"}
	cfg.OutputFile = filepath.Join(dir, "connector.log")

	l, err := New(cfg)
	require.NoError(t, err)
	l.Debug("hidden")
	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, l.Level())
	l.WithFields(map[string]interface{}{"k": 1}).Debug("visible")
	assert.Error(t, l.SetLevel("nope"))
	require.NoError(t, l.Close())

	lines := readLines(t, cfg.OutputFile)
	require.Len(t, lines, 1)
	assert.Equal(t, "visible", lines[0]["msg"])
	assert.Equal(t, float64(1), lines[0]["k"])
}
