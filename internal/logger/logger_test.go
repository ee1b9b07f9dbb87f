package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "sk-123", "session_id", "abc", "step", "Pricing", "dangling"})
	require.Len(t, out, 7)
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Regexp(t, `^hash:[0-9a-f]{12}$`, out[3])
	assert.Equal(t, "Pricing", out[5])
	assert.Equal(t, "dangling", out[6])
}

func TestHashValueIsStable(t *testing.T) {
	assert.Equal(t, hashValue("s-1"), hashValue("s-1"))
	assert.NotEqual(t, hashValue("s-1"), hashValue("s-2"))
	assert.Equal(t, "", hashValue(""))
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.log")
	log, err := New("production", path)
	require.NoError(t, err)

	log.Info("reply generated", "mode", "mock", "api_key", "sk-secret")
	log.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var last map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		require.NoError(t, json.Unmarshal(sc.Bytes(), &last))
	}
	require.NotNil(t, last)
	assert.Equal(t, "reply generated", last["msg"])
	assert.Equal(t, "mock", last["mode"])
	assert.Equal(t, "[REDACTED]", last["api_key"])
}

func TestWithCarriesSanitizedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.log")
	log, err := New("production", path)
	require.NoError(t, err)

	child := log.With("component", "wizard", "session_id", "s-1")
	child.Info("step selected", "step", "Pricing")
	child.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(b, &entry))
	assert.Equal(t, "wizard", entry["component"])
	assert.Equal(t, hashValue("s-1"), entry["session_id"])
	assert.Equal(t, "Pricing", entry["step"])
}
