package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{name: "manifest", cfg: Config{ManifestPaths: []string{"calls"}, WorkerCount: 1}},
		{name: "single call", cfg: Config{Call: "Sub", Args: "[3, 1]", WorkerCount: 1}},
		{name: "list only", cfg: Config{List: true, WorkerCount: 1}},
		{name: "nothing to do", cfg: Config{WorkerCount: 1}, errContains: "required"},
		{name: "args without call", cfg: Config{List: true, Args: "[1]", WorkerCount: 1}, errContains: "without a call"},
		{name: "no workers", cfg: Config{Call: "Ping", WorkerCount: 0}, errContains: "worker count"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = newLogger("bogus", "text", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
