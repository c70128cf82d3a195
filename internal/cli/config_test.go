package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("DEMOREPLAY_ENGINE", "/opt/prboom/prboom-plus")
	t.Setenv("DEMOREPLAY_WAD_DIR", "/data/wads")
	t.Setenv("DEMOREPLAY_DEMO_DIR", "/data/lmps")
	t.Setenv("DEMOREPLAY_DB", "/tmp/runs.db")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, EnvConfig{
		Engine:  "/opt/prboom/prboom-plus",
		WadDir:  "/data/wads",
		DemoDir: "/data/lmps",
		DB:      "/tmp/runs.db",
	}, cfg)
}

func TestApplyEnv_FlagsWin(t *testing.T) {
	opts := &RootOptions{Engine: "./flag-engine"}
	opts.applyEnv(EnvConfig{Engine: "./env-engine", WadDir: "/env/wads"})

	assert.Equal(t, "./flag-engine", opts.Engine)
	assert.Equal(t, "/env/wads", opts.WadDir)
	assert.Equal(t, "", opts.DemoDir)
}

func TestRootOptions_Layout(t *testing.T) {
	opts := &RootOptions{Engine: "e", WadDir: "w", DemoDir: "d"}
	layout := opts.Layout()
	assert.Equal(t, "e", layout.Engine)
	assert.Equal(t, "w", layout.WadDir)
	assert.Equal(t, "d", layout.DemoDir)
}
