package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleINI = `[Run]
NumParticles = 400
BridgeHeight = 0.2
CircleRadius = 1.0
CircleDistance = 1.0
LeftGateCapacity = 3
RightGateCapacity = 3
ExplosionDirectionIsRandom = true
LeftRatio = 0.5
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidFile(t *testing.T) {
	path := writeTemp(t, sampleINI)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.NumParticles)
	assert.True(t, cfg.GateIsFlat, "default should carry through when unset")
	assert.True(t, cfg.ExplosionDirectionIsRandom)

	simCfg := cfg.ToSimConfig()
	assert.Equal(t, cfg.NumParticles, simCfg.NumParticles)
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	_, err := Load(writeTemp(t, `[Run]
BridgeHeight = 0.2
CircleRadius = 1.0
CircleDistance = 1.0
LeftGateCapacity = 3
RightGateCapacity = 3
`))
	assert.Error(t, err)
}

func TestLoadRejectsBadLeftRatio(t *testing.T) {
	_, err := Load(writeTemp(t, sampleINI+"\nLeftRatio = 4\n"))
	assert.Error(t, err)
}
