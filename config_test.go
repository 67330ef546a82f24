package bough

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
depth = 3
branch_count = 4
edit_mode = true

[camera]
fov_degrees = 50
eye = [0, 5, 40]
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, 4, cfg.BranchCount)
	assert.True(t, cfg.EditMode)
	assert.Equal(t, 50.0, cfg.Camera.FOVDegrees)
	assert.Equal(t, [3]float64{0, 5, 40}, cfg.Camera.Eye)

	// Untouched keys keep their defaults.
	def := DefaultConfig()
	assert.Equal(t, def.TrunkLength, cfg.TrunkLength)
	assert.Equal(t, def.Camera.Near, cfg.Camera.Near)
}

func TestParseConfigRejectsUnknownKey(t *testing.T) {
	_, err := ParseConfig([]byte("depht = 3\n"))
	assert.Error(t, err)
}

func TestParseConfigRejectsBadSyntax(t *testing.T) {
	_, err := ParseConfig([]byte("depth = \n"))
	assert.Error(t, err)
}

func TestParseConfigValidates(t *testing.T) {
	_, err := ParseConfig([]byte("depth = 7\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepthRange))

	_, err = ParseConfig([]byte("branch_count = 0\n"))
	assert.ErrorIs(t, err, ErrBranchCountRange)

	_, err = ParseConfig([]byte("trunk_radius = -1\n"))
	assert.ErrorIs(t, err, ErrNonPositiveSize)
}

func TestConfigValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 0
	cfg.TrunkLength = 0
	cfg.Camera.Near = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDepthRange)
	assert.ErrorIs(t, err, ErrNonPositiveSize)
	assert.Contains(t, err.Error(), "clip range")
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Seed = 42
	want.Spin = true
	data, err := want.Encode()
	require.NoError(t, err)

	got, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bough.toml")
	require.NoError(t, os.WriteFile(path, []byte("depth = 2\nbranch_count = 3\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, 3, cfg.BranchCount)
}

func TestConfigNewCamera(t *testing.T) {
	cfg := testConfig(3, 2)
	cam := cfg.newCamera()
	assert.InDelta(t, 50, cam.Distance, 1e-9)
	assert.Equal(t, 800.0, cam.Viewport.Width)
	assertVecNear(t, r3.Vec{Y: 10, Z: 50}, cam.Position())
}
