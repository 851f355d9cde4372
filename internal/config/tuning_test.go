package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/invaders/internal/config"
)

func TestDefaultTuningIsValid(t *testing.T) {
	tuning := config.DefaultTuning()
	require.NoError(t, tuning.Validate())
	assert.Equal(t, 5, tuning.Formation.Rows)
	assert.Equal(t, 11, tuning.Formation.Cols)
	assert.Equal(t, 200*time.Millisecond, tuning.Cannon.Cooldown)
	assert.Equal(t, 3, tuning.Game.MaxLives)
}

func TestParseTuningOverridesDefaults(t *testing.T) {
	data := []byte(`
formation:
  rows: 3
  policy: cycle
cannon:
  cooldown: 150ms
game:
  waveDelay: 2s
`)
	tuning, err := config.ParseTuning(data)
	require.NoError(t, err)

	assert.Equal(t, 3, tuning.Formation.Rows)
	assert.Equal(t, 11, tuning.Formation.Cols, "missing keys keep defaults")
	assert.Equal(t, config.PolicyCycle, tuning.Formation.Policy)
	assert.Equal(t, 150*time.Millisecond, tuning.Cannon.Cooldown)
	assert.Equal(t, 2*time.Second, tuning.Game.WaveDelay)
	assert.Equal(t, 2*time.Second, tuning.Cannon.Lifetime)
}

func TestParseTuningErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "malformed yaml", data: "formation: [", want: "failed to parse tuning"},
		{name: "unknown policy", data: "formation:\n  policy: zigzag\n", want: `unknown formation policy "zigzag"`},
		{name: "empty grid", data: "formation:\n  cols: 0\n", want: "at least 1x1"},
		{name: "no lives", data: "game:\n  maxLives: 0\n", want: "maxLives must be positive"},
		{name: "no projectiles", data: "cannon:\n  maxProjectiles: 0\n", want: "maxProjectiles must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseTuning([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Formation.BaseSpeed = 0
	tuning.Game.MaxLives = 0

	err := tuning.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseSpeed")
	assert.Contains(t, err.Error(), "maxLives")
}

func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  maxLives: 5\n"), 0o644))

	tuning, err := config.LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 5, tuning.Game.MaxLives)

	_, err = config.LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTuningFromEnv(t *testing.T) {
	t.Setenv("INVADERS_TUNING", "")
	tuning, err := config.TuningFromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTuning(), tuning)

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formation:\n  cols: 8\n"), 0o644))
	t.Setenv("INVADERS_TUNING", path)

	tuning, err = config.TuningFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8, tuning.Formation.Cols)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_VALUE", "set")
	assert.Equal(t, "set", config.GetEnv("INVADERS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", config.GetEnv("INVADERS_TEST_UNSET_VALUE", "fallback"))
}
