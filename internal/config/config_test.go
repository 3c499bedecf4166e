package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"benritz/bonds/internal/config"
	"benritz/bonds/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"BONDS_CONFIG_FILE", "LOG_LEVEL", "LOG_FORMAT", "BOND_FREQUENCY", "BOND_FACE_AMOUNT",
		"SOLVER_TOLERANCE", "SOLVER_MAX_ITERATIONS", "GILTS_DATA_BUCKET_NAME",
		"GILTS_DATA_BUCKET_PREFIX", "AWS_PROFILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, pricing.DefaultFrequency, cfg.Bond.Frequency)
	assert.Equal(t, pricing.DefaultFaceAmount, cfg.Bond.FaceAmount)
	assert.Equal(t, pricing.DefaultTolerance, cfg.Solver.Tolerance)
	assert.Equal(t, pricing.DefaultMaxIterations, cfg.Solver.MaxIterations)
	assert.Equal(t, "default", cfg.Storage.Profile)
	assert.Len(t, cfg.Solver.Options(), 2)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BOND_FREQUENCY", "4")
	t.Setenv("SOLVER_TOLERANCE", "1e-10")
	t.Setenv("GILTS_DATA_BUCKET_NAME", "gilts")
	t.Setenv("GILTS_DATA_BUCKET_PREFIX", "daily")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Bond.Frequency)
	assert.Equal(t, 1e-10, cfg.Solver.Tolerance)
	assert.Equal(t, "gilts", cfg.Storage.Bucket)
	assert.Equal(t, "daily", cfg.Storage.Prefix)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bonds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  format: json
bond:
  frequency: 1
  face_amount: 1000
solver:
  max_iterations: 200
`), 0o600))

	t.Setenv("BONDS_CONFIG_FILE", path)
	t.Setenv("SOLVER_MAX_ITERATIONS", "75")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1, cfg.Bond.Frequency)
	assert.Equal(t, 1000.0, cfg.Bond.FaceAmount)
	// env wins over the file
	assert.Equal(t, 75, cfg.Solver.MaxIterations)
	assert.Equal(t, pricing.DefaultTolerance, cfg.Solver.Tolerance)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad int", "BOND_FREQUENCY", "two"},
		{"zero frequency", "BOND_FREQUENCY", "0"},
		{"bad float", "BOND_FACE_AMOUNT", "lots"},
		{"negative tolerance", "SOLVER_TOLERANCE", "-1"},
		{"missing file", "BONDS_CONFIG_FILE", "/does/not/exist.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
