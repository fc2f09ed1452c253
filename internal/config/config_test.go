package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/lrtensor/internal/lrtensor"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LRTENSOR_LOG_LEVEL", "")
	t.Setenv("LRTENSOR_KIND", "")
	t.Setenv("LRTENSOR_WORKERS", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	args, err := cfg.Args()
	require.NoError(t, err)
	assert.Equal(t, lrtensor.Args{Thresh: 1e-6, Kind: lrtensor.KindLowRank2D}, args)
	assert.Equal(t, 8, cfg.Grid.K)
	assert.Equal(t, 4, cfg.Grid.NDim)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadPartialFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "lrtensor.yaml")
	data := "tensor:\n  kind: lowrank-3d\n  thresh: 1e-4\nparallel:\n  workers: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Tensor = TensorConfig{Thresh: 1e-4, Kind: "lowrank-3d"}
	want.Parallel.Workers = 2
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	kernels := cfg.Kernels()
	assert.Equal(t, 2, kernels.NumWorkers)
	assert.True(t, kernels.Enabled)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tensor: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "lrtensor.yaml")
	cfg := Default()
	cfg.Tensor.Kind = lrtensor.KindFull.String()
	cfg.Tensor.Thresh = 0
	cfg.Logging = LoggingConfig{Level: "debug", JSON: true}

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, loaded.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LRTENSOR_LOG_LEVEL", "debug")
	t.Setenv("LRTENSOR_KIND", "full")
	t.Setenv("LRTENSOR_WORKERS", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "full", cfg.Tensor.Kind)
	assert.Equal(t, 1, cfg.Parallel.Workers)
	assert.False(t, cfg.Kernels().Enabled)

	t.Setenv("LRTENSOR_WORKERS", "many")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Parallel.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errIs  error
	}{
		{"unknown kind", func(c *Config) { c.Tensor.Kind = "tucker" }, lrtensor.ErrInvalidOperation},
		{"zero thresh for low rank", func(c *Config) { c.Tensor.Thresh = 0 }, lrtensor.ErrInvalidOperation},
		{"none kind", func(c *Config) { c.Tensor.Kind = "none" }, lrtensor.ErrInvalidOperation},
		{"zero grid", func(c *Config) { c.Grid.K = 0 }, nil},
		{"zero ndim", func(c *Config) { c.Grid.NDim = 0 }, nil},
		{"negative workers", func(c *Config) { c.Parallel.Workers = -1 }, nil},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging = LoggingConfig{Level: "warn", JSON: true}
	opts := cfg.LoggerOptions()
	assert.Equal(t, "warn", opts.Level)
	assert.True(t, opts.JSON)
}
