package clustergcn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clustergcn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigCount(t *testing.T) {
	path := writeConfig(t, `
name: cora
clusters: 10
q: 2
lam: 0.25
seed: 7
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "cora", cfg.Name)
	assert.Equal(t, Count(10), cfg.Clusters)
	assert.Equal(t, 2, cfg.Q)
	assert.Equal(t, 0.25, cfg.Lam)
	assert.Equal(t, uint64(7), cfg.Seed)
	// Untouched keys keep their defaults
	assert.True(t, cfg.Normalize)
	assert.Equal(t, Float64, cfg.FeaturePrecision)
	require.NoError(t, cfg.validate())
}

func TestLoadConfigExplicit(t *testing.T) {
	path := writeConfig(t, `
clusters:
  - [a, b]
  - [c]
normalize: false
feature_precision: float16
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, Explicit{{"a", "b"}, {"c"}}, cfg.Clusters)
	assert.False(t, cfg.Normalize)
	assert.Equal(t, Float16, cfg.FeaturePrecision)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"mapping clusters", "clusters: {a: 1}\n", ErrInvalidType},
		{"string clusters", "clusters: many\n", ErrInvalidType},
		{"nested scalars", "clusters: [1, 2]\n", ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "clusterz: 3\n"))
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidationMessagesUseYAMLNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lam = 2
	err := cfg.validate()
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "lam must be at most 1")
}
