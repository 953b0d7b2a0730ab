package config

import (
	"testing"

	"godge/adapters/stats/dge"
	"godge/domain/expression"
	"godge/internal"
	"godge/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"GODGE_SEED", "GODGE_VARIANCE", "GODGE_ALIGN", "GODGE_RESULTS_DIR", "DATABASE_URL", "PORT", "GODGE_MAX_UPLOAD_BYTES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.Analysis.Seed)
	assert.Equal(t, dge.VariancePooled, cfg.Analysis.Variance)
	assert.Equal(t, expression.AlignStrict, cfg.Analysis.Align)
	assert.Equal(t, ".", cfg.Storage.ResultsDir)
	assert.False(t, cfg.Storage.UsePostgres())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(64<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, internal.LogLevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GODGE_SEED", "42")
	t.Setenv("GODGE_VARIANCE", "unequal")
	t.Setenv("GODGE_ALIGN", "intersect")
	t.Setenv("DATABASE_URL", "postgres://localhost/dge")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Analysis.Seed)
	assert.Equal(t, int64(42), *cfg.Analysis.Seed)
	assert.Equal(t, dge.VarianceUnequal, cfg.Analysis.Variance)
	assert.Equal(t, expression.AlignIntersect, cfg.Analysis.Align)
	assert.True(t, cfg.Storage.UsePostgres())
	assert.Equal(t, internal.LogLevelDebug, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("GODGE_SEED", "abc")
	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.CodeFor(err))

	clearEnv(t)
	t.Setenv("GODGE_VARIANCE", "welch")
	_, err = Load()
	assert.Equal(t, errors.CodeConfigInvalid, errors.CodeFor(err))

	clearEnv(t)
	t.Setenv("GODGE_MAX_UPLOAD_BYTES", "-1")
	_, err = Load()
	assert.Equal(t, errors.CodeConfigInvalid, errors.CodeFor(err))
}
