package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morshed33/xprs-go/pkg/config"
)

type defaultsConfig struct {
	Name string `env:"CFG_TEST_NAME" envDefault:"xprs"`
	Port int    `env:"CFG_TEST_PORT" envDefault:"5000"`
}

type overrideConfig struct {
	Name string `env:"CFG_TEST_OVERRIDE_NAME"`
	Port int    `env:"CFG_TEST_OVERRIDE_PORT"`
}

type requiredConfig struct {
	Secret string `env:"CFG_TEST_REQUIRED,required"`
}

type fileConfig struct {
	Shared   string `env:"CFG_TEST_SHARED"`
	Specific string `env:"CFG_TEST_SPECIFIC"`
}

// Tests in this file share the process environment and the package cache,
// so they do not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "xprs", cfg.Name)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_OVERRIDE_NAME", "api")
	t.Setenv("CFG_TEST_OVERRIDE_PORT", "8080")

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_OVERRIDE_NAME", "first")

	var first overrideConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFG_TEST_OVERRIDE_NAME", "second")
	var second overrideConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name)

	config.ResetCache()
	var third overrideConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Name)
}

func TestLoad_MissingRequired(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CFG_TEST_REQUIRED", "s3cret")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s3cret", cfg.Secret)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	config.ResetCache()
	os.Unsetenv("CFG_TEST_REQUIRED")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

func TestEnvFiles(t *testing.T) {
	assert.Equal(t, []string{".env"}, config.EnvFiles(""))
	assert.Equal(t, []string{".env.production", ".env"}, config.EnvFiles("production"))
}

func TestLoadEnv_Precedence(t *testing.T) {
	config.ResetCache()
	dir := t.TempDir()
	shared := filepath.Join(dir, ".env")
	specific := filepath.Join(dir, ".env.development")

	require.NoError(t, os.WriteFile(shared, []byte("CFG_TEST_SHARED=shared\nCFG_TEST_SPECIFIC=shared\n"), 0o600))
	require.NoError(t, os.WriteFile(specific, []byte("CFG_TEST_SPECIFIC=specific\n"), 0o600))

	t.Setenv("CFG_TEST_SHARED", "")
	t.Setenv("CFG_TEST_SPECIFIC", "")
	os.Unsetenv("CFG_TEST_SHARED")
	os.Unsetenv("CFG_TEST_SPECIFIC")

	require.NoError(t, config.LoadEnv(specific, shared))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "shared", cfg.Shared)
	assert.Equal(t, "specific", cfg.Specific)
}

func TestLoadEnv_MissingFilesSkipped(t *testing.T) {
	assert.NoError(t, config.LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadEnv_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(f, []byte("CFG_TEST_OVERRIDE_NAME=from-file\n"), 0o600))
	t.Setenv("CFG_TEST_OVERRIDE_NAME", "from-env")

	require.NoError(t, config.LoadEnv(f))
	assert.Equal(t, "from-env", os.Getenv("CFG_TEST_OVERRIDE_NAME"))
}
