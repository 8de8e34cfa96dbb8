package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopkit/pkg/config"
)

type testConfig struct {
	File  string `env:"TEST_DATABASE_FILE" envDefault:"db.json"`
	Token string `env:"TEST_AUTH_TOKEN"`
	Port  int    `env:"TEST_PORT" envDefault:"8080"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "db.json", cfg.File)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.Token)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_DATABASE_FILE", "/var/data/shop.json")
	t.Setenv("TEST_PORT", "9090")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "/var/data/shop.json", cfg.File)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	require.ErrorIs(t, err, config.ErrNilPointer)
}
