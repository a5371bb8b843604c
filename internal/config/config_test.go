package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TESTAPP_PORT", "9090")
	t.Setenv("TESTAPP_MONGO_URI", "mongodb://db:27017")
	t.Setenv("TESTAPP_MONGO_DATABASE", "tasks")
	t.Setenv("TESTAPP_JWT_SECRET", "s3cret")

	var cfg Config
	require.NoError(t, Load("TESTAPP_", &cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "tasks", cfg.Mongo.Database)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoadApp_Defaults(t *testing.T) {
	t.Setenv("TASKLY_JWT_SECRET", "s3cret")

	cfg, err := LoadApp()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 180*24*time.Hour, cfg.JWT.Validity)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "taskly", cfg.Mongo.Database)
}

func TestLoadApp_RequiresSecret(t *testing.T) {
	t.Setenv("TASKLY_JWT_SECRET", "")

	_, err := LoadApp()
	assert.Error(t, err)
}
