package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9000\"\nmongo:\n  uri: \"mongodb://db\"\n  dbName: \"supplies\"\njwt:\n  secret: \"s\"\ns3:\n  bucket: \"sigs\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("MONGO_DBNAME", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "mongodb://db", cfg.Mongo.URI)
	assert.Equal(t, "from-env", cfg.Mongo.DBName)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Error(t, cfg.Validate())
}

func TestJWTConfig_TTL(t *testing.T) {
	assert.Equal(t, 2*time.Hour, JWTConfig{Expiration: "2h"}.TTL())
	assert.Equal(t, 24*time.Hour, JWTConfig{Expiration: "soon"}.TTL())
	assert.Equal(t, 24*time.Hour, JWTConfig{}.TTL())
}
