package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Overlays(t *testing.T) {
	t.Setenv("GOPHAUTH_GRPC_ADDR", ":6000")
	t.Setenv("GOPHAUTH_ACCESS_TTL", "5m")
	t.Setenv("GOPHAUTH_SESSION_BACKEND", "redis")
	t.Setenv("GOPHAUTH_REDIS_DB", "3")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, ":6000", c.EndpointAddrGRPC)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, SessionBackendRedis, c.SessionBackend)
	assert.Equal(t, 3, c.RedisDB)
	// untouched
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("GOPHAUTH_SWEEP_INTERVAL", "often")

	var c Config
	err := parseEnv(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
