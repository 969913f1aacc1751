package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "qa")
	t.Setenv("QA_DATABASE_ENGINE", "sqlite")
	t.Setenv("QA_CACHE_PLAN_TTL", "5m")
	t.Setenv("QA_SERVER_ADDRESS", ":9000")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "QA", conf.Env)
	assert.False(t, conf.Debug)
	assert.Equal(t, "sqlite", conf.Database.Engine)
	assert.Equal(t, "data/qa.db", conf.Database.Path)
	assert.Equal(t, ":9000", conf.Server.Address)
	assert.Equal(t, 5*time.Minute, conf.Cache.PlanTTL)
	assert.Equal(t, time.Hour, conf.Cache.CourseNamesTTL)
	assert.Equal(t, "redis", conf.Cache.Engine)
}

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, 30*time.Minute, conf.Cache.PlanTTL)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
}
