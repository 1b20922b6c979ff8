package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "elevatecrm-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "elevatecrm", cfg.Database.DBName)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 10, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, "realtime:tenant:", cfg.Realtime.ChannelPrefix)
	assert.Equal(t, 30*time.Second, cfg.Realtime.PingInterval)
	assert.Equal(t, 30, cfg.Analytics.ForecastHorizon)
	assert.Equal(t, 1.96, cfg.Analytics.ServiceLevelZ)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.SnapshotInterval)
	assert.Equal(t, time.Hour, cfg.Export.PresignTTL)
	assert.Equal(t, cfg.App.Name, cfg.Telemetry.ServiceName)

	// Secure defaults: no CORS origins until explicitly configured
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, valid().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 10
		assert.Error(t, cfg.validate())
	})

	t.Run("pong timeout must exceed ping interval", func(t *testing.T) {
		cfg := valid()
		cfg.Realtime.PingInterval = time.Minute
		cfg.Realtime.PongTimeout = 30 * time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("sampling ratio range", func(t *testing.T) {
		cfg := valid()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})

	t.Run("production requirements", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true
		assert.NoError(t, cfg.validate())

		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())

		cfg.HTTP.CORSAllowOrigins = []string{"https://app.example.com"}
		cfg.Telemetry.DBLogFullSQL = true
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "crm",
		Password: "p@ss/word",
		DBName:   "elevatecrm",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := &RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
