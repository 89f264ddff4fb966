package config_test

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycoach/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:            ":8000",
		DBPath:          "test.db",
		LogLevel:        "INFO",
		LogFormat:       "text",
		Timezone:        "UTC",
		StudyQueueLimit: 10,
		RequestTimeout:  30,
		ChatStore:       config.ChatStoreSQLite,
		RedisAddr:       "localhost:6379",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "empty addr",
			mutate:  func(c *config.Config) { c.Addr = "" },
			wantErr: "ADDR cannot be empty",
		},
		{
			name:    "empty db path",
			mutate:  func(c *config.Config) { c.DBPath = " " },
			wantErr: "DB_PATH cannot be empty",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.LogLevel = "TRACE" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.LogFormat = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *config.Config) { c.Timezone = "Mars/Olympus_Mons" },
			wantErr: "TIMEZONE",
		},
		{
			name:    "queue limit too low",
			mutate:  func(c *config.Config) { c.StudyQueueLimit = 0 },
			wantErr: "STUDY_QUEUE_LIMIT",
		},
		{
			name:    "queue limit too high",
			mutate:  func(c *config.Config) { c.StudyQueueLimit = 101 },
			wantErr: "STUDY_QUEUE_LIMIT",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *config.Config) { c.RequestTimeout = 0 },
			wantErr: "REQUEST_TIMEOUT_SECONDS",
		},
		{
			name:    "unknown chat store",
			mutate:  func(c *config.Config) { c.ChatStore = "memcached" },
			wantErr: "CHAT_STORE",
		},
		{
			name: "redis without address",
			mutate: func(c *config.Config) {
				c.ChatStore = config.ChatStoreRedis
				c.RedisAddr = ""
			},
			wantErr: "REDIS_ADDR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "TIMEZONE", "STUDY_QUEUE_LIMIT", "REQUEST_TIMEOUT_SECONDS", "CHAT_STORE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "file:studycoach.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.StudyQueueLimit)
	assert.Equal(t, config.ChatStoreSQLite, cfg.ChatStore)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeoutDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("STUDY_QUEUE_LIMIT", "25")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("TIMEZONE", "Europe/Lisbon")

	cfg := config.Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 25, cfg.StudyQueueLimit)
	assert.Equal(t, 0, cfg.RedisDB, "invalid ints fall back to the default")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", loc.String())
}

func TestBindFlags_OverridesEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":7000")
	cfg := config.Load()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--addr", ":7100", "--chat-store", "redis"}))

	assert.Equal(t, ":7100", cfg.Addr)
	assert.Equal(t, config.ChatStoreRedis, cfg.ChatStore)
}
