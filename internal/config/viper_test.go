package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.Equal(t, "data", cfg.Data.Directory)
	assert.Equal(t, 5, cfg.Reconcile.WindowDays)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	t.Setenv("EXCEL_MAPPER_LOG_LEVEL", "debug")
	t.Setenv("EXCEL_MAPPER_DATA_DIRECTORY", "/tmp/ledger")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/ledger", cfg.Data.Directory)
}

func TestInitializeConfigAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EXCEL_MAPPER_AI_ENABLED", "true")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.CSV.Delimiter = ","
		cfg.AI.Model = "gemini-1.5-flash"
		cfg.AI.TimeoutSeconds = 30
		cfg.Reconcile.WindowDays = 5
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(cfg *Config) { cfg.Log.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "multi-character delimiter",
			mutate:  func(cfg *Config) { cfg.CSV.Delimiter = ",;" },
			wantErr: "single character",
		},
		{
			name:    "AI enabled without API key",
			mutate:  func(cfg *Config) { cfg.AI.Enabled = true },
			wantErr: "GEMINI_API_KEY required",
		},
		{
			name: "AI timeout out of range",
			mutate: func(cfg *Config) {
				cfg.AI.Enabled = true
				cfg.AI.APIKey = "key"
				cfg.AI.TimeoutSeconds = 0
			},
			wantErr: "timeout_seconds",
		},
		{
			name:    "negative reconcile window",
			mutate:  func(cfg *Config) { cfg.Reconcile.WindowDays = -1 },
			wantErr: "window_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "nope"
	cfg.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestConfigureLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	logger := ConfigureLogging()
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestInitializeGlobalConfigAndAccessors(t *testing.T) {
	require.NoError(t, InitializeGlobalConfig())

	assert.Equal(t, ",", GetCSVDelimiter())
	assert.Equal(t, "data", GetDataDirectory())
	assert.Equal(t, 5, GetReconcileWindowDays())
	assert.False(t, IsAIEnabled())
	assert.Equal(t, "gemini-1.5-flash", GetAIModel())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("EXCEL_MAPPER_TEST_KEY", "value")

	assert.Equal(t, "value", GetEnv("EXCEL_MAPPER_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("EXCEL_MAPPER_UNSET_KEY", "fallback"))
}
