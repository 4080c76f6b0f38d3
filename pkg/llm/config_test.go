package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envAPIKey, envBaseURL, envDefaultModel, envTimeout, envMaxRetries} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearLLMEnv(t)

	t.Run("load from valid file", func(t *testing.T) {
		content := `
base_url: "https://api.anthropic.com/v1/"
api_key: "test-api-key"
default_model: "sonnet"
timeout: "30s"
max_retries: 3
max_tokens: 2048
log_level: "info"

models:
  sonnet:
    model_name: "claude-sonnet-4-5"
    temperature: 0.7
`
		configPath := filepath.Join(t.TempDir(), "llm.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

		cfg, err := LoadConfig(configPath)
		require.NoError(t, err)
		require.Equal(t, "https://api.anthropic.com/v1/", cfg.BaseURL)
		require.Equal(t, "test-api-key", cfg.APIKey)
		require.Equal(t, "sonnet", cfg.DefaultModel)
		require.Equal(t, 30*time.Second, cfg.Timeout)
		require.Equal(t, 3, cfg.MaxRetries)
		require.Equal(t, 2048, cfg.MaxTokens)
		require.Equal(t, "info", cfg.LogLevel)

		model, ok := cfg.Model("sonnet")
		require.True(t, ok)
		require.Equal(t, "claude-sonnet-4-5", model.ModelName)
		require.InDelta(t, 0.7, *model.Temperature, 1e-9)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/llm.yaml")
		require.ErrorContains(t, err, "open llm config")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		content := `
base_url: "https://api.anthropic.com/v1/"
api_key: test-api-key
  invalid: yaml: structure
`
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

		_, err := LoadConfig(configPath)
		require.ErrorContains(t, err, "unmarshal llm config")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := LoadConfigFromReader(strings.NewReader(`default_model: sonnet`))
		require.ErrorContains(t, err, "api_key is required")
	})
}

func TestLoadConfigFromReaderEnvOverrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv(envAPIKey, "override-key")
	t.Setenv(envTimeout, "45s")
	t.Setenv(envMaxRetries, "5")
	t.Setenv(envDefaultModel, "haiku")

	data := `
api_key: "from-file"
default_model: "sonnet"
timeout: "30s"
max_retries: 2
`
	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "override-key", cfg.APIKey)
	require.Equal(t, "haiku", cfg.DefaultModel)
	require.Equal(t, 45*time.Second, cfg.Timeout)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, defaultBaseURL, cfg.BaseURL)
}

func TestLoadConfigFromReaderWithEnvExpansion(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("HABITUAL_TEST_KEY", "expanded-key")
	t.Setenv("HABITUAL_TEST_TIMEOUT", "12s")

	data := `
api_key: "${HABITUAL_TEST_KEY}"
timeout: "${HABITUAL_TEST_TIMEOUT}"
`
	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "expanded-key", cfg.APIKey)
	require.Equal(t, 12*time.Second, cfg.Timeout)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:      defaultBaseURL,
			APIKey:       "test-key",
			DefaultModel: "sonnet",
			Timeout:      30 * time.Second,
			MaxRetries:   3,
			MaxTokens:    1024,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.APIKey = "  " }, errMsg: "api_key is required"},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, errMsg: "base_url is required"},
		{name: "missing default model", mutate: func(c *Config) { c.DefaultModel = "" }, errMsg: "default_model is required"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, errMsg: "timeout must be positive"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, errMsg: "max_retries cannot be negative"},
		{name: "negative max tokens", mutate: func(c *Config) { c.MaxTokens = -5 }, errMsg: "max_tokens cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	require.Equal(t, defaultBaseURL, cfg.BaseURL)
	require.Equal(t, defaultModel, cfg.DefaultModel)
	require.Equal(t, defaultLogLevel, cfg.LogLevel)
	require.Equal(t, defaultMaxRetries, cfg.MaxRetries)
	require.Equal(t, defaultMaxTokens, cfg.MaxTokens)
}

func TestConfigParseTimeout(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty uses default", raw: "", want: defaultTimeout},
		{name: "seconds", raw: "30s", want: 30 * time.Second},
		{name: "minutes", raw: "2m", want: 2 * time.Minute},
		{name: "invalid", raw: "soon", wantErr: true},
		{name: "negative", raw: "-5s", wantErr: true},
		{name: "zero", raw: "0s", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{timeoutRaw: tt.raw}
			err := cfg.parseTimeout()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, cfg.Timeout)
		})
	}
}

func TestConfigModel(t *testing.T) {
	cfg := &Config{Models: map[string]ModelConfig{"haiku": {ModelName: "claude-haiku-4-5"}}}

	model, ok := cfg.Model("haiku")
	require.True(t, ok)
	require.Equal(t, "claude-haiku-4-5", model.ModelName)

	_, ok = cfg.Model("opus")
	require.False(t, ok)

	_, ok = (&Config{}).Model("haiku")
	require.False(t, ok)
}

func TestConfigClone(t *testing.T) {
	temp := 0.3
	cfg := &Config{
		APIKey:  "k",
		Timeout: time.Second,
		Models:  map[string]ModelConfig{"sonnet": {ModelName: "claude-sonnet-4-5", Temperature: &temp}},
	}
	cp := cfg.Clone()
	require.Equal(t, cfg.APIKey, cp.APIKey)
	require.Equal(t, cfg.Models, cp.Models)

	cp.Models["sonnet"] = ModelConfig{ModelName: "changed"}
	cp.APIKey = "other"
	require.Equal(t, "claude-sonnet-4-5", cfg.Models["sonnet"].ModelName)
	require.Equal(t, "k", cfg.APIKey)

	var nilCfg *Config
	require.Nil(t, nilCfg.Clone())
}
