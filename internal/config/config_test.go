package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("HABITUAL_NO_DOTENV", "1")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("HABITUAL_TEST_LLM_KEY", "sk-test")

	dir := t.TempDir()
	writeFile(t, dir, "llm.yaml", `
api_key: ${HABITUAL_TEST_LLM_KEY}
default_model: sonnet
timeout: 5s
models:
  sonnet:
    model_name: claude-sonnet-4-5
`)
	mainPath := writeFile(t, dir, "habitual.yaml", `
Name: habitual-api
Host: 127.0.0.1
Port: 8888
Env: dev
Store:
  Driver: sqlite
  DSN: data/habitual.db
Chat:
  JournalDir: journal
LLM:
  File: llm.yaml
`)

	cfg, err := Load(mainPath)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.IsTestEnv())
	require.False(t, cfg.HasRedis())
	require.Equal(t, mainPath, cfg.MainPath())
	require.Equal(t, dir, cfg.BaseDir())

	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, 10, cfg.Store.MaxOpen)
	require.True(t, cfg.Store.AutoMigrate)
	require.Equal(t, 20, cfg.Chat.HistoryLimit)
	require.Equal(t, 60, cfg.TTL.Medium)

	require.Equal(t, filepath.Join(dir, "prompts", "agent_system.tmpl"), cfg.PromptPath())
	require.Equal(t, filepath.Join(dir, "journal"), cfg.JournalPath())
	require.Empty(t, cfg.ChatModel())

	require.True(t, cfg.LLM.Loaded())
	require.Equal(t, filepath.Join(dir, "llm.yaml"), cfg.LLM.File)
	require.Equal(t, "sk-test", cfg.LLM.Value.APIKey)
	require.Equal(t, "sonnet", cfg.LLM.Value.DefaultModel)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("HABITUAL_NO_DOTENV", "1")
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	badEnv := writeFile(t, dir, "env.yaml", "Name: x\nHost: 0.0.0.0\nPort: 1\nEnv: staging\n")
	_, err = Load(badEnv)
	require.ErrorContains(t, err, "env must be one of")

	badLLM := writeFile(t, dir, "llm-missing.yaml", "Name: x\nHost: 0.0.0.0\nPort: 1\nLLM:\n  File: nope.yaml\n")
	_, err = Load(badLLM)
	require.ErrorContains(t, err, "load llm config")

	require.Panics(t, func() { MustLoad(badEnv) })
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConf{Driver: "pgx", DSN: "postgres://localhost/habitual", MaxOpen: 5},
			TTL:   CacheTTL{Short: 1, Medium: 2, Long: 3},
			Chat:  ChatConf{HistoryLimit: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty env defaults to test", mutate: func(c *Config) { c.Env = "" }},
		{name: "bad env", mutate: func(c *Config) { c.Env = "qa" }, errMsg: "env must be one of"},
		{name: "bad driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }, errMsg: "store.driver"},
		{name: "empty dsn", mutate: func(c *Config) { c.Store.DSN = " " }, errMsg: "store.dsn is required"},
		{name: "negative pool", mutate: func(c *Config) { c.Store.MaxIdle = -1 }, errMsg: "pool sizes"},
		{name: "negative history", mutate: func(c *Config) { c.Chat.HistoryLimit = -1 }, errMsg: "historyLimit"},
		{name: "zero ttl", mutate: func(c *Config) { c.TTL.Long = 0 }, errMsg: "ttl.long"},
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

func TestChatModel(t *testing.T) {
	cfg := &Config{Env: "test"}
	require.Equal(t, TestEnvModel, cfg.ChatModel())

	cfg.Chat.Model = "opus"
	require.Equal(t, "opus", cfg.ChatModel())

	cfg = &Config{Env: "prod"}
	require.Empty(t, cfg.ChatModel())
	require.Empty(t, cfg.JournalPath())
}
