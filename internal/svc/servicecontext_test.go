package svc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"habitual-api/internal/config"
)

func TestNewServiceContext(t *testing.T) {
	t.Setenv("HABITUAL_NO_DOTENV", "1")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("HABITUAL_LLM_MODEL", "")
	t.Setenv("HABITUAL_LLM_BASE_URL", "")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prompts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts", "agent_system.tmpl"), []byte("You are {{ .AgentName }}."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm.yaml"), []byte("api_key: sk-test\n"), 0o600))
	mainPath := filepath.Join(dir, "habitual.yaml")
	require.NoError(t, os.WriteFile(mainPath, []byte(`
Name: habitual-api
Host: 127.0.0.1
Port: 8888
Store:
  Driver: sqlite
  DSN: `+filepath.Join(dir, "habitual.db")+`
Chat:
  JournalDir: journal
LLM:
  File: llm.yaml
`), 0o600))

	cfg, err := config.Load(mainPath)
	require.NoError(t, err)

	ctx, err := NewServiceContext(*cfg)
	require.NoError(t, err)
	defer ctx.Close()

	require.NotNil(t, ctx.Store)
	require.Nil(t, ctx.Redis)
	require.NotNil(t, ctx.LLM)
	require.Equal(t, "sk-test", ctx.LLM.GetConfig().APIKey)
	require.NotNil(t, ctx.Journal)
	require.False(t, ctx.Transcripts.Enabled())
	require.NotEmpty(t, ctx.Prompt.Digest())

	doc, err := ctx.Store.Create(context.Background(), "notes", "u1", "", map[string]any{"body": "x"})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
}

func TestNewServiceContextMissingPrompt(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Store: config.StoreConf{Driver: "sqlite", DSN: filepath.Join(dir, "db.sqlite"), AutoMigrate: true},
		Chat:  config.ChatConf{PromptTemplate: filepath.Join(dir, "missing.tmpl")},
	}
	_, err := NewServiceContext(cfg)
	require.ErrorContains(t, err, "read prompt template")
}
