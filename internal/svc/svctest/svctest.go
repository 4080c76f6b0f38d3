// Package svctest assembles a ServiceContext over throwaway dependencies.
package svctest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"habitual-api/internal/config"
	"habitual-api/internal/store/storetest"
	"habitual-api/internal/svc"
	"habitual-api/internal/transcript"
	"habitual-api/pkg/journal"
	llmpkg "habitual-api/pkg/llm"
	"habitual-api/pkg/prompt"
	"habitual-api/pkg/signal"
)

// Now is the fixed clock of contexts built by New.
var Now = time.Date(2025, 10, 6, 8, 30, 0, 0, time.UTC)

const promptSource = `You are {{ .AgentName }}. {{ default "Be helpful." .Instructions }}
Today is {{ .Today }}.
{{- if .Goals }}
Goals:
{{ bullets .Goals }}
{{- end }}
{{- range .Signals }}
{{ .Keyword }}: {{ .Description }}
{{- end }}`

// New returns a context backed by a temp SQLite store, a temp journal and
// the given LLM client (which may be nil).
func New(t testing.TB, client llmpkg.LLMClient) *svc.ServiceContext {
	t.Helper()

	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "agent_system.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte(promptSource), 0o600))
	tmpl, err := prompt.NewTemplate(tmplPath, nil)
	require.NoError(t, err)

	jw, err := journal.NewWriter(filepath.Join(dir, "journal"))
	require.NoError(t, err)

	return &svc.ServiceContext{
		Config:      config.Config{Env: "test"},
		Store:       storetest.New(t),
		LLM:         client,
		Prompt:      tmpl,
		Parser:      signal.NewParser(nil),
		Validator:   signal.MustNewValidator(signal.DefaultSchemas()),
		Transcripts: transcript.New(nil, 0, 4),
		Journal:     jw,
		Now:         func() time.Time { return Now },
	}
}

// ScriptedLLM replays canned replies in order and records every request.
type ScriptedLLM struct {
	mu       sync.Mutex
	Replies  []string
	Model    string
	Err      error
	Requests []*llmpkg.ChatRequest
}

func (s *ScriptedLLM) Chat(_ context.Context, req *llmpkg.ChatRequest) (*llmpkg.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Replies) == 0 {
		return nil, errors.New("scripted llm: no replies left")
	}
	reply := s.Replies[0]
	s.Replies = s.Replies[1:]
	model := s.Model
	if model == "" {
		model = req.Model
	}
	return &llmpkg.ChatResponse{
		ID:    "scripted",
		Model: model,
		Choices: []llmpkg.Choice{{
			Message:      llmpkg.Message{Role: llmpkg.RoleAssistant, Content: reply},
			FinishReason: "stop",
		}},
		Usage: llmpkg.Usage{PromptTokens: 1000, CompletionTokens: 200, TotalTokens: 1200},
	}, nil
}

func (s *ScriptedLLM) ChatStream(context.Context, *llmpkg.ChatRequest) (<-chan llmpkg.StreamResponse, error) {
	return nil, errors.New("scripted llm: streaming not supported")
}

func (s *ScriptedLLM) GetConfig() *llmpkg.Config { return &llmpkg.Config{DefaultModel: "claude-haiku-4-5"} }

func (s *ScriptedLLM) Close() error { return nil }

// LastRequest returns the most recent request.
func (s *ScriptedLLM) LastRequest() *llmpkg.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return nil
	}
	return s.Requests[len(s.Requests)-1]
}
