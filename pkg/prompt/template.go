package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

// AgentContext is the data exposed to agent system prompt templates.
type AgentContext struct {
	AgentName    string
	Instructions string
	UserID       string
	Goals        []string
	Signals      []SignalHint
	Today        string
}

// SignalHint documents one structured reply the agent may emit.
type SignalHint struct {
	Keyword     string
	Description string
}

// Template wraps a text/template loaded from disk with optional function map.
type Template struct {
	path  string
	funcs template.FuncMap

	mu   sync.RWMutex
	tmpl *template.Template
	hash string
}

// DefaultFuncs are available to every template built by NewTemplate.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"upper": strings.ToUpper,
		"trim":  strings.TrimSpace,
		"bullets": func(items []string) string {
			if len(items) == 0 {
				return ""
			}
			return "- " + strings.Join(items, "\n- ")
		},
		"default": func(fallback, v string) string {
			if strings.TrimSpace(v) == "" {
				return fallback
			}
			return v
		},
	}
}

// NewTemplate parses the template at path. funcs extend DefaultFuncs.
func NewTemplate(path string, funcs template.FuncMap) (*Template, error) {
	if path == "" {
		return nil, fmt.Errorf("prompt template path is empty")
	}
	merged := DefaultFuncs()
	for k, v := range funcs {
		merged[k] = v
	}
	t := &Template{
		path:  path,
		funcs: merged,
	}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Render executes the template with the provided data.
func (t *Template) Render(data any) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.tmpl == nil {
		return "", fmt.Errorf("prompt template %q not parsed", t.path)
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %q: %w", t.path, err)
	}
	return buf.String(), nil
}

// RenderAgent renders an agent system prompt and returns it with its digest.
func (t *Template) RenderAgent(ctx AgentContext) (string, string, error) {
	out, err := t.Render(ctx)
	if err != nil {
		return "", "", err
	}
	out = strings.TrimSpace(out)
	return out, Digest(out), nil
}

// Reload reparses the underlying template from disk.
func (t *Template) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reload()
}

func (t *Template) reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("read prompt template %q: %w", t.path, err)
	}

	name := filepath.Base(t.path)
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(t.funcs).Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse prompt template %q: %w", t.path, err)
	}
	t.tmpl = tmpl
	t.hash = computeDigest(data)
	return nil
}

// Digest returns the sha256 of the template source.
func (t *Template) Digest() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hash
}

// Path returns the file the template was loaded from.
func (t *Template) Path() string {
	return t.path
}
