package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TurnRecord captures one agent chat turn for audit and prompt tuning.
type TurnRecord struct {
	Timestamp    time.Time      `json:"timestamp"`
	Seq          int            `json:"seq"`
	UserID       string         `json:"user_id"`
	AgentID      string         `json:"agent_id"`
	ChatID       string         `json:"chat_id"`
	Model        string         `json:"model"`
	PromptDigest string         `json:"prompt_digest,omitempty"`
	UserMessage  string         `json:"user_message"`
	Reply        string         `json:"reply"`
	SignalKind   string         `json:"signal_kind,omitempty"`
	SignalStatus string         `json:"signal_status,omitempty"`
	SignalError  string         `json:"signal_error,omitempty"`
	SignalRaw    string         `json:"signal_raw,omitempty"`
	CreatedIDs   []string       `json:"created_ids,omitempty"`
	InputTokens  int            `json:"input_tokens"`
	OutputTokens int            `json:"output_tokens"`
	CostUSD      float64        `json:"cost_usd"`
	DurationMS   int64          `json:"duration_ms"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Writer persists turn records to a directory as JSON files.
type Writer struct {
	dir   string
	nowFn func() time.Time

	mu  sync.Mutex
	seq int
}

// NewWriter constructs a journal writer, creating dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "journal"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir %q: %w", dir, err)
	}
	return &Writer{dir: dir, nowFn: time.Now}, nil
}

// Dir returns the directory records are written to.
func (w *Writer) Dir() string { return w.dir }

// WriteTurn writes rec to a timestamped JSON file and returns its path.
func (w *Writer) WriteTurn(rec *TurnRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("journal: nil record")
	}

	w.mu.Lock()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = w.nowFn()
	}
	w.seq++
	rec.Seq = w.seq
	w.mu.Unlock()

	name := fmt.Sprintf("turn_%s_%05d.json", rec.Timestamp.UTC().Format("20060102_150405"), rec.Seq)
	path := filepath.Join(w.dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
