package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteTurn(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "turns")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.Equal(t, dir, w.Dir())

	fixed := time.Date(2025, 10, 15, 8, 30, 0, 0, time.UTC)
	w.nowFn = func() time.Time { return fixed }

	rec := &TurnRecord{
		UserID:      "u1",
		AgentID:     "coach",
		Model:       "claude-sonnet-4-5",
		UserMessage: "plan my week",
		Reply:       "GENERATE_ACTIONS\n---\n{}",
		SignalKind:  "GENERATE_ACTIONS",
		CostUSD:     0.0012,
	}
	path, err := w.WriteTurn(rec)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "turn_20251015_083000_00001.json"), path)
	require.Equal(t, 1, rec.Seq)
	require.Equal(t, fixed, rec.Timestamp)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got TurnRecord
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "coach", got.AgentID)
	require.Equal(t, "GENERATE_ACTIONS", got.SignalKind)

	_, err = w.WriteTurn(nil)
	require.Error(t, err)
}

func TestWriteTurnConcurrent(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := w.WriteTurn(&TurnRecord{ChatID: "c"})
			require.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		seen[p] = true
	}
	require.Len(t, seen, n)

	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	require.Len(t, entries, n)
}
