package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

// lockedBuffer is a bytes.Buffer safe for the scanner goroutine and the
// command to write to concurrently.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeGemini serves generateContent replies. Each call pops the next
// status from statuses; once they run out every call succeeds.
type fakeGemini struct {
	*httptest.Server
	calls atomic.Int32
}

// newFakeGemini starts a server answering for content. Lookalike digits
// in content get a high weight and a label.
func newFakeGemini(t *testing.T, content string, statuses ...int) *fakeGemini {
	t.Helper()

	result := map[string]any{
		"isPhishing":  true,
		"probability": 0.93,
		"reasoning":   "Urgent tone and a lookalike domain.",
		"heatmap":     heatmapFor(content),
		"summary": map[string]any{
			"criticalFindings":    []string{"Urgency", "Lookalike domain"},
			"adversarialDetected": true,
		},
	}
	text, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	body, err := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"parts": []any{map[string]any{"text": string(text)}}},
			"finishReason": "STOP",
		}},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	f := &fakeGemini{}
	var mu sync.Mutex
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.calls.Add(1)

		mu.Lock()
		status := http.StatusOK
		if len(statuses) > 0 {
			status, statuses = statuses[0], statuses[1:]
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal detail that must not leak"}}`))
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(f.Close)
	return f
}

func heatmapFor(content string) []map[string]any {
	cells := make([]map[string]any, 0, utf8.RuneCountInString(content))
	for _, r := range content {
		cell := map[string]any{"char": string(r), "weight": 0.05}
		if r >= '0' && r <= '9' {
			cell["weight"] = 0.85
			cell["label"] = "lookalike character"
		}
		cells = append(cells, cell)
	}
	return cells
}

// writeTestConfig writes a configuration file pointing at endpoint with
// the history database in dbDir.
func writeTestConfig(t *testing.T, endpoint, dbDir string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("apiKey: test-key\nendpoint: %s\ndbDir: %s\ntimeout: 5s\n", endpoint, dbDir)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runRoot executes the root command with args and returns stdout and stderr.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout bytes.Buffer
	stderr := &lockedBuffer{}

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(""))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
