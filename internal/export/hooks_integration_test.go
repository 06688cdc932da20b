package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestHook_SessionLog_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	builtPath := findBuiltHook("session-log")
	if builtPath == "" {
		t.Skip("session-log hook not built")
	}

	// Copy the hook into a scratch directory so its log file does not land
	// in the repository.
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-integration")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	hookDir := filepath.Join(tmpDir, "session-log")
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	binary, err := os.ReadFile(builtPath)
	if err != nil {
		t.Fatalf("failed to read built hook: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, "session-log"), binary, 0755); err != nil {
		t.Fatalf("failed to copy hook: %v", err)
	}

	manifest := `{"name":"session-log","version":"1.0.0","executable":"session-log","events":["session_end"]}`
	if err := os.WriteFile(filepath.Join(hookDir, "hook.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	mgr := NewManager(tmpDir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	hook, err := mgr.Get("session-log")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	executor := NewExecutor(5000)
	resp, err := executor.Execute(hook, testEvent())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}

	logData, err := os.ReadFile(filepath.Join(hookDir, "sessions.log"))
	if err != nil {
		t.Fatalf("expected sessions.log in hook directory: %v", err)
	}

	// The hook appends one JSON object per session
	var line struct {
		SessionID string `json:"session_id"`
		Duration  string `json:"duration"`
		Frames    int    `json:"frames"`
		Last      struct {
			EstimatedAge int `json:"estimatedAge"`
		} `json:"last_reading"`
	}
	if err := json.Unmarshal(logData, &line); err != nil {
		t.Fatalf("failed to parse log line %q: %v", logData, err)
	}

	if line.SessionID != "session-1" {
		t.Errorf("session_id = %q, want %q", line.SessionID, "session-1")
	}
	if line.Frames != 120 {
		t.Errorf("frames = %d, want 120", line.Frames)
	}
	if line.Last.EstimatedAge != 34 {
		t.Errorf("last_reading age = %d, want 34", line.Last.EstimatedAge)
	}
	if line.Duration != "1m0s" {
		t.Errorf("duration = %q, want %q", line.Duration, "1m0s")
	}
}

func findBuiltHook(name string) string {
	candidates := []string{
		filepath.Join("../../hooks", name, name),
		filepath.Join("../../../hooks", name, name),
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
