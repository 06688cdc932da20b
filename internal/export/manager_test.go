package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, manifest Manifest) {
	t.Helper()

	hookDir := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	manifestPath := filepath.Join(hookDir, "hook.json")
	if err := os.WriteFile(manifestPath, manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:        "test-hook",
		Version:     "1.0.0",
		Description: "A test hook",
		Executable:  "test-hook",
		Events:      []string{EventSessionEnd},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hook := hooks[0]
	if hook.Manifest.Name != "test-hook" {
		t.Errorf("expected hook name 'test-hook', got %q", hook.Manifest.Name)
	}
	if hook.Manifest.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", hook.Manifest.Version)
	}
	if hook.Manifest.Description != "A test hook" {
		t.Errorf("expected description 'A test hook', got %q", hook.Manifest.Description)
	}
	if hook.Path != filepath.Join(tmpDir, "test-hook") {
		t.Errorf("expected path %q, got %q", filepath.Join(tmpDir, "test-hook"), hook.Path)
	}
	if hook.Executable != filepath.Join(hook.Path, "test-hook") {
		t.Errorf("expected executable inside hook dir, got %q", hook.Executable)
	}
}

func TestManager_Discover_MultipleHooks(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, name := range []string{"hook-a", "hook-b"} {
		writeManifest(t, tmpDir, Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name,
			Events:     []string{EventSessionEnd},
		})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 2 {
		t.Fatalf("expected 2 hooks, got %d", len(hooks))
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on empty dir: %v", err)
	}

	if hooks := manager.List(); len(hooks) != 0 {
		t.Fatalf("expected 0 hooks, got %d", len(hooks))
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:       "my-hook",
		Version:    "2.0.0",
		Executable: "my-hook-bin",
		Events:     []string{EventSessionEnd},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hook, err := manager.Get("my-hook")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if hook.Manifest.Name != "my-hook" {
		t.Errorf("expected hook name 'my-hook', got %q", hook.Manifest.Name)
	}
	if hook.Manifest.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", hook.Manifest.Version)
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	manager := NewManager(tmpDir)

	_, err = manager.Get("nonexistent-hook")
	if err != ErrHookNotFound {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestManager_ForEvent(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:       "subscribed",
		Version:    "1.0.0",
		Executable: "subscribed",
		Events:     []string{EventSessionEnd},
	})
	writeManifest(t, tmpDir, Manifest{
		Name:       "other",
		Version:    "1.0.0",
		Executable: "other",
		Events:     []string{"some_other_event"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.ForEvent(EventSessionEnd)
	if len(hooks) != 1 {
		t.Fatalf("expected 1 subscribed hook, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "subscribed" {
		t.Errorf("expected hook 'subscribed', got %q", hooks[0].Manifest.Name)
	}
}

func TestManager_HooksDir(t *testing.T) {
	hooksDir := "/path/to/hooks"
	manager := NewManager(hooksDir)

	if manager.HooksDir() != hooksDir {
		t.Errorf("expected hooks dir %q, got %q", hooksDir, manager.HooksDir())
	}
}

func TestManager_Discover_InvalidJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pixxel-hook-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	hookDir := filepath.Join(tmpDir, "bad-hook")
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	manifestPath := filepath.Join(hookDir, "hook.json")
	if err := os.WriteFile(manifestPath, []byte("not valid json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	manager := NewManager(tmpDir)

	// Discover should skip invalid hooks gracefully
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	if hooks := manager.List(); len(hooks) != 0 {
		t.Fatalf("expected 0 hooks (invalid JSON should be skipped), got %d", len(hooks))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist")

	// Discover should not fail, just return empty list
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}

	if hooks := manager.List(); len(hooks) != 0 {
		t.Fatalf("expected 0 hooks, got %d", len(hooks))
	}
}
