package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	data := []byte(`{"test": "data"}`)
	if err := atomicWrite(testPath, data); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	readData, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(readData) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", string(readData), string(data))
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 1 {
		t.Errorf("temp file was not cleaned up: %d entries", len(entries))
	}

	info, _ := os.Stat(testPath)
	if info.Mode().Perm() != 0644 {
		t.Errorf("permissions incorrect: got %v, want 0644", info.Mode().Perm())
	}
}

func TestAtomicWriteCreatesDir(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "subdir", "config.json")

	if err := atomicWrite(testPath, []byte(`{}`)); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}
	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}

func TestBackupConfig(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	originalData := []byte(`{"original": true}`)
	if err := os.WriteFile(testPath, originalData, 0644); err != nil {
		t.Fatalf("failed to create original config: %v", err)
	}

	if err := backupConfig(testPath); err != nil {
		t.Fatalf("backupConfig failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(bakData) != string(originalData) {
		t.Errorf("backup content mismatch: got %q, want %q", string(bakData), string(originalData))
	}
}

func TestBackupConfigFirstRun(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	if err := backupConfig(testPath); err != nil {
		t.Fatalf("backupConfig failed on first run: %v", err)
	}
	if _, err := os.Stat(testPath + ".bak"); !os.IsNotExist(err) {
		t.Error("backup should not exist on first run")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			testPath := filepath.Join(t.TempDir(), name)

			cfg := NewConfig()
			cfg.Site.Title = "Blogi"
			cfg.Site.BaseURL = "/Blogi"
			cfg.Server.RateLimit = 2.5
			cfg.History.Disabled = true

			if err := Save(cfg, testPath); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := LoadFrom(testPath)
			if err != nil {
				t.Fatalf("LoadFrom failed: %v", err)
			}
			if loaded.Site.Title != "Blogi" || loaded.Site.BaseURL != "/Blogi" {
				t.Errorf("site mismatch: %+v", loaded.Site)
			}
			if loaded.Server.RateLimit != 2.5 || !loaded.History.Disabled {
				t.Errorf("values mismatch: %+v %+v", loaded.Server, loaded.History)
			}
		})
	}
}

func TestSaveWritesTOML(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.toml")

	if err := Save(NewConfig(), testPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := os.ReadFile(testPath)
	if !strings.Contains(string(data), "[server]") {
		t.Errorf("expected TOML tables, got:\n%s", data)
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	first := NewConfig()
	first.Site.Title = "First"
	if err := Save(first, testPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := NewConfig()
	second.Site.Title = "Second"
	if err := Save(second, testPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	bak, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !strings.Contains(string(bak), "First") {
		t.Errorf("backup should hold the previous config, got %s", bak)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Server.Burst = -1

	err := Save(cfg, testPath)
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if _, err := os.Stat(testPath); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestSaveReadOnlyFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	testPath := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(testPath, []byte(`{}`), 0444)
	defer os.Chmod(testPath, 0644)

	err := Save(NewConfig(), testPath)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "chmod u+w") {
		t.Errorf("error should suggest chmod fix, got: %v", err)
	}
}

func TestConcurrentSaves(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Save(NewConfig(), testPath)
		}()
	}
	wg.Wait()

	if _, err := LoadFrom(testPath); err != nil {
		t.Errorf("config corrupted after concurrent saves: %v", err)
	}
}
