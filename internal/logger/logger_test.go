package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "view.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	// ~250 bytes per entry, so 8000 entries comfortably exceed the 1MB cap.
	padding := strings.Repeat("x", 200)
	for i := 0; i < 8000; i++ {
		Sugar.Infof("entry %d %s", i, padding)
	}
	Sync()

	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("active log file missing: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading log dir: %v", err)
	}
	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "view.log" {
			continue
		}
		if strings.HasPrefix(name, "view-") && strings.HasSuffix(name, ".log") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("expected at least one rotated file, dir holds %d entries", len(entries))
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantLines int
	}{
		{"error", 1},
		{"warn", 2},
		{"info", 3},
		{"debug", 4},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "view.log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("init: %v", err)
			}

			Debug("d")
			Info("i")
			Warn("w")
			Error("e")
			Sync()

			data, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("reading log file: %v", err)
			}
			content := string(data)

			got := strings.Count(content, "\n")
			if got != tt.wantLines {
				t.Errorf("expected %d entries at level %s, got %d", tt.wantLines, tt.level, got)
			}
			if tt.level != "debug" && strings.Contains(content, "DEBUG") {
				t.Errorf("DEBUG entry leaked through level %s", tt.level)
			}
			if !strings.Contains(content, "ERROR") {
				t.Error("ERROR entry missing, should pass every level")
			}
		})
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "view.log")
	cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
	if err := InitWithFileConfig("verbose", cfg, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	Debug("d")
	Info("i")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "DEBUG") {
		t.Error("unknown level should fall back to info, got debug output")
	}
	if !strings.Contains(string(data), "INFO") {
		t.Error("expected info output under fallback level")
	}
}

func TestInitNop(t *testing.T) {
	InitNop()

	if Log == nil || Sugar == nil {
		t.Fatal("InitNop should install logger globals")
	}

	// Must not panic or write anywhere.
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
}

func TestDefaultFileConfig(t *testing.T) {
	got := DefaultFileConfig("/tmp/view.log")
	want := FileConfig{
		Path:       "/tmp/view.log",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
