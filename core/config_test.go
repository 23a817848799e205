package kamin

import (
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kamin.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Prompt != "> " || cfg.SockPath != "/tmp/kamin.sock" || cfg.MaxTraces != 1000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "prompt: \"kamin> \"\nsocket: /run/kamin.sock\nhistory_db: /var/lib/kamin.db\nmax_traces: 50\n")
	cfg, err := LoadConfig(path, envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "kamin> " || cfg.SockPath != "/run/kamin.sock" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.HistoryDB != "/var/lib/kamin.db" || cfg.MaxTraces != 50 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LineHistory != "" {
		t.Fatalf("unset key should keep default, got %q", cfg.LineHistory)
	}
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeConfig(t, "promt: oops\n")
	if _, err := LoadConfig(path, envMap(nil)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""), envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "socket: /run/kamin.sock\nmax_traces: 50\n")
	cfg, err := LoadConfig(path, envMap(map[string]string{
		"KAMIN_SOCK":         "/tmp/other.sock",
		"KAMIN_MAX_TRACES":   "7",
		"KAMIN_LINE_HISTORY": "/home/u/.kamin_history",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SockPath != "/tmp/other.sock" || cfg.MaxTraces != 7 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.LineHistory != "/home/u/.kamin_history" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadConfigBadMaxTraces(t *testing.T) {
	_, err := LoadConfig("", envMap(map[string]string{"KAMIN_MAX_TRACES": "lots"}))
	if err == nil {
		t.Fatal("expected error for non-numeric KAMIN_MAX_TRACES")
	}
}
