package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
logging:
  level: debug
  console: true
poll:
  interval: 5s
slurm:
  squeue_args: ["--me"]
  sacct_args: ["--allusers"]
  history_window: 30m
`)
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if got := cfg.PollInterval(); got != 5*time.Second {
		t.Fatalf("PollInterval = %v", got)
	}
	if got := cfg.HistoryWindow(); got != 30*time.Minute {
		t.Fatalf("HistoryWindow = %v", got)
	}
	if len(cfg.Slurm.SqueueArgs) != 1 || cfg.Slurm.SqueueArgs[0] != "--me" {
		t.Fatalf("squeue args: %v", cfg.Slurm.SqueueArgs)
	}
	if m.Get() != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
poll:
  interval: 5s
  typo_field: true
`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
poll:
  interval: five seconds
`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected duration error")
	}
}

func TestLoadRejectsBadSchedule(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
poll:
  schedule: "not a cron expression"
`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected schedule error")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	if got := cfg.PollInterval(); got != DefaultInterval {
		t.Fatalf("default interval = %v", got)
	}
	if got := cfg.HistoryWindow(); got != DefaultHistoryWindow {
		t.Fatalf("default window = %v", got)
	}
}

func TestParseSchedule(t *testing.T) {
	for _, expr := range []string{"*/5 * * * *", "30 */1 * * * *", "@every 10s"} {
		if _, err := ParseSchedule(expr); err != nil {
			t.Fatalf("ParseSchedule(%q): %v", expr, err)
		}
	}
}

func TestValidateSentinel(t *testing.T) {
	cfg := Config{Slurm: SlurmConfig{NoValueSentinel: "123"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("numeric sentinel rejected: %v", err)
	}
	cfg.Slurm.NoValueSentinel = "12x"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected sentinel validation error")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"poll": {"interval": "1s"}, "logging": {"console": true}, "slurm": {}}`)
	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.PollInterval(); got != time.Second {
		t.Fatalf("PollInterval = %v", got)
	}
}
