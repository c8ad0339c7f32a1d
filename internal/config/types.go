package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config is the on-disk configuration (YAML or JSON).
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Poll    PollConfig    `json:"poll"`
	Slurm   SlurmConfig   `json:"slurm"`
	Pprof   PprofConfig   `json:"pprof,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level,omitempty"`
	// Console may be left false together with a disabled file sink; logx
	// falls back to console output in that case rather than logging nowhere.
	Console bool       `json:"console"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// PollConfig controls when poll cycles run.
//
// Interval and Schedule are mutually exclusive; Schedule (a cron expression,
// 5-field or 6-field with seconds, or a descriptor like "@every 30s") wins
// when both are set. With neither set the watcher polls every 2s.
type PollConfig struct {
	Interval string `json:"interval,omitempty"`
	Schedule string `json:"schedule,omitempty"`
}

// SlurmConfig controls the two scheduler queries.
type SlurmConfig struct {
	// SqueueArgs/SacctArgs are forwarded verbatim before the fixed flags,
	// e.g. ["--me"] or ["--partition", "gpu"].
	SqueueArgs []string `json:"squeue_args,omitempty"`
	SacctArgs  []string `json:"sacct_args,omitempty"`

	// HistoryWindow bounds how far back the finished-jobs query looks.
	// Default "1h".
	HistoryWindow string `json:"history_window,omitempty"`

	// NoValueSentinel overrides the numeric stand-in Slurm uses for an
	// unset array task id in filename patterns. Deployment-specific;
	// leave empty for the stock value.
	NoValueSentinel string `json:"no_value_sentinel,omitempty"`
}

// PprofConfig controls the optional profiling endpoint (loopback only).
type PprofConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Addr    string `json:"addr,omitempty"`
}

const (
	DefaultInterval      = 2 * time.Second
	DefaultHistoryWindow = time.Hour
)

// cronParser accepts both 5-field and 6-field (with seconds) specs plus
// descriptors, matching what Validate and the watcher use.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates and compiles a poll.schedule expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return cronParser.Parse(strings.TrimSpace(expr))
}

// Validate checks cross-field constraints without mutating cfg.
func (c *Config) Validate() error {
	if _, err := ParseDurationField("poll.interval", c.Poll.Interval); err != nil {
		return err
	}
	if s := strings.TrimSpace(c.Poll.Schedule); s != "" {
		if _, err := ParseSchedule(s); err != nil {
			return fmt.Errorf("poll.schedule: invalid cron expression %q: %w", s, err)
		}
	}
	if _, err := ParseDurationField("slurm.history_window", c.Slurm.HistoryWindow); err != nil {
		return err
	}
	if s := c.Slurm.NoValueSentinel; s != "" {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("slurm.no_value_sentinel: must be numeric, got %q", s)
			}
		}
	}
	return nil
}

// PollInterval resolves poll.interval with its default.
func (c *Config) PollInterval() time.Duration {
	d, err := ParseDurationOrDefault("poll.interval", c.Poll.Interval, DefaultInterval)
	if err != nil {
		return DefaultInterval
	}
	return d
}

// HistoryWindow resolves slurm.history_window with its default.
func (c *Config) HistoryWindow() time.Duration {
	d, err := ParseDurationOrDefault("slurm.history_window", c.Slurm.HistoryWindow, DefaultHistoryWindow)
	if err != nil {
		return DefaultHistoryWindow
	}
	return d
}
