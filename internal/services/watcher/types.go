package watcher

import (
	"time"

	"github.com/robfig/cron/v3"

	"slurmwatch/internal/config"
	"slurmwatch/internal/slurm"
)

// Snapshot is one published poll result: the full, ordered job list as of At.
// The slice is never mutated after publish.
type Snapshot struct {
	Jobs []slurm.Job
	At   time.Time
	// Took is how long the cycle's queries and merging took.
	Took time.Duration
}

// Config is the watcher's resolved runtime configuration.
type Config struct {
	// Interval between poll cycles. Ignored when Schedule is set.
	Interval time.Duration
	// Schedule triggers cycles on a cron schedule instead of a fixed
	// interval. Optional.
	Schedule cron.Schedule

	SqueueArgs []string
	SacctArgs  []string

	HistoryWindow   time.Duration
	NoValueSentinel string
}

// ConfigFrom resolves the file config into a runtime Config.
func ConfigFrom(c *config.Config) (Config, error) {
	cfg := Config{
		Interval:        c.PollInterval(),
		SqueueArgs:      c.Slurm.SqueueArgs,
		SacctArgs:       c.Slurm.SacctArgs,
		HistoryWindow:   c.HistoryWindow(),
		NoValueSentinel: c.Slurm.NoValueSentinel,
	}
	if s := c.Poll.Schedule; s != "" {
		sched, err := config.ParseSchedule(s)
		if err != nil {
			return Config{}, err
		}
		cfg.Schedule = sched
	}
	return cfg, nil
}
