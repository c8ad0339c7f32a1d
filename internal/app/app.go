// Package app wires configuration, logging, the supervisor and the watcher
// into a running process.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"

	"slurmwatch/internal/config"
	"slurmwatch/internal/observability/pprof"
	"slurmwatch/internal/runtime/supervisor"
	"slurmwatch/internal/services/watcher"
	"slurmwatch/internal/slurm"
	"slurmwatch/pkg/logx"
)

// Run blocks until ctx is done or startup fails. cfgPath may be empty or
// point to a missing file, in which case defaults apply and hot reload is
// disabled.
func Run(ctx context.Context, cfgPath string) error {
	cfgm, fileCfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	logs, log := logx.New(logx.Config{
		Level:   fileCfg.Logging.Level,
		Console: fileCfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: fileCfg.Logging.File.Enabled,
			Path:    fileCfg.Logging.File.Path,
		},
	})
	defer logs.Close()

	if cfgm != nil {
		cfgm.SetLogger(log.With(logx.String("comp", "config")))
	}

	watchCfg, err := watcher.ConfigFrom(fileCfg)
	if err != nil {
		return err
	}

	sup := supervisor.New(ctx,
		supervisor.WithLogger(log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true))

	snapshots := make(chan watcher.Snapshot, 1)
	watch := watcher.New(watchCfg, slurm.ExecRunner{}, snapshots,
		log.With(logx.String("comp", "watcher")))

	sup.Go("watcher", watch.Run)
	sup.Go("consumer", func(ctx context.Context) error {
		return consume(ctx, snapshots, os.Stdout)
	})

	if fileCfg.Pprof.Enabled {
		prof := pprof.New(pprof.Config{Enabled: true, Addr: fileCfg.Pprof.Addr},
			log.With(logx.String("comp", "pprof")))
		sup.Go("pprof", prof.Run)
	}

	if cfgm != nil {
		sup.Go("config-watch", cfgm.Watch)
		updates := cfgm.Subscribe(1)
		defer cfgm.Unsubscribe(updates)
		sup.Go("config-apply", func(ctx context.Context) error {
			applyUpdates(ctx, updates, logs, watch, log)
			return nil
		})
	}

	// Tell systemd we are up; harmless no-op outside a unit.
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warn("sd_notify failed", logx.Err(err))
	} else if ok {
		log.Debug("sd_notify: ready")
	}

	<-sup.Context().Done()
	stopErr := sup.Stop(context.Background())
	if err := sup.Err(); err != nil {
		return err
	}
	return stopErr
}

func loadConfig(path string) (*config.Manager, *config.Config, error) {
	if path == "" {
		return nil, &config.Config{}, nil
	}
	cfgm := config.NewManager(path)
	cfg, err := cfgm.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &config.Config{}, nil
		}
		return nil, nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfgm, cfg, nil
}

// applyUpdates pushes hot-reloaded config into the logging service and the
// watcher. Invalid watcher settings are rejected here; the manager has
// already validated field syntax.
func applyUpdates(ctx context.Context, updates <-chan *config.Config, logs *logx.Service, watch *watcher.Service, log logx.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			logs.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File: logx.FileConfig{
					Enabled: cfg.Logging.File.Enabled,
					Path:    cfg.Logging.File.Path,
				},
			})
			wcfg, err := watcher.ConfigFrom(cfg)
			if err != nil {
				log.Warn("config update rejected", logx.Err(err))
				continue
			}
			watch.Apply(wcfg)
			log.Info("config applied", logx.Duration("interval", wcfg.Interval))
		}
	}
}
