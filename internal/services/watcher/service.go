package watcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"slurmwatch/internal/slurm"
	"slurmwatch/pkg/logx"
)

// maxBackoff caps the failure backoff between cycles.
const maxBackoff = time.Minute

type Service struct {
	log logx.Logger
	out chan<- Snapshot

	runner slurm.Runner

	// mu guards cfg and the derived query clients, which Apply() swaps at
	// runtime. The cache deliberately lives outside: only Run touches it.
	mu       sync.Mutex
	cfg      Config
	squeue   *slurm.SqueueClient
	sacct    *slurm.SacctClient
	resolver *slurm.PathResolver

	cache *jobCache

	// errLimit bounds error-level logging when every cycle fails, so a
	// broken scheduler binary cannot flood the log.
	errLimit *rate.Limiter
	failures int
}

// New creates the watcher. Snapshots are sent on out; the channel is never
// closed by the watcher. Pass slurm.ExecRunner{} outside of tests.
func New(cfg Config, runner slurm.Runner, out chan<- Snapshot, log logx.Logger) *Service {
	s := &Service{
		log:      log,
		out:      out,
		runner:   runner,
		cache:    newJobCache(),
		errLimit: rate.NewLimiter(rate.Every(30*time.Second), 3),
	}
	s.Apply(cfg)
	return s
}

// Apply swaps the runtime config (poll trigger, query args, window,
// sentinel). Safe to call while Run is active; the next cycle picks it up.
func (s *Service) Apply(cfg Config) {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	resolver := slurm.NewPathResolver(slurm.PathResolverConfig{NoValueSentinel: cfg.NoValueSentinel})

	s.mu.Lock()
	s.cfg = cfg
	s.resolver = resolver
	s.squeue = slurm.NewSqueueClient(s.runner, resolver, cfg.SqueueArgs)
	s.sacct = slurm.NewSacctClient(s.runner, cfg.SacctArgs, cfg.HistoryWindow)
	s.mu.Unlock()
}

func (s *Service) clients() (*slurm.SqueueClient, *slurm.SacctClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.squeue, s.sacct
}

func (s *Service) config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Run polls until ctx is done. It never returns a non-ctx error: query
// failures only spoil their own cycle.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("watcher started",
		logx.Duration("interval", s.config().Interval),
		logx.Bool("cron", s.config().Schedule != nil))

	for {
		snap, err := s.cycle(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			s.failures++
			if s.errLimit.Allow() {
				s.log.Error("poll cycle failed", logx.Err(err), logx.Int("consecutive", s.failures))
			} else {
				s.log.Debug("poll cycle failed", logx.Err(err), logx.Int("consecutive", s.failures))
			}
			if !s.sleep(ctx, s.backoff()) {
				return nil
			}
			continue
		}

		if s.failures > 0 {
			s.log.Info("poll cycle recovered", logx.Int("after_failures", s.failures))
			s.failures = 0
		}

		select {
		case s.out <- snap:
		case <-ctx.Done():
			return nil
		}

		if !s.sleep(ctx, s.next()) {
			return nil
		}
	}
}

// next returns the delay until the next regular cycle.
func (s *Service) next() time.Duration {
	cfg := s.config()
	if cfg.Schedule != nil {
		d := time.Until(cfg.Schedule.Next(time.Now()))
		if d < 0 {
			d = 0
		}
		return d
	}
	return cfg.Interval
}

// backoff returns the delay after a failed cycle: the poll interval doubled
// per consecutive failure, capped at maxBackoff.
func (s *Service) backoff() time.Duration {
	d := s.config().Interval
	if d <= 0 {
		d = time.Second
	}
	for i := 1; i < s.failures && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func (s *Service) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
