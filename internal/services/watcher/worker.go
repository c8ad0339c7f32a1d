package watcher

import (
	"context"
	"fmt"
	"time"

	"slurmwatch/internal/slurm"
	"slurmwatch/pkg/logx"
)

// cycle runs one poll: query both sources, reconcile against the cache, and
// build the snapshot. On error the cache is left untouched so the next
// cycle can still backfill.
func (s *Service) cycle(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	squeue, sacct := s.clients()

	running, err := squeue.Jobs(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("active jobs: %w", err)
	}
	finished, err := sacct.Jobs(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("finished jobs: %w", err)
	}

	// Running records carry the richer field set; remember them so a job
	// that later only shows up in the history keeps its resolved paths.
	for _, job := range running {
		s.cache.upsert(job)
	}
	for i, job := range finished {
		finished[i] = s.cache.backfill(job)
	}

	// Running first, then finished, both in source order.
	jobs := make([]slurm.Job, 0, len(running)+len(finished))
	jobs = append(jobs, running...)
	jobs = append(jobs, finished...)

	// Anything the scheduler no longer reports at all is dead weight.
	live := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		live[job.JobID] = struct{}{}
	}
	s.cache.prune(live)

	took := time.Since(start)
	s.log.Debug("poll cycle complete",
		logx.Int("running", len(running)),
		logx.Int("finished", len(finished)),
		logx.Int("cached", s.cache.len()),
		logx.Duration("took", took))

	return Snapshot{Jobs: jobs, At: start, Took: took}, nil
}
