package watcher

import "slurmwatch/internal/slurm"

// jobCache remembers the last fully-known record per job id, as produced by
// the squeue path (the richer field set). It is owned by the Run goroutine
// and never shared, so no locking.
type jobCache struct {
	jobs map[string]slurm.Job
}

func newJobCache() *jobCache {
	return &jobCache{jobs: make(map[string]slurm.Job)}
}

// upsert overwrites or inserts the entry for job.JobID.
func (c *jobCache) upsert(job slurm.Job) {
	c.jobs[job.JobID] = job
}

// backfill copies the resolved stdout/stderr paths from the cached entry
// with a matching id onto a finished-job record. A cache miss is not an
// error; the record is returned unchanged.
func (c *jobCache) backfill(job slurm.Job) slurm.Job {
	if cached, ok := c.jobs[job.JobID]; ok {
		job.Stdout = cached.Stdout
		job.Stderr = cached.Stderr
	}
	return job
}

// prune deletes every cached id not present in live.
func (c *jobCache) prune(live map[string]struct{}) {
	for id := range c.jobs {
		if _, ok := live[id]; !ok {
			delete(c.jobs, id)
		}
	}
}

func (c *jobCache) len() int { return len(c.jobs) }
