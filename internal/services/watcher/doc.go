// Package watcher polls Slurm for the current scheduler state and publishes
// merged job snapshots to a single consumer.
//
// # Overview
//
// Each poll cycle queries squeue (active jobs) and sacct (recently finished
// jobs), normalizes both into the canonical slurm.Job record, reconciles the
// two sources, and publishes one ordered Snapshot over the output channel:
// running jobs first, finished jobs after, source order preserved.
//
// sacct cannot report the stdout/stderr path templates, so the watcher keeps
// a cache of the last fully-known record per job id, fed from the squeue
// side. When a job leaves the running set and shows up in the history query,
// its paths are backfilled from that cache. Cache entries whose job id
// appears in neither source during a cycle are pruned, which bounds the
// cache by what the scheduler still reports.
//
// # Ownership and failure
//
// The cache is owned exclusively by the Run goroutine; the only
// synchronization point with the rest of the program is the snapshot
// channel. A failing query (scheduler down, binary missing) spoils only the
// current cycle: the error is logged (rate limited), nothing is published,
// the cache is preserved, and the next cycle retries after a bounded
// backoff.
package watcher
