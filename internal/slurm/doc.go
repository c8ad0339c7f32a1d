// Package slurm talks to a Slurm installation through its query CLIs.
//
// It owns the squeue/sacct invocations, the line format both commands are
// asked to emit, and the normalization of their output into the canonical
// Job record. Everything here is synchronous and stateless; polling and
// caching live in internal/services/watcher.
//
// Output from both commands is delimited text and can be truncated or
// garbled mid-line (scheduler restarts, argv limits). Parsers therefore
// validate the field count per line and drop anything that does not match,
// rather than failing the whole batch.
package slurm
