package watcher

import (
	"testing"

	"slurmwatch/internal/slurm"
)

func strPtr(s string) *string { return &s }

func TestCacheBackfill(t *testing.T) {
	c := newJobCache()
	c.upsert(slurm.Job{JobID: "10", Stdout: strPtr("/a/out"), Stderr: strPtr("/a/err")})

	got := c.backfill(slurm.Job{JobID: "10", State: "COMPLETED"})
	if got.Stdout == nil || *got.Stdout != "/a/out" {
		t.Fatalf("stdout not backfilled: %v", got.Stdout)
	}
	if got.Stderr == nil || *got.Stderr != "/a/err" {
		t.Fatalf("stderr not backfilled: %v", got.Stderr)
	}

	// Miss leaves the record unchanged.
	miss := c.backfill(slurm.Job{JobID: "11"})
	if miss.Stdout != nil || miss.Stderr != nil {
		t.Fatalf("cache miss must not invent paths: %+v", miss)
	}
}

func TestCacheUpsertOverwrites(t *testing.T) {
	c := newJobCache()
	c.upsert(slurm.Job{JobID: "10", Stdout: strPtr("/old")})
	c.upsert(slurm.Job{JobID: "10", Stdout: strPtr("/new")})

	got := c.backfill(slurm.Job{JobID: "10"})
	if got.Stdout == nil || *got.Stdout != "/new" {
		t.Fatalf("expected latest record to win, got %v", got.Stdout)
	}
}

func TestCachePrune(t *testing.T) {
	c := newJobCache()
	c.upsert(slurm.Job{JobID: "1"})
	c.upsert(slurm.Job{JobID: "2"})
	c.upsert(slurm.Job{JobID: "3"})

	c.prune(map[string]struct{}{"2": {}})
	if c.len() != 1 {
		t.Fatalf("expected 1 entry after prune, got %d", c.len())
	}
	if got := c.backfill(slurm.Job{JobID: "1", Stdout: nil}); got.Stdout != nil {
		t.Fatalf("pruned entry still served")
	}
}
