package slurm

import (
	"context"
	"strings"
	"testing"
	"time"
)

func sacctLine(fields ...string) string {
	return strings.Join(fields, fieldSeparator) + fieldSeparator
}

func TestSacctJobs(t *testing.T) {
	line := sacctLine(
		"300", "post", "FAILED", "carol", "00:05:10", "cpu=2,mem=8G", "debug", "node3",
		"sbatch --time=10 /work/post.sh --all", "None", "normal",
	)
	r := &fakeRunner{lines: map[string][]string{"sacct": {line}}}
	c := NewSacctClient(r, nil, time.Hour)

	jobs, err := c.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.JobID != "300" || j.ArrayID != "300" || j.ArrayStep != nil {
		t.Fatalf("unexpected ids: %+v", j)
	}
	if j.State != "FAILED" || j.StateCompact != "F" {
		t.Fatalf("unexpected state: %+v", j)
	}
	if j.Command != "/work/post.sh --all" {
		t.Fatalf("submit line not normalized: %q", j.Command)
	}
	if j.Stdout != nil || j.Stderr != nil {
		t.Fatalf("history jobs must not carry paths: %+v", j)
	}
}

func TestSacctArrayDerivation(t *testing.T) {
	line := sacctLine(
		"400_12", "sweep", "COMPLETED", "dan", "00:01:00", "cpu=1", "batch", "node4",
		"sbatch sweep.sh", "None", "normal",
	)
	r := &fakeRunner{lines: map[string][]string{"sacct": {line}}}
	c := NewSacctClient(r, nil, time.Hour)

	jobs, err := c.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	j := jobs[0]
	if j.ArrayID != "400" || j.ArrayStep == nil || *j.ArrayStep != "12" {
		t.Fatalf("unexpected array ids: %+v", j)
	}
	if j.StateCompact != "CD" {
		t.Fatalf("unexpected compact state: %q", j.StateCompact)
	}
}

func TestSacctDropsMalformedLines(t *testing.T) {
	r := &fakeRunner{lines: map[string][]string{"sacct": {
		"random noise",
		sacctLine("1", "short"),
		"",
	}}}
	c := NewSacctClient(r, nil, time.Hour)

	jobs, err := c.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %+v", jobs)
	}
}

func TestNormalizeSubmitLine(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"sbatch run.sh", "run.sh"},
		{"sbatch --time=10 -p gpu run.sh arg1", "run.sh arg1"},
		{"sbatch-wrapper run.sh", "run.sh"},
		// Only leading flags are stripped; later ones belong to the script.
		{"sbatch run.sh --verbose", "run.sh --verbose"},
		// Stripping everything falls back to the raw line.
		{"sbatch --wait", "sbatch --wait"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeSubmitLine(c.raw); got != c.want {
			t.Fatalf("normalizeSubmitLine(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestSacctInvocation(t *testing.T) {
	r := &fakeRunner{}
	c := NewSacctClient(r, []string{"--allusers"}, 30*time.Minute)
	if _, err := c.Jobs(context.Background()); err != nil {
		t.Fatalf("Jobs: %v", err)
	}

	args := r.calls["sacct"]
	if len(args) == 0 || args[0] != "--allusers" {
		t.Fatalf("extra args not forwarded first: %v", args)
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"--parsable", "-X", "--starttime now-30minutes", "--endtime now",
		"--state " + finishedStates, "--delimiter " + fieldSeparator,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in argv: %v", want, args)
		}
	}
}
