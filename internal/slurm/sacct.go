package slurm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// sacctFields is the --format list, in the positional order the parser
// consumes them. sacct carries fewer columns than squeue; most notably the
// stdout/stderr templates are missing, so those stay nil here and are
// backfilled from the watcher cache.
var sacctFields = []string{
	"jobid",
	"jobname",
	"state",
	"user",
	"elapsed",
	"alloctres",
	"partition",
	"nodelist",
	"submitline",
	"reason",
	"qos",
}

// finishedStates is the --state filter for the history query.
const finishedStates = "COMPLETED,CANCELLED,FAILED,TIMEOUT,PREEMPTED,OUT_OF_MEMORY"

// SacctClient queries recently finished jobs from the accounting database.
type SacctClient struct {
	runner    Runner
	extraArgs []string
	// window bounds the --starttime lookback.
	window time.Duration
}

func NewSacctClient(runner Runner, extraArgs []string, window time.Duration) *SacctClient {
	if window <= 0 {
		window = time.Hour
	}
	return &SacctClient{runner: runner, extraArgs: extraArgs, window: window}
}

func (c *SacctClient) Jobs(ctx context.Context) ([]Job, error) {
	args := append(append([]string(nil), c.extraArgs...),
		"--array",
		"--noheader",
		"--format", strings.Join(sacctFields, ","),
		"--delimiter", fieldSeparator,
		"-X",
		"--parsable",
		"--starttime", fmt.Sprintf("now-%dminutes", int(c.window.Minutes())),
		"--endtime", "now",
		"--state", finishedStates,
	)
	lines, err := c.runner.Lines(ctx, "sacct", args...)
	if err != nil {
		return nil, err
	}
	return parseSacct(lines), nil
}

// parseSacct normalizes sacct --parsable output. As with squeue, a
// well-formed line splits into len(sacctFields)+1 parts (the delimiter
// trails the last column); other lines are dropped.
func parseSacct(lines []string) []Job {
	var jobs []Job
	for _, line := range lines {
		parts := strings.Split(strings.TrimSpace(line), fieldSeparator)
		if len(parts) != len(sacctFields)+1 {
			continue
		}

		id := parts[0]
		state := parts[2]
		arrayID, arrayStep := splitArrayID(id)

		jobs = append(jobs, Job{
			JobID:        id,
			ArrayID:      arrayID,
			ArrayStep:    arrayStep,
			Name:         parts[1],
			State:        state,
			StateCompact: compactState(state),
			Reason:       optional(parts[9], "None"),
			QOS:          parts[10],
			User:         parts[3],
			Time:         parts[4],
			TRES:         parts[5],
			Partition:    parts[6],
			NodeList:     parts[7],
			Command:      normalizeSubmitLine(parts[8]),
		})
	}
	return jobs
}

// normalizeSubmitLine strips the sbatch invocation and its flags from a
// recorded submit line so the result matches squeue's "command" column.
// If nothing remains (e.g. the whole line was flags), the raw submit line
// is kept as-is.
func normalizeSubmitLine(raw string) string {
	fields := strings.Fields(raw)
	i := 0
	for i < len(fields) && (strings.HasPrefix(fields[i], "sbatch") || strings.HasPrefix(fields[i], "-")) {
		i++
	}
	cmd := strings.Join(fields[i:], " ")
	if cmd == "" {
		return raw
	}
	return cmd
}
