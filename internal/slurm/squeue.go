package slurm

import (
	"context"
	"strings"
)

// fieldSeparator is appended after every requested output column. It just
// has to be a string that never occurs inside a field value.
const fieldSeparator = "###slurmwatch###"

// squeueFields are the --Format column names, in the positional order the
// parser consumes them.
var squeueFields = []string{
	"jobid",
	"name",
	"state",
	"username",
	"timeused",
	"tres-alloc",
	"partition",
	"nodelist",
	"stdout",
	"stderr",
	"command",
	"statecompact",
	"reason",
	"qos",
	"ArrayJobID",  // %A
	"ArrayTaskID", // %a
	"NodeList",    // %N
	"WorkDir",     // fallback for empty stdout/stderr templates
}

// SqueueClient queries the currently active (running/pending) jobs.
type SqueueClient struct {
	runner   Runner
	resolver *PathResolver
	// ExtraArgs are forwarded verbatim before the fixed flags.
	extraArgs []string
}

func NewSqueueClient(runner Runner, resolver *PathResolver, extraArgs []string) *SqueueClient {
	return &SqueueClient{runner: runner, resolver: resolver, extraArgs: extraArgs}
}

func (c *SqueueClient) Jobs(ctx context.Context) ([]Job, error) {
	var format strings.Builder
	for i, f := range squeueFields {
		if i > 0 {
			format.WriteByte(',')
		}
		format.WriteString(f)
		format.WriteByte(':')
		format.WriteString(fieldSeparator)
	}

	args := append(append([]string(nil), c.extraArgs...),
		"--array",
		"--noheader",
		"--Format", format.String(),
	)
	lines, err := c.runner.Lines(ctx, "squeue", args...)
	if err != nil {
		return nil, err
	}
	return c.parse(lines), nil
}

// parse normalizes squeue output lines. Every column is followed by the
// separator, so a well-formed line splits into len(squeueFields)+1 parts
// with an empty tail. Anything else is a truncated or garbled line and is
// dropped.
func (c *SqueueClient) parse(lines []string) []Job {
	var jobs []Job
	for _, line := range lines {
		parts := strings.Split(strings.TrimSpace(line), fieldSeparator)
		if len(parts) != len(squeueFields)+1 {
			continue
		}

		id := parts[0]
		name := parts[1]
		user := parts[3]
		arrayJobID := parts[14]
		arrayTaskID := parts[15]
		nodeList := parts[16]
		workDir := parts[17]

		pathCtx := PathContext{
			ArrayJobID:  arrayJobID,
			ArrayTaskID: arrayTaskID,
			JobID:       id,
			HostList:    nodeList,
			User:        user,
			Name:        name,
			WorkDir:     workDir,
		}
		stdout := c.resolver.Resolve(parts[8], pathCtx)
		stderr := c.resolver.Resolve(parts[9], pathCtx)

		jobs = append(jobs, Job{
			JobID:        id,
			ArrayID:      arrayJobID,
			ArrayStep:    optional(arrayTaskID, "N/A"),
			Name:         name,
			State:        parts[2],
			StateCompact: parts[11],
			Reason:       optional(parts[12], "None"),
			QOS:          parts[13],
			User:         user,
			Time:         parts[4],
			TRES:         parts[5],
			Partition:    parts[6],
			NodeList:     parts[7],
			Command:      parts[10],
			Stdout:       &stdout,
			Stderr:       &stderr,
		})
	}
	return jobs
}
