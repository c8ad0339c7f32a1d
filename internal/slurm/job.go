package slurm

import "strings"

// Job is the canonical record both query paths normalize into.
//
// One Job per squeue/sacct row; array jobs expand to one Job per task.
// Time and TRES are kept as the scheduler formats them (opaque strings).
type Job struct {
	// JobID is unique within one poll cycle. Array tasks use the
	// "parent_index" composite form (e.g. "123_4").
	JobID   string
	ArrayID string
	// ArrayStep is the task index within the array; nil for non-array jobs.
	ArrayStep *string

	Name      string
	User      string
	Partition string
	NodeList  string
	Command   string
	QOS       string

	State        string
	StateCompact string
	// Reason is nil when the scheduler reports no reason ("None").
	Reason *string

	Time string
	TRES string

	// Stdout/Stderr are resolved filesystem paths; nil when unknown
	// (sacct does not expose the path templates).
	Stdout *string
	Stderr *string
}

// compactStates maps the long state names sacct reports to the short codes
// squeue's %t column uses. Unlisted states pass through verbatim.
var compactStates = map[string]string{
	"RUNNING":   "R",
	"PENDING":   "PD",
	"COMPLETED": "CD",
	"CANCELLED": "CA",
	"FAILED":    "F",
	"TIMEOUT":   "TO",
	"NODE_FAIL": "NF",
	"PREEMPTED": "PR",
	"SUSPENDED": "S",
}

func compactState(state string) string {
	if c, ok := compactStates[state]; ok {
		return c
	}
	return state
}

// splitArrayID derives the array parent id and task index from a composite
// job id ("123_4" -> "123", "4"). sacct does not expose array ids directly,
// so this is the only source for them on the history path. Ids with zero or
// more than one underscore are treated as plain jobs.
func splitArrayID(jobID string) (arrayID string, arrayStep *string) {
	if strings.Contains(jobID, "_") {
		parts := strings.Split(jobID, "_")
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			step := parts[1]
			return parts[0], &step
		}
	}
	return jobID, nil
}

func optional(v, sentinel string) *string {
	if v == sentinel {
		return nil
	}
	return &v
}
