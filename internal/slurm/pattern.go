package slurm

import (
	"path/filepath"
	"regexp"
	"strings"
)

// NoValueSentinel is what Slurm substitutes for %a on jobs that are not
// array members (NO_VAL, 2^32-2). Deployments that patched it can override
// via PathResolverConfig.
const NoValueSentinel = "4294967294"

// PathContext carries the per-job values the filename tokens expand to.
type PathContext struct {
	ArrayJobID  string // %A
	ArrayTaskID string // %a, "N/A" when the job is not an array member
	JobID       string // %J, %j
	HostList    string // %N takes the first entry
	User        string // %u
	Name        string // %x
	WorkDir     string // fallback directory for empty templates
}

// PathResolver expands sbatch filename-pattern templates
// (see the "filename pattern" section of sbatch(1)) into concrete paths.
//
// The token set is closed, matched by a compiled pattern the resolver owns.
// Resolution never fails: unknown %-sequences are simply not tokens and are
// left in place.
type PathResolver struct {
	re    *regexp.Regexp
	noVal string
}

type PathResolverConfig struct {
	// NoValueSentinel overrides the numeric stand-in used for %a when the
	// array task id is unknown. Empty means NoValueSentinel.
	NoValueSentinel string
}

func NewPathResolver(cfg PathResolverConfig) *PathResolver {
	noVal := cfg.NoValueSentinel
	if noVal == "" {
		noVal = NoValueSentinel
	}
	return &PathResolver{
		re:    regexp.MustCompile(`%(%|A|a|J|j|N|n|s|t|u|x)`),
		noVal: noVal,
	}
}

// Resolve expands every token in template against ctx.
func (r *PathResolver) Resolve(template string, ctx PathContext) string {
	taskID := ctx.ArrayTaskID
	if taskID == "N/A" {
		taskID = r.noVal
	}

	path := template
	if path == "" {
		// squeue -O stdout appears to always return something, but keep the
		// scheduler's own defaults as a fallback.
		if taskID == r.noVal {
			path = filepath.Join(ctx.WorkDir, "slurm-%J.out")
		} else {
			path = filepath.Join(ctx.WorkDir, "slurm-%A_%a.out")
		}
	}

	// Replacements can be longer or shorter than the 2-byte token, which
	// would invalidate the offsets of matches to their right. Collect all
	// match positions first, then substitute rightmost-first so every
	// remaining offset stays valid.
	matches := r.re.FindAllStringIndex(path, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]

		var repl string
		switch path[start:end] {
		case "%%":
			repl = "%"
		case "%A":
			repl = ctx.ArrayJobID
		case "%a":
			repl = taskID
		case "%J", "%j":
			repl = ctx.JobID
		case "%N":
			repl = firstHost(ctx.HostList)
		case "%n", "%t":
			repl = "0"
		case "%s":
			repl = "batch"
		case "%u":
			repl = ctx.User
		case "%x":
			repl = ctx.Name
		}

		path = path[:start] + repl + path[end:]
	}

	return path
}

func firstHost(hosts string) string {
	if i := strings.IndexByte(hosts, ','); i >= 0 {
		return hosts[:i]
	}
	return hosts
}
