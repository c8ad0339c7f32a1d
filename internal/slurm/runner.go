package slurm

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a scheduler query binary and returns its stdout as lines.
// It exists as an interface so the parsers and the watcher can be tested
// against canned output.
type Runner interface {
	Lines(ctx context.Context, name string, args ...string) ([]string, error)
}

// ExecRunner runs commands via os/exec. Stderr is ignored; Slurm CLIs print
// warnings there that are not part of the record stream.
type ExecRunner struct{}

func (ExecRunner) Lines(ctx context.Context, name string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading output: %w", name, err)
	}
	return lines, nil
}
