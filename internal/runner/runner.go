// Package runner defines the command execution collaborator. The dashboard
// only selects commands; a CommandRunner decides what happens to them.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Status describes the outcome of a run request.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusDryRun    Status = "dry-run"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Runner kinds accepted by New.
const (
	KindDryRun = "dry-run"
	KindNoop   = "noop"
)

// ErrUnimplemented is returned by Noop for every request.
var ErrUnimplemented = errors.New("runner: command execution is not implemented")

// Request is one action handed over for execution.
type Request struct {
	ModuleID string
	Action   string
	Command  string
	Dir      string
}

// Result reports how a request was handled.
type Result struct {
	Status  Status
	Message string
	Argv    []string
}

// CommandRunner accepts an action's command string and reports the outcome.
type CommandRunner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// New returns the runner registered under kind. An empty kind selects the
// dry-run runner.
func New(kind string) (CommandRunner, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindDryRun:
		return DryRun{}, nil
	case KindNoop:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("runner: unknown kind %q", kind)
	}
}

// Noop refuses every request.
type Noop struct{}

func (Noop) Run(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusFailed}, err
	}
	return Result{
		Status:  StatusSkipped,
		Message: fmt.Sprintf("Not running %s: `%s`", req.Action, req.Command),
	}, ErrUnimplemented
}

// DryRun expands the command into argv the way a POSIX shell would and
// reports it without executing anything.
type DryRun struct {
	// Env resolves variables during expansion. Nil uses the process
	// environment.
	Env func(name string) string
}

func (d DryRun) Run(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusFailed}, err
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return Result{Status: StatusFailed}, fmt.Errorf("runner: %s: command is empty", req.Action)
	}
	argv, err := shell.Fields(command, d.Env)
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("runner: %s: expand command: %w", req.Action, err)
	}
	if len(argv) == 0 {
		return Result{Status: StatusFailed}, fmt.Errorf("runner: %s: command expands to nothing", req.Action)
	}
	msg := fmt.Sprintf("Would run %s: %s", req.Action, formatArgv(argv))
	if dir := strings.TrimSpace(req.Dir); dir != "" {
		msg += " (in " + dir + ")"
	}
	return Result{Status: StatusDryRun, Message: msg, Argv: argv}, nil
}

func formatArgv(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n'\"\\$") {
			parts[i] = strconv.Quote(arg)
			continue
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}
