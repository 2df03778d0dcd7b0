// Package git runs the git binary: the subprocess runner, the patch applier
// and a client combining them with the diff, blame and patch packages.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.Runner = (*ExecRunner)(nil)

// DefaultWaitDelay bounds how long Run waits for output pipes to close after
// the process has exited or been killed.
const DefaultWaitDelay = 2 * time.Second

// state is the lifecycle of one subprocess.
type state int

const (
	stateSpawning state = iota
	stateStreaming
	stateExited
	stateErrored
)

func (s state) String() string {
	switch s {
	case stateSpawning:
		return "spawning"
	case stateStreaming:
		return "streaming"
	case stateExited:
		return "exited"
	case stateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ExecRunner executes the configured git binary.
type ExecRunner struct {
	GitBin    string
	WaitDelay time.Duration
	Logger    *slog.Logger
}

// NewExecRunner returns a runner for gitBin, defaulting to "git" on PATH.
// A nil logger discards all records.
func NewExecRunner(gitBin string, logger *slog.Logger) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecRunner{GitBin: gitBin, WaitDelay: DefaultWaitDelay, Logger: logger}
}

// Run executes git with args, never through a shell. opts.Stdin is written
// in full and the stream closed. Cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, args []string, opts hunkstage.RunOptions) hunkstage.Result {
	p := &process{args: args, logger: r.logger()}

	cmd := exec.CommandContext(ctx, r.GitBin, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	cmd.WaitDelay = r.WaitDelay

	p.enter(stateSpawning)
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return p.interrupted(ctxErr)
		}
		return p.failed(&hunkstage.Error{
			Code:    hunkstage.ESPAWN,
			Op:      "run",
			Message: fmt.Sprintf("failed to start %s: %v", r.GitBin, err),
			Err:     err,
		})
	}

	p.enter(stateStreaming)
	err := cmd.Wait()

	// A clean exit wins over a cancellation that arrived after it.
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return p.exited(0)
	case ctx.Err() != nil:
		return p.interrupted(ctx.Err())
	case errors.As(err, &exitErr):
		return p.exited(exitErr.ExitCode())
	default:
		return p.failed(&hunkstage.Error{Code: hunkstage.ETOOL, Op: "run", Err: err})
	}
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

// process accumulates the output of one run and builds its Result.
type process struct {
	args   []string
	state  state
	stdout bytes.Buffer
	stderr bytes.Buffer
	logger *slog.Logger
}

func (p *process) enter(s state) {
	p.state = s
	p.logger.Debug("git process", "state", s.String(), "args", p.args)
}

func (p *process) exited(code int) hunkstage.Result {
	p.enter(stateExited)
	res := hunkstage.Result{
		Success:  code == 0,
		Output:   trimOutput(p.stdout.String()),
		Stderr:   strings.TrimSpace(p.stderr.String()),
		ExitCode: code,
	}
	if code != 0 {
		res.Code = hunkstage.ETOOL
		res.Error = res.Stderr
		if res.Error == "" {
			res.Error = fmt.Sprintf("process exited with code %d", code)
		}
		p.logger.Warn("git failed", "args", p.args, "exit_code", code, "stderr", res.Stderr)
	}
	return res
}

func (p *process) interrupted(ctxErr error) hunkstage.Result {
	code, msg := hunkstage.ECANCELED, "git was canceled"
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		code, msg = hunkstage.ETIMEOUT, "git timed out"
	}
	return p.failed(&hunkstage.Error{Code: code, Op: "run", Message: msg, Err: ctxErr})
}

func (p *process) failed(err *hunkstage.Error) hunkstage.Result {
	p.enter(stateErrored)
	p.logger.Warn("git errored", "args", p.args, "code", err.Code, "err", err)
	res := hunkstage.Failure(err)
	res.Output = trimOutput(p.stdout.String())
	res.Stderr = strings.TrimSpace(p.stderr.String())
	return res
}

// trimOutput drops trailing newlines. Spaces and carriage returns are kept: a
// blank context line at the end of a diff is a single space, and the last line
// of a CRLF file ends in "\r".
func trimOutput(s string) string {
	return strings.TrimRight(s, "\n")
}
