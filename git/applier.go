package git

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.Applier = (*Applier)(nil)

// Applier submits patches to "git apply" through a Runner.
type Applier struct {
	Runner    hunkstage.Runner
	Validator hunkstage.PatchValidator // optional pre-flight check
	Timeout   time.Duration
	Logger    *slog.Logger
}

// NewApplier creates an applier. A zero timeout uses
// hunkstage.DefaultApplyTimeout.
func NewApplier(runner hunkstage.Runner, validator hunkstage.PatchValidator, timeout time.Duration) *Applier {
	if timeout <= 0 {
		timeout = hunkstage.DefaultApplyTimeout
	}
	return &Applier{Runner: runner, Validator: validator, Timeout: timeout}
}

// Apply writes patch to the stdin of git apply. With opts.Cached only the
// index changes; with opts.Reverse the patch is inverted.
func (a *Applier) Apply(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result {
	if strings.TrimSpace(patch) == "" {
		return hunkstage.Failure(&hunkstage.Error{Code: hunkstage.EINVALID, Op: "apply", Message: "patch is empty"})
	}
	if a.Validator != nil {
		if err := a.Validator.Validate(patch); err != nil {
			return hunkstage.Failure(err)
		}
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = hunkstage.DefaultApplyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := ApplyArgs(opts)
	res := a.Runner.Run(ctx, args, hunkstage.RunOptions{Dir: opts.Dir, Stdin: patch})
	if a.Logger != nil {
		a.Logger.Debug("patch applied", "args", args, "success", res.Success, "bytes", len(patch))
	}
	return res
}

// ApplyArgs returns the argument vector for git apply reading from stdin.
func ApplyArgs(opts hunkstage.ApplyOptions) []string {
	args := []string{"apply"}
	if opts.Cached {
		args = append(args, "--cached")
	}
	if opts.Reverse {
		args = append(args, "--reverse")
	}
	return append(args, "--whitespace=nowarn", "-")
}
