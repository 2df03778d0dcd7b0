package hunkstage

import (
	"context"
	"fmt"
)

// Result is the envelope returned by every subprocess invocation.
//
// Success is decided by the exit code alone: git often writes warnings to
// stderr on a successful run.
type Result struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	Code     string `json:"code,omitempty"` // error code when Success is false
}

// Err returns the failure described by r as an *Error, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	code := r.Code
	if code == "" {
		code = ETOOL
	}
	msg := r.Error
	if msg == "" {
		msg = fmt.Sprintf("process exited with code %d", r.ExitCode)
	}
	return &Error{Code: code, Message: msg}
}

// Failure builds a failed Result carrying err's code and message.
func Failure(err error) Result {
	code := ErrorCode(err)
	if code == "" {
		code = ETOOL
	}
	return Result{Success: false, Error: ErrorMessage(err), Code: code, ExitCode: -1}
}

// RunOptions configure a single subprocess invocation.
type RunOptions struct {
	Dir   string   // working directory; empty means the current one
	Stdin string   // written in full to the process, then closed
	Env   []string // extra KEY=VALUE pairs appended to the environment
}

// Runner executes the git binary with an explicit argument vector.
type Runner interface {
	// Run blocks until the process exits or ctx is done. Spawn failures,
	// non-zero exits and cancellation are all reported through the Result.
	Run(ctx context.Context, args []string, opts RunOptions) Result
}

// ApplyOptions select how a patch is applied.
type ApplyOptions struct {
	Cached  bool   // apply to the index only
	Reverse bool   // invert the patch, used to unstage
	Dir     string // repository working directory
}

// Applier submits patches to git apply.
type Applier interface {
	Apply(ctx context.Context, patch string, opts ApplyOptions) Result
}

// PatchValidator checks a patch before it is handed to git.
type PatchValidator interface {
	// Validate returns an EINVALID error when patch does not parse as a
	// unified diff or a hunk's line counts disagree with its header.
	Validate(patch string) error
}

// FileStat summarizes the changes a patch makes to one file.
type FileStat struct {
	File    string `json:"file"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
	Binary  bool   `json:"binary,omitempty"`
}

// ApplyRequest is one patch submission in a batch.
type ApplyRequest struct {
	Patch   string `json:"patch"`
	Cached  bool   `json:"cached,omitempty"`
	Reverse bool   `json:"reverse,omitempty"`
	Dir     string `json:"dir,omitempty"`
}

// Options returns the apply options carried by the request.
func (r ApplyRequest) Options() ApplyOptions {
	return ApplyOptions{Cached: r.Cached, Reverse: r.Reverse, Dir: r.Dir}
}

// DiffRequest selects the diff of one file in the working tree or index.
type DiffRequest struct {
	Path         string
	Cached       bool // index against HEAD instead of working tree against index
	ContextLines int  // zero uses the client default
}

// ShowRequest selects the diff one commit made to a file.
type ShowRequest struct {
	Rev  string
	Path string
}

// BlameRequest selects the lines of a file to annotate. Start and End are
// 1-based and inclusive; zero leaves that end of the range open.
type BlameRequest struct {
	Path  string
	Rev   string // empty annotates the working tree
	Start int
	End   int
}
