package git

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/blame"
	"github.com/fwojciec/hunkstage/gitdiff"
	"github.com/fwojciec/hunkstage/patch"
	"github.com/fwojciec/hunkstage/unidiff"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ hunkstage.Client = (*Client)(nil)

// Client combines the runner, parsers and patch builder into the operations
// the CLI exposes. Inputs are validated before any process is spawned.
type Client struct {
	Runner       hunkstage.Runner
	Applier      hunkstage.Applier
	DiffParser   hunkstage.DiffParser
	BlameParser  hunkstage.BlameParser
	PatchBuilder hunkstage.PatchBuilder

	Dir          string // repository working directory
	ContextLines int
	Parallelism  int
	Logger       *slog.Logger
}

// NewClient wires the default implementations from cfg.
func NewClient(cfg hunkstage.Config, logger *slog.Logger) *Client {
	cfg.SetDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	runner := NewExecRunner(cfg.GitBin, logger)
	applier := NewApplier(runner, gitdiff.NewValidator(), cfg.ApplyTimeout)
	applier.Logger = logger
	return &Client{
		Runner:       runner,
		Applier:      applier,
		DiffParser:   unidiff.NewParser(),
		BlameParser:  blame.NewParser(),
		PatchBuilder: patch.NewBuilder(),
		Dir:          cfg.Dir,
		ContextLines: cfg.ContextLines,
		Parallelism:  cfg.Parallelism,
		Logger:       logger,
	}
}

// Diff returns the diff of one file. A MALFORMED error may accompany a
// usable FileDiff.
func (c *Client) Diff(ctx context.Context, req hunkstage.DiffRequest) (hunkstage.FileDiff, error) {
	if err := requirePath("diff", req.Path); err != nil {
		return hunkstage.FileDiff{}, err
	}
	n := req.ContextLines
	if n <= 0 {
		n = c.ContextLines
	}
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if req.Cached {
		args = append(args, "--cached")
	}
	if n > 0 {
		args = append(args, "-U"+strconv.Itoa(n))
	}
	args = append(args, "--", req.Path)

	res := c.Runner.Run(ctx, args, hunkstage.RunOptions{Dir: c.Dir})
	if err := res.Err(); err != nil {
		return hunkstage.FileDiff{}, wrap("diff", err)
	}
	return c.DiffParser.Parse(res.Output, req.Path)
}

// Show returns the diff a commit made to one file.
func (c *Client) Show(ctx context.Context, req hunkstage.ShowRequest) (hunkstage.FileDiff, error) {
	if err := requirePath("show", req.Path); err != nil {
		return hunkstage.FileDiff{}, err
	}
	if err := requireRev("show", req.Rev, true); err != nil {
		return hunkstage.FileDiff{}, err
	}
	args := []string{"show", "--format=", "--no-color", "--no-ext-diff", req.Rev, "--", req.Path}

	res := c.Runner.Run(ctx, args, hunkstage.RunOptions{Dir: c.Dir})
	if err := res.Err(); err != nil {
		return hunkstage.FileDiff{}, wrap("show", err)
	}
	return c.DiffParser.Parse(res.Output, req.Path)
}

// Blame annotates the requested lines of a file.
func (c *Client) Blame(ctx context.Context, req hunkstage.BlameRequest) ([]hunkstage.BlameLine, error) {
	if err := requirePath("blame", req.Path); err != nil {
		return nil, err
	}
	if err := requireRev("blame", req.Rev, false); err != nil {
		return nil, err
	}
	args, err := BlameArgs(req)
	if err != nil {
		return nil, err
	}

	res := c.Runner.Run(ctx, args, hunkstage.RunOptions{Dir: c.Dir})
	if err := res.Err(); err != nil {
		return nil, wrap("blame", err)
	}
	return blame.FilterRange(c.BlameParser.Parse(res.Output), req.Start, req.End), nil
}

// BlameArgs returns the argument vector for a porcelain blame of req.
func BlameArgs(req hunkstage.BlameRequest) ([]string, error) {
	if req.Start < 0 || req.End < 0 || (req.End > 0 && req.End < req.Start) {
		return nil, &hunkstage.Error{
			Code:    hunkstage.EINVALID,
			Op:      "blame",
			Message: fmt.Sprintf("invalid line range %d,%d", req.Start, req.End),
		}
	}
	args := []string{"blame", "--porcelain"}
	switch {
	case req.Start > 0 && req.End > 0:
		args = append(args, "-L", fmt.Sprintf("%d,%d", req.Start, req.End))
	case req.Start > 0:
		args = append(args, "-L", fmt.Sprintf("%d,", req.Start))
	case req.End > 0:
		args = append(args, "-L", fmt.Sprintf("1,%d", req.End))
	}
	if req.Rev != "" {
		args = append(args, req.Rev)
	}
	return append(args, "--", req.Path), nil
}

// Apply submits a raw patch.
func (c *Client) Apply(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result {
	if opts.Dir == "" {
		opts.Dir = c.Dir
	}
	return c.Applier.Apply(ctx, patch, opts)
}

// StageSelection adds the selected lines of a working-tree diff to the index.
func (c *Client) StageSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.applySelection(ctx, file, sel, hunkstage.PatchStage, hunkstage.ApplyOptions{Cached: true})
}

// UnstageSelection removes the selected lines of a cached diff from the
// index, leaving the working tree untouched.
func (c *Client) UnstageSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.applySelection(ctx, file, sel, hunkstage.PatchUnstage, hunkstage.ApplyOptions{Cached: true, Reverse: true})
}

// DiscardSelection reverts the selected lines of a working-tree diff in the
// working tree itself.
func (c *Client) DiscardSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.applySelection(ctx, file, sel, hunkstage.PatchUnstage, hunkstage.ApplyOptions{Reverse: true})
}

func (c *Client) applySelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection, mode hunkstage.PatchMode, opts hunkstage.ApplyOptions) hunkstage.Result {
	p, err := c.PatchBuilder.Build(file, sel, mode)
	if err != nil {
		return hunkstage.Failure(err)
	}
	return c.Apply(ctx, p, opts)
}

// ApplyAll submits independent patches concurrently, at most Parallelism at a
// time. Results are in request order; the error combines every failure.
func (c *Client) ApplyAll(ctx context.Context, reqs []hunkstage.ApplyRequest) ([]hunkstage.Result, error) {
	results := make([]hunkstage.Result, len(reqs))

	limit := c.Parallelism
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = c.Apply(ctx, req.Patch, req.Options())
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for i, res := range results {
		if err := res.Err(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("request %d: %w", i, err))
		}
	}
	return results, errs
}

func requirePath(op, path string) error {
	if strings.TrimSpace(path) == "" {
		return &hunkstage.Error{Code: hunkstage.EINVALID, Op: op, Message: "path is required"}
	}
	return nil
}

// requireRev rejects revisions git would read as options.
func requireRev(op, rev string, required bool) error {
	switch {
	case strings.TrimSpace(rev) == "" && required:
		return &hunkstage.Error{Code: hunkstage.EINVALID, Op: op, Message: "revision is required"}
	case strings.HasPrefix(rev, "-"):
		return &hunkstage.Error{Code: hunkstage.EINVALID, Op: op, Message: fmt.Sprintf("invalid revision %q", rev)}
	}
	return nil
}

// wrap records op on an application error from a failed run.
func wrap(op string, err error) error {
	return &hunkstage.Error{
		Code:    hunkstage.ErrorCode(err),
		Op:      op,
		Message: hunkstage.ErrorMessage(err),
		Err:     err,
	}
}
