// Package mock provides function-field test doubles for the hunkstage
// interfaces.
package mock

import (
	"context"

	"github.com/fwojciec/hunkstage"
)

var (
	_ hunkstage.Runner         = (*Runner)(nil)
	_ hunkstage.Applier        = (*Applier)(nil)
	_ hunkstage.PatchValidator = (*Validator)(nil)
	_ hunkstage.Client         = (*Client)(nil)
)

// Runner is a mock implementation of hunkstage.Runner.
type Runner struct {
	RunFn func(ctx context.Context, args []string, opts hunkstage.RunOptions) hunkstage.Result
}

func (r *Runner) Run(ctx context.Context, args []string, opts hunkstage.RunOptions) hunkstage.Result {
	return r.RunFn(ctx, args, opts)
}

// Applier is a mock implementation of hunkstage.Applier.
type Applier struct {
	ApplyFn func(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result
}

func (a *Applier) Apply(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result {
	return a.ApplyFn(ctx, patch, opts)
}

// Validator is a mock implementation of hunkstage.PatchValidator.
type Validator struct {
	ValidateFn func(patch string) error
}

func (v *Validator) Validate(patch string) error {
	return v.ValidateFn(patch)
}

// Client is a mock implementation of hunkstage.Client.
type Client struct {
	DiffFn             func(ctx context.Context, req hunkstage.DiffRequest) (hunkstage.FileDiff, error)
	ShowFn             func(ctx context.Context, req hunkstage.ShowRequest) (hunkstage.FileDiff, error)
	BlameFn            func(ctx context.Context, req hunkstage.BlameRequest) ([]hunkstage.BlameLine, error)
	ApplyFn            func(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result
	StageSelectionFn   func(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result
	UnstageSelectionFn func(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result
	DiscardSelectionFn func(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result
	ApplyAllFn         func(ctx context.Context, reqs []hunkstage.ApplyRequest) ([]hunkstage.Result, error)
}

func (c *Client) Diff(ctx context.Context, req hunkstage.DiffRequest) (hunkstage.FileDiff, error) {
	return c.DiffFn(ctx, req)
}

func (c *Client) Show(ctx context.Context, req hunkstage.ShowRequest) (hunkstage.FileDiff, error) {
	return c.ShowFn(ctx, req)
}

func (c *Client) Blame(ctx context.Context, req hunkstage.BlameRequest) ([]hunkstage.BlameLine, error) {
	return c.BlameFn(ctx, req)
}

func (c *Client) Apply(ctx context.Context, patch string, opts hunkstage.ApplyOptions) hunkstage.Result {
	return c.ApplyFn(ctx, patch, opts)
}

func (c *Client) StageSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.StageSelectionFn(ctx, file, sel)
}

func (c *Client) UnstageSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.UnstageSelectionFn(ctx, file, sel)
}

func (c *Client) DiscardSelection(ctx context.Context, file hunkstage.FileDiff, sel hunkstage.Selection) hunkstage.Result {
	return c.DiscardSelectionFn(ctx, file, sel)
}

func (c *Client) ApplyAll(ctx context.Context, reqs []hunkstage.ApplyRequest) ([]hunkstage.Result, error) {
	return c.ApplyAllFn(ctx, reqs)
}
