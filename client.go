package hunkstage

import "context"

// Client is the set of repository operations exposed to callers.
type Client interface {
	Diff(ctx context.Context, req DiffRequest) (FileDiff, error)
	Show(ctx context.Context, req ShowRequest) (FileDiff, error)
	Blame(ctx context.Context, req BlameRequest) ([]BlameLine, error)

	Apply(ctx context.Context, patch string, opts ApplyOptions) Result
	StageSelection(ctx context.Context, file FileDiff, sel Selection) Result
	UnstageSelection(ctx context.Context, file FileDiff, sel Selection) Result
	DiscardSelection(ctx context.Context, file FileDiff, sel Selection) Result

	// ApplyAll submits independent patches concurrently. Results are in
	// request order; the error combines every failure.
	ApplyAll(ctx context.Context, reqs []ApplyRequest) ([]Result, error)
}
