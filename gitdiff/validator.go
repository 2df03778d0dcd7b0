// Package gitdiff checks generated patches with go-gitdiff before they are
// submitted to git apply.
package gitdiff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.PatchValidator = (*Validator)(nil)

// Validator parses patches with go-gitdiff. It is safe for concurrent use.
type Validator struct{}

// NewValidator creates a new patch validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate parses patch strictly. Unlike the lenient diff parser, any
// fragment whose line counts disagree with its header is rejected.
func (v *Validator) Validate(patch string) error {
	files, err := parse(patch)
	if err != nil {
		return err
	}
	for _, f := range files {
		for i, frag := range f.TextFragments {
			if err := frag.Validate(); err != nil {
				return &hunkstage.Error{
					Code:    hunkstage.EINVALID,
					Op:      "validate patch",
					Message: fmt.Sprintf("hunk %d of %s: %v", i, name(f), err),
					Err:     err,
				}
			}
		}
	}
	return nil
}

// Stat returns per-file addition and deletion counts for patch.
func (v *Validator) Stat(patch string) ([]hunkstage.FileStat, error) {
	files, err := parse(patch)
	if err != nil {
		return nil, err
	}
	stats := make([]hunkstage.FileStat, 0, len(files))
	for _, f := range files {
		st := hunkstage.FileStat{File: name(f), Binary: f.IsBinary}
		for _, frag := range f.TextFragments {
			st.Added += int(frag.LinesAdded)
			st.Deleted += int(frag.LinesDeleted)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func parse(patch string) ([]*gitdiff.File, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return nil, &hunkstage.Error{Code: hunkstage.EINVALID, Op: "validate patch", Err: err}
	}
	if len(files) == 0 {
		return nil, &hunkstage.Error{Code: hunkstage.EINVALID, Op: "validate patch", Message: "patch contains no file changes"}
	}
	return files, nil
}

// name returns the path git will touch. go-gitdiff has already dropped the
// a/ and b/ prefixes.
func name(f *gitdiff.File) string {
	if f.IsDelete || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}
