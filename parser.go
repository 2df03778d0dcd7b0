package hunkstage

// DiffParser parses unified diff text for a single file.
type DiffParser interface {
	// Parse returns the parsed diff. file names the target when the text has
	// no "diff --git" header. A non-nil error with code EMALFORMED may be
	// returned alongside a usable FileDiff.
	Parse(text, file string) (FileDiff, error)
}

// BlameParser parses porcelain blame output.
type BlameParser interface {
	Parse(text string) []BlameLine
}

// PatchBuilder reconstructs a minimal patch from selected hunks and lines.
type PatchBuilder interface {
	Build(file FileDiff, sel Selection, mode PatchMode) (string, error)
}

// PatchMode controls how unselected lines are treated when building a patch.
type PatchMode int

// Patch modes.
const (
	// PatchStage builds a forward patch from a working-tree diff.
	PatchStage PatchMode = iota
	// PatchUnstage builds a patch from the cached diff meant to be applied
	// in reverse.
	PatchUnstage
)
