// Package hunkstage provides domain types for parsing git diffs and blame
// output and for staging selected hunks and lines back through git apply.
package hunkstage

import "encoding/json"

// FileDiff represents the changes to a single file.
type FileDiff struct {
	File        string `json:"file"`                  // path on the new side ("b/" prefix stripped)
	OldPath     string `json:"oldPath,omitempty"`     // set only when the diff header names a different old path
	IsBinary    bool   `json:"isBinary"`              // binary diffs carry no hunks
	NewFile     bool   `json:"newFile,omitempty"`     // "new file mode" header seen
	DeletedFile bool   `json:"deletedFile,omitempty"` // "deleted file mode" header seen
	Mode        string `json:"mode,omitempty"`        // mode from the new/deleted file header, e.g. "100644"
	Hunks       []Hunk `json:"hunks"`
}

// SourcePath returns the path on the old side of the diff.
func (f FileDiff) SourcePath() string {
	if f.OldPath != "" {
		return f.OldPath
	}
	return f.File
}

// Hunk represents a contiguous block of changes within a file.
//
// Lines[0] is always a HeaderLine holding the raw "@@ ... @@" text.
type Hunk struct {
	Header   string     `json:"header"`
	OldStart int        `json:"oldStart"`          // From @@ -X,...
	OldCount int        `json:"oldCount"`          // From @@ -X,Y ...
	NewStart int        `json:"newStart"`          // From @@ ...,+X
	NewCount int        `json:"newCount"`          // From @@ ...,+X,Y
	Section  string     `json:"section,omitempty"` // Optional function name after @@ ... @@
	Lines    []DiffLine `json:"lines"`
}

// Changes returns the number of addition and deletion lines in the hunk.
func (h Hunk) Changes() (added, deleted int) {
	for _, l := range h.Lines {
		switch l.(type) {
		case AdditionLine:
			added++
		case DeletionLine:
			deleted++
		}
	}
	return added, deleted
}

// DiffLine is a single line of a hunk. It is implemented only by HeaderLine,
// ContextLine, AdditionLine and DeletionLine.
type DiffLine interface {
	// Text returns the line content without its prefix character.
	Text() string
	// Kind returns the line kind.
	Kind() LineKind

	diffLine()
}

// LineKind identifies the variant of a DiffLine.
type LineKind int

// Line kinds.
const (
	LineHeader LineKind = iota
	LineContext
	LineAddition
	LineDeletion
)

// String returns the JSON name of the kind.
func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineContext:
		return "context"
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff prefix character for the kind, or 0 for
// header lines.
func (k LineKind) Prefix() byte {
	switch k {
	case LineContext:
		return ' '
	case LineAddition:
		return '+'
	case LineDeletion:
		return '-'
	default:
		return 0
	}
}

// HeaderLine carries the raw hunk header.
type HeaderLine struct {
	Content string
}

// ContextLine is an unchanged line present in both versions.
type ContextLine struct {
	Content       string
	OldLineNumber int
	NewLineNumber int
	NoNewline     bool // followed by "\ No newline at end of file"
}

// AdditionLine exists only in the new version.
type AdditionLine struct {
	Content       string
	NewLineNumber int
	NoNewline     bool
}

// DeletionLine exists only in the old version.
type DeletionLine struct {
	Content       string
	OldLineNumber int
	NoNewline     bool
}

func (l HeaderLine) Text() string   { return l.Content }
func (l ContextLine) Text() string  { return l.Content }
func (l AdditionLine) Text() string { return l.Content }
func (l DeletionLine) Text() string { return l.Content }

func (HeaderLine) Kind() LineKind   { return LineHeader }
func (ContextLine) Kind() LineKind  { return LineContext }
func (AdditionLine) Kind() LineKind { return LineAddition }
func (DeletionLine) Kind() LineKind { return LineDeletion }

func (HeaderLine) diffLine()   {}
func (ContextLine) diffLine()  {}
func (AdditionLine) diffLine() {}
func (DeletionLine) diffLine() {}

// jsonLine is the wire shape shared by all line kinds.
type jsonLine struct {
	Type          string `json:"type"`
	Content       string `json:"content"`
	OldLineNumber int    `json:"oldLineNumber,omitempty"`
	NewLineNumber int    `json:"newLineNumber,omitempty"`
	NoNewline     bool   `json:"noNewline,omitempty"`
}

func (l HeaderLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLine{Type: LineHeader.String(), Content: l.Content})
}

func (l ContextLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLine{
		Type:          LineContext.String(),
		Content:       l.Content,
		OldLineNumber: l.OldLineNumber,
		NewLineNumber: l.NewLineNumber,
		NoNewline:     l.NoNewline,
	})
}

func (l AdditionLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLine{
		Type:          LineAddition.String(),
		Content:       l.Content,
		NewLineNumber: l.NewLineNumber,
		NoNewline:     l.NoNewline,
	})
}

func (l DeletionLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLine{
		Type:          LineDeletion.String(),
		Content:       l.Content,
		OldLineNumber: l.OldLineNumber,
		NoNewline:     l.NoNewline,
	})
}

// HasNoNewline reports whether the line is marked as lacking a trailing
// newline.
func HasNoNewline(l DiffLine) bool {
	switch v := l.(type) {
	case ContextLine:
		return v.NoNewline
	case AdditionLine:
		return v.NoNewline
	case DeletionLine:
		return v.NoNewline
	default:
		return false
	}
}

// BlameLine attributes one source line to the commit that last changed it.
type BlameLine struct {
	Hash       string `json:"hash"`       // first 8 hex characters of the commit
	Author     string `json:"author"`     // empty if the porcelain block had no author line
	AuthorTime string `json:"authorTime"` // ISO-8601 UTC, empty if unknown
	LineNumber int    `json:"lineNumber"` // line number in the final file
	Content    string `json:"content"`
}

// Selection picks hunks and lines out of a FileDiff. Keys are hunk indices;
// values are indices into Hunk.Lines. A nil or empty slice selects every
// change line of the hunk.
type Selection map[int][]int

// SelectAll returns a Selection covering every hunk of f.
func SelectAll(f FileDiff) Selection {
	sel := make(Selection, len(f.Hunks))
	for i := range f.Hunks {
		sel[i] = nil
	}
	return sel
}
