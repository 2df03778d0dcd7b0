// Package unidiff parses git's unified diff output into hunkstage types.
//
// The parser is deliberately lenient: lines it does not recognize are
// skipped so that small format differences between git versions never fail
// a whole parse.
package unidiff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.DiffParser = (*Parser)(nil)

// hunkHeaderRE matches "@@ -l[,s] +l[,s] @@[ section]".
var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

// metadataPrefixes are extended header lines that never belong to a hunk.
var metadataPrefixes = []string{
	"--- ",
	"+++ ",
	"index ",
	"new file",
	"deleted file",
	"old mode",
	"new mode",
	"similarity",
	"dissimilarity",
	"rename ",
	"copy ",
}

// Parser parses the diff of a single file. It holds no state between calls
// and is safe for concurrent use.
type Parser struct{}

// NewParser creates a new unified diff parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts diff text into a FileDiff. Empty text yields an empty
// FileDiff and no error.
//
// A hunk header that starts with "@@" but cannot be parsed closes the open
// hunk; body lines up to the next valid header are dropped instead of being
// numbered with stale counters. The first such header is reported as an
// EMALFORMED error returned together with everything that did parse.
func (p *Parser) Parse(text, file string) (hunkstage.FileDiff, error) {
	s := &scanner{
		diff: hunkstage.FileDiff{Hunks: []hunkstage.Hunk{}},
	}
	for _, line := range splitLines(text) {
		s.scan(line)
	}
	s.flush()

	switch {
	case s.diff.File != "":
	case file != "":
		s.diff.File = file
	case s.plusPath != "":
		s.diff.File = s.plusPath
	default:
		s.diff.File = s.minusPath
	}

	if s.err != nil {
		return s.diff, s.err
	}
	return s.diff, nil
}

// scanner is the per-call parse state.
type scanner struct {
	diff    hunkstage.FileDiff
	hunk    *hunkstage.Hunk
	tracker *Tracker

	// Lines still expected by the open hunk's declared counts. While either
	// is positive, "--- " and "+++ " are body lines, not file headers.
	oldLeft int
	newLeft int

	minusPath string
	plusPath  string
	err       error
}

// scan consumes one line. Headers are matched without a trailing carriage
// return; body lines keep it as part of their content.
func (s *scanner) scan(line string) {
	bare := strings.TrimSuffix(line, "\r")
	switch {
	case strings.HasPrefix(bare, "diff --git "):
		s.flush()
		if oldPath, newPath, ok := parseGitHeader(strings.TrimPrefix(bare, "diff --git ")); ok {
			s.diff.File = newPath
			if oldPath != newPath {
				s.diff.OldPath = oldPath
			}
		}
		return
	case strings.HasPrefix(bare, "Binary files ") && strings.HasSuffix(bare, " differ"),
		strings.HasPrefix(bare, "GIT binary patch"):
		s.flush()
		s.diff.IsBinary = true
		return
	case strings.HasPrefix(bare, "@@"):
		s.startHunk(bare)
		return
	}

	if s.hunk == nil || (s.oldLeft <= 0 && s.newLeft <= 0) {
		if s.metadata(bare) {
			return
		}
	}
	if s.hunk == nil {
		return
	}
	s.body(line)
}

// metadata records and skips extended header lines.
func (s *scanner) metadata(line string) bool {
	for _, prefix := range metadataPrefixes {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "new file mode"):
			s.diff.NewFile = true
			s.diff.Mode = strings.TrimSpace(strings.TrimPrefix(line, "new file mode"))
		case strings.HasPrefix(line, "deleted file mode"):
			s.diff.DeletedFile = true
			s.diff.Mode = strings.TrimSpace(strings.TrimPrefix(line, "deleted file mode"))
		case strings.HasPrefix(line, "--- "):
			s.minusPath = headerPath(strings.TrimPrefix(line, "--- "), "a/")
		case strings.HasPrefix(line, "+++ "):
			s.plusPath = headerPath(strings.TrimPrefix(line, "+++ "), "b/")
		}
		return true
	}
	return false
}

func (s *scanner) startHunk(line string) {
	s.flush()
	m := hunkHeaderRE.FindStringSubmatch(line)
	if m == nil {
		if s.err == nil {
			s.err = &hunkstage.Error{
				Code:    hunkstage.EMALFORMED,
				Op:      "parse diff",
				Message: "unparseable hunk header " + strconv.Quote(line),
			}
		}
		return
	}
	h := hunkstage.Hunk{
		Header:   line,
		OldStart: atoi(m[1], 0),
		OldCount: atoi(m[2], 1),
		NewStart: atoi(m[3], 0),
		NewCount: atoi(m[4], 1),
		Section:  strings.TrimPrefix(m[5], " "),
	}
	h.Lines = append(h.Lines, hunkstage.HeaderLine{Content: line})
	s.hunk = &h
	s.tracker = NewTracker(h.OldStart, h.NewStart)
	s.oldLeft = h.OldCount
	s.newLeft = h.NewCount
}

func (s *scanner) body(line string) {
	if line == "" || line == "\r" {
		s.hunk.Lines = append(s.hunk.Lines, s.tracker.Context(""))
		s.oldLeft--
		s.newLeft--
		return
	}
	switch line[0] {
	case '+':
		s.hunk.Lines = append(s.hunk.Lines, s.tracker.Addition(line[1:]))
		s.newLeft--
	case '-':
		s.hunk.Lines = append(s.hunk.Lines, s.tracker.Deletion(line[1:]))
		s.oldLeft--
	case ' ':
		s.hunk.Lines = append(s.hunk.Lines, s.tracker.Context(line[1:]))
		s.oldLeft--
		s.newLeft--
	case '\\':
		s.markNoNewline()
	}
}

// markNoNewline flags the previous body line after a
// "\ No newline at end of file" marker.
func (s *scanner) markNoNewline() {
	last := len(s.hunk.Lines) - 1
	switch l := s.hunk.Lines[last].(type) {
	case hunkstage.ContextLine:
		l.NoNewline = true
		s.hunk.Lines[last] = l
	case hunkstage.AdditionLine:
		l.NoNewline = true
		s.hunk.Lines[last] = l
	case hunkstage.DeletionLine:
		l.NoNewline = true
		s.hunk.Lines[last] = l
	}
}

func (s *scanner) flush() {
	if s.hunk == nil {
		return
	}
	s.diff.Hunks = append(s.diff.Hunks, *s.hunk)
	s.hunk = nil
	s.oldLeft, s.newLeft = 0, 0
}

// splitLines splits text on newlines, dropping the empty element produced by
// a trailing newline. Carriage returns are kept.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseGitHeader splits the "a/<old> b/<new>" part of a diff --git line.
func parseGitHeader(rest string) (oldPath, newPath string, ok bool) {
	if strings.HasPrefix(rest, `"`) {
		first, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return "", "", false
		}
		second := strings.TrimSpace(rest[len(first):])
		oldPath = unquote(first)
		newPath = unquote(second)
		return strings.TrimPrefix(oldPath, "a/"), strings.TrimPrefix(newPath, "b/"), true
	}

	// Identical names are the common case and may contain " b/" themselves.
	if n := len(rest); n%2 == 1 {
		half := (n - 1) / 2
		first, second := rest[:half], rest[half+1:]
		if rest[half] == ' ' && strings.HasPrefix(first, "a/") && strings.HasPrefix(second, "b/") && first[2:] == second[2:] {
			return first[2:], second[2:], true
		}
	}

	i := strings.LastIndex(rest, " b/")
	if i < 0 {
		if i = strings.LastIndex(rest, ` "b/`); i < 0 {
			return "", "", false
		}
	}
	oldPath = unquote(rest[:i])
	newPath = unquote(rest[i+1:])
	return strings.TrimPrefix(oldPath, "a/"), strings.TrimPrefix(newPath, "b/"), true
}

// headerPath extracts the path from a ---/+++ header value.
func headerPath(value, prefix string) string {
	if i := strings.IndexByte(value, '\t'); i >= 0 {
		value = value[:i]
	}
	value = unquote(strings.TrimSpace(value))
	if value == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(value, prefix)
}

func unquote(s string) string {
	if strings.HasPrefix(s, `"`) {
		if v, err := strconv.Unquote(s); err == nil {
			return v
		}
	}
	return s
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
