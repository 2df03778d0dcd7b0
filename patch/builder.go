// Package patch rebuilds minimal unified-diff patches from a subset of the
// hunks and lines of a parsed diff, for partial staging and unstaging.
package patch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/hunkstage"
)

// Compile-time interface verification.
var _ hunkstage.PatchBuilder = (*Builder)(nil)

const noNewlineMarker = `\ No newline at end of file`

const defaultMode = "100644"

// Builder assembles patches. It holds no state and is safe for concurrent use.
type Builder struct{}

// NewBuilder creates a new patch builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns a patch containing only the selected lines of file.
//
// With PatchStage, unselected additions are dropped and unselected deletions
// become context, so the patch applies forward onto the index. With
// PatchUnstage, unselected additions become context and unselected deletions
// are dropped, so the patch applies in reverse onto the index or working
// tree. Hunk headers are recomputed from the emitted lines, anchored on the
// side the patch is applied to.
func (b *Builder) Build(file hunkstage.FileDiff, sel hunkstage.Selection, mode hunkstage.PatchMode) (string, error) {
	if file.IsBinary {
		return "", hunkstage.Errorf(hunkstage.EINVALID, "cannot build a patch for binary file %s", file.File)
	}
	if strings.TrimSpace(file.File) == "" {
		return "", hunkstage.Errorf(hunkstage.EINVALID, "file path is required")
	}
	if len(sel) == 0 {
		return "", hunkstage.Errorf(hunkstage.EINVALID, "no hunks selected for %s", file.File)
	}
	if err := validate(file, sel); err != nil {
		return "", err
	}

	indices := make([]int, 0, len(sel))
	for i := range sel {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	var (
		hunks              []hunkBody
		offset             int
		totalOld, totalNew int
	)
	for _, i := range indices {
		h := file.Hunks[i]
		hb := selectLines(h, sel[i], mode)
		if hb.changes == 0 {
			continue
		}
		if mode == hunkstage.PatchUnstage {
			// Applied in reverse, so git locates the hunk on the new side.
			hb.newStart = anchor(h.NewStart, h.NewCount, hb.newCount)
			hb.oldStart = shift(hb.newStart, hb.newCount, hb.oldCount, -offset)
		} else {
			hb.oldStart = anchor(h.OldStart, h.OldCount, hb.oldCount)
			hb.newStart = shift(hb.oldStart, hb.oldCount, hb.newCount, offset)
		}
		hb.section = h.Section
		offset += hb.newCount - hb.oldCount
		totalOld += hb.oldCount
		totalNew += hb.newCount
		hunks = append(hunks, hb)
	}
	if len(hunks) == 0 {
		return "", hunkstage.Errorf(hunkstage.EINVALID, "selection contains no changes for %s", file.File)
	}

	isNew := file.NewFile && totalOld == 0
	isDeleted := file.DeletedFile && totalNew == 0

	var w strings.Builder
	writeFileHeader(&w, file, isNew, isDeleted)
	for _, hb := range hunks {
		w.WriteString(hb.header())
		w.WriteByte('\n')
		for _, l := range hb.lines {
			w.WriteString(l)
			w.WriteByte('\n')
		}
	}
	return w.String(), nil
}

// Format renders the whole of file as a patch.
func (b *Builder) Format(file hunkstage.FileDiff) (string, error) {
	return b.Build(file, hunkstage.SelectAll(file), hunkstage.PatchStage)
}

// hunkBody is one rebuilt hunk.
type hunkBody struct {
	lines              []string
	changes            int
	oldStart, oldCount int
	newStart, newCount int
	section            string
}

func (h hunkBody) header() string {
	header := "@@ -" + formatRange(h.oldStart, h.oldCount) + " +" + formatRange(h.newStart, h.newCount) + " @@"
	if h.section != "" {
		header += " " + h.section
	}
	return header
}

// selectLines emits the prefixed body lines of h for the selected indices.
func selectLines(h hunkstage.Hunk, picked []int, mode hunkstage.PatchMode) hunkBody {
	all := len(picked) == 0
	chosen := make(map[int]bool, len(picked))
	for _, j := range picked {
		chosen[j] = true
	}

	var hb hunkBody
	emit := func(prefix byte, l hunkstage.DiffLine) {
		hb.lines = append(hb.lines, string(prefix)+l.Text())
		if hunkstage.HasNoNewline(l) {
			hb.lines = append(hb.lines, noNewlineMarker)
		}
	}

	for j, l := range h.Lines {
		selected := all || chosen[j]
		switch l.(type) {
		case hunkstage.ContextLine:
			emit(' ', l)
			hb.oldCount++
			hb.newCount++
		case hunkstage.AdditionLine:
			switch {
			case selected:
				emit('+', l)
				hb.newCount++
				hb.changes++
			case mode == hunkstage.PatchUnstage:
				emit(' ', l)
				hb.oldCount++
				hb.newCount++
			}
		case hunkstage.DeletionLine:
			switch {
			case selected:
				emit('-', l)
				hb.oldCount++
				hb.changes++
			case mode == hunkstage.PatchStage:
				emit(' ', l)
				hb.oldCount++
				hb.newCount++
			}
		}
	}
	return hb
}

// anchor moves the start of a range that became empty, or stopped being
// empty, when unselected lines were dropped or turned into context. start and
// count describe the range as parsed.
func anchor(start, count, emitted int) int {
	switch {
	case count == 0 && emitted > 0:
		return start + 1
	case count > 0 && emitted == 0:
		return start - 1
	default:
		return start
	}
}

// shift places a hunk on the opposite side from a range starting at from,
// offset by the line delta of the hunks emitted before it. For an empty range
// the start is the line before the range, as in git's own output.
func shift(from, fromCount, toCount, offset int) int {
	first := from
	if fromCount == 0 {
		first++
	}
	first += offset
	if toCount == 0 {
		return first - 1
	}
	return first
}

func formatRange(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}

func writeFileHeader(w *strings.Builder, file hunkstage.FileDiff, isNew, isDeleted bool) {
	src := file.SourcePath()
	fmt.Fprintf(w, "diff --git %s %s\n", quotePath("a/"+src), quotePath("b/"+file.File))
	mode := file.Mode
	if mode == "" {
		mode = defaultMode
	}
	oldName, newName := quotePath("a/"+src), quotePath("b/"+file.File)
	switch {
	case isNew:
		fmt.Fprintf(w, "new file mode %s\n", mode)
		oldName = "/dev/null"
	case isDeleted:
		fmt.Fprintf(w, "deleted file mode %s\n", mode)
		newName = "/dev/null"
	}
	fmt.Fprintf(w, "--- %s\n+++ %s\n", oldName, newName)
}

// quotePath quotes a path the way git does when it contains characters that
// cannot appear bare in a patch header.
func quotePath(p string) string {
	for _, r := range p {
		if r < 0x20 || r == '"' || r == '\\' || r >= 0x7f {
			return strconv.Quote(p)
		}
	}
	return p
}

func validate(file hunkstage.FileDiff, sel hunkstage.Selection) error {
	for i, picked := range sel {
		if i < 0 || i >= len(file.Hunks) {
			return hunkstage.Errorf(hunkstage.EINVALID, "hunk %d out of range: %s has %d hunks", i, file.File, len(file.Hunks))
		}
		lines := file.Hunks[i].Lines
		for _, j := range picked {
			if j < 1 || j >= len(lines) {
				return hunkstage.Errorf(hunkstage.EINVALID, "line %d out of range in hunk %d of %s", j, i, file.File)
			}
		}
	}
	return nil
}
