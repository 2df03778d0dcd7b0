package unidiff

import "github.com/fwojciec/hunkstage"

// Tracker assigns old/new line numbers to the body lines of one hunk.
//
// Context lines advance both counters, deletions only the old counter and
// additions only the new counter. Each hunk gets its own Tracker.
type Tracker struct {
	oldLine int
	newLine int
}

// NewTracker returns a Tracker seeded with the hunk's start offsets.
func NewTracker(oldStart, newStart int) *Tracker {
	return &Tracker{oldLine: oldStart, newLine: newStart}
}

// Position returns the numbers the next old-side and new-side lines will get.
func (t *Tracker) Position() (oldLine, newLine int) {
	return t.oldLine, t.newLine
}

// Context numbers an unchanged line.
func (t *Tracker) Context(content string) hunkstage.ContextLine {
	l := hunkstage.ContextLine{Content: content, OldLineNumber: t.oldLine, NewLineNumber: t.newLine}
	t.oldLine++
	t.newLine++
	return l
}

// Addition numbers an added line.
func (t *Tracker) Addition(content string) hunkstage.AdditionLine {
	l := hunkstage.AdditionLine{Content: content, NewLineNumber: t.newLine}
	t.newLine++
	return l
}

// Deletion numbers a removed line.
func (t *Tracker) Deletion(content string) hunkstage.DeletionLine {
	l := hunkstage.DeletionLine{Content: content, OldLineNumber: t.oldLine}
	t.oldLine++
	return l
}
