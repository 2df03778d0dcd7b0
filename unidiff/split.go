package unidiff

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/fwojciec/hunkstage"
)

// Split cuts multi-file diff output into one chunk per "diff --git" section.
// Text before the first section header is returned as its own chunk only
// when it contains a hunk, which covers plain "---/+++" diffs.
func Split(text string) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	emit := func() {
		if current.Len() == 0 {
			return
		}
		chunk := current.String()
		if strings.HasPrefix(chunk, "diff --git ") || strings.Contains(chunk, "\n@@") || strings.HasPrefix(chunk, "@@") {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			emit()
		}
		current.WriteString(line)
	}
	emit()
	return chunks
}

// ParseAll parses every file section of a multi-file diff. Files parse
// independently, so a malformed section does not affect the others; their
// EMALFORMED errors are combined.
func (p *Parser) ParseAll(text string) ([]hunkstage.FileDiff, error) {
	chunks := Split(text)
	files := make([]hunkstage.FileDiff, 0, len(chunks))
	var errs error
	for _, chunk := range chunks {
		f, err := p.Parse(chunk, "")
		errs = multierr.Append(errs, err)
		files = append(files, f)
	}
	return files, errs
}
