// Package lipgloss renders blame annotations, patch statistics and apply
// results for the terminal.
package lipgloss

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/hunkstage"
)

// Reporter writes styled, human-readable output.
type Reporter struct {
	renderer  *lipgloss.Renderer
	palette   hunkstage.Palette
	tokenizer hunkstage.Tokenizer
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTheme sets the color theme.
func WithTheme(t Theme) Option {
	return func(r *Reporter) { r.palette = t.Palette() }
}

// WithTokenizer enables syntax highlighting of blamed content.
func WithTokenizer(t hunkstage.Tokenizer) Option {
	return func(r *Reporter) { r.tokenizer = t }
}

// NewReporter creates a reporter drawing through renderer, which decides the
// color profile.
func NewReporter(renderer *lipgloss.Renderer, opts ...Option) *Reporter {
	r := &Reporter{renderer: renderer, palette: DefaultTheme().Palette()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) fg(c hunkstage.Color) lipgloss.Style {
	return r.renderer.NewStyle().Foreground(lipgloss.Color(string(c)))
}

// Blame writes one row per line: short hash, author, date, line number and
// content. language selects the highlighter and may be empty.
func (r *Reporter) Blame(w io.Writer, language string, lines []hunkstage.BlameLine) error {
	authorWidth, numWidth := 0, 1
	contents := make([]string, len(lines))
	for i, l := range lines {
		authorWidth = max(authorWidth, lipgloss.Width(l.Author))
		numWidth = max(numWidth, len(strconv.Itoa(l.LineNumber)))
		contents[i] = l.Content
	}

	var highlighted [][]hunkstage.Token
	if r.tokenizer != nil && language != "" {
		highlighted = r.tokenizer.TokenizeLines(language, strings.Join(contents, "\n"))
	}

	hash := r.fg(r.palette.Hash)
	author := r.fg(r.palette.Author)
	muted := r.fg(r.palette.Muted)
	for i, l := range lines {
		date := l.AuthorTime
		if len(date) >= 10 {
			date = date[:10]
		}
		row := hash.Render(fmt.Sprintf("%-8s", l.Hash)) + " " +
			author.Render(pad(l.Author, authorWidth)) + " " +
			muted.Render(fmt.Sprintf("%-10s", date)) + " " +
			muted.Render(fmt.Sprintf("%*d", numWidth, l.LineNumber)) + " " +
			muted.Render("│") + " " +
			r.content(l.Content, highlighted, i)
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// content renders line i, highlighted when tokens for it exist.
func (r *Reporter) content(text string, highlighted [][]hunkstage.Token, i int) string {
	if i >= len(highlighted) {
		return ExpandTabs(text)
	}
	var b strings.Builder
	col := 0
	for _, tok := range highlighted[i] {
		s := r.renderer.NewStyle().Bold(tok.Style.Bold)
		if tok.Style.Foreground != "" {
			s = s.Foreground(lipgloss.Color(tok.Style.Foreground))
		}
		var seg string
		seg, col = expandTabsFrom(tok.Text, col)
		b.WriteString(s.Render(seg))
	}
	return b.String()
}

// Stats writes a diffstat-like summary of a patch.
func (r *Reporter) Stats(w io.Writer, stats []hunkstage.FileStat) error {
	width := 0
	for _, st := range stats {
		width = max(width, lipgloss.Width(st.File))
	}
	added := r.fg(r.palette.Added)
	deleted := r.fg(r.palette.Deleted)
	var totalAdded, totalDeleted int
	for _, st := range stats {
		change := added.Render(fmt.Sprintf("+%d", st.Added)) + " " + deleted.Render(fmt.Sprintf("-%d", st.Deleted))
		if st.Binary {
			change = "Bin"
		}
		if _, err := fmt.Fprintf(w, " %s | %s\n", pad(st.File, width), change); err != nil {
			return err
		}
		totalAdded += st.Added
		totalDeleted += st.Deleted
	}
	noun := "files"
	if len(stats) == 1 {
		noun = "file"
	}
	_, err := fmt.Fprintf(w, " %d %s changed, %d insertions(+), %d deletions(-)\n", len(stats), noun, totalAdded, totalDeleted)
	return err
}

// Result writes the outcome of a git invocation. Failures are written with
// their error code so scripts can tell spawn failures from tool failures.
func (r *Reporter) Result(w io.Writer, res hunkstage.Result) error {
	if res.Success {
		if res.Output == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, res.Output)
		return err
	}
	msg := res.Error
	if msg == "" {
		msg = hunkstage.ErrorMessage(res.Err())
	}
	label := "error"
	if res.Code != "" {
		label += " (" + res.Code + ")"
	}
	_, err := fmt.Fprintln(w, r.fg(r.palette.Error).Bold(true).Render(label+":")+" "+msg)
	return err
}

// pad right-pads s with spaces to width display columns.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
