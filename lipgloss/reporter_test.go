package lipgloss_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/chroma"
	hlipgloss "github.com/fwojciec/hunkstage/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trueColorRenderer creates a lipgloss renderer that outputs true colors.
func trueColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

func asciiRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(nil, termenv.WithProfile(termenv.Ascii))
}

var blamed = []hunkstage.BlameLine{
	{Hash: "abcdef01", Author: "Jane Doe", AuthorTime: "2023-11-14T22:13:20.000Z", LineNumber: 9, Content: "package main"},
	{Hash: "01234567", Author: "Al", AuthorTime: "2023-11-15T08:00:00.000Z", LineNumber: 10, Content: "\treturn nil"},
}

func TestReporter_Blame(t *testing.T) {
	t.Parallel()

	t.Run("aligns columns and expands tabs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := hlipgloss.NewReporter(asciiRenderer())

		require.NoError(t, r.Blame(&buf, "", blamed))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "abcdef01 Jane Doe 2023-11-14  9 │ package main", lines[0])
		assert.Equal(t, "01234567 Al       2023-11-15 10 │         return nil", lines[1])
	})

	t.Run("highlights content with the tokenizer", func(t *testing.T) {
		t.Parallel()

		theme := hlipgloss.TestTheme()
		tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette()))
		require.NoError(t, err)

		var buf bytes.Buffer
		r := hlipgloss.NewReporter(trueColorRenderer(), hlipgloss.WithTheme(theme), hlipgloss.WithTokenizer(tokenizer))

		require.NoError(t, r.Blame(&buf, "go", blamed))

		// Keyword color #010101 as a 24-bit foreground sequence.
		assert.Contains(t, buf.String(), "38;2;1;1;1")
		assert.Contains(t, buf.String(), "package")
	})

	t.Run("no lines writes nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, hlipgloss.NewReporter(asciiRenderer()).Blame(&buf, "go", nil))
		assert.Empty(t, buf.String())
	})
}

func TestReporter_Stats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := hlipgloss.NewReporter(asciiRenderer())

	err := r.Stats(&buf, []hunkstage.FileStat{
		{File: "main.go", Added: 2, Deleted: 1},
		{File: "logo.png", Binary: true},
	})

	require.NoError(t, err)
	assert.Equal(t, " main.go  | +2 -1\n logo.png | Bin\n 2 files changed, 2 insertions(+), 1 deletions(-)\n", buf.String())
}

func TestReporter_Result(t *testing.T) {
	t.Parallel()

	t.Run("success prints output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, hlipgloss.NewReporter(asciiRenderer()).Result(&buf, hunkstage.Result{Success: true, Output: "done"}))
		assert.Equal(t, "done\n", buf.String())
	})

	t.Run("failure prints code and message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		res := hunkstage.Result{Error: "error: patch does not apply", ExitCode: 1, Code: hunkstage.ETOOL}

		require.NoError(t, hlipgloss.NewReporter(asciiRenderer()).Result(&buf, res))
		assert.Contains(t, buf.String(), "error (tool):")
		assert.Contains(t, buf.String(), "error: patch does not apply")
	})

	t.Run("failure uses the palette error color", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := hlipgloss.NewReporter(trueColorRenderer(), hlipgloss.WithTheme(hlipgloss.TestTheme()))

		require.NoError(t, r.Result(&buf, hunkstage.Result{Error: "boom", Code: hunkstage.ESPAWN}))
		assert.Contains(t, buf.String(), "38;2;255;0;255")
	})
}
