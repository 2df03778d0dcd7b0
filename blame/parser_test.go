package blame_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/blame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "abcdef0123456789abcdef0123456789abcdef01"
	hashB = "0123456789abcdef0123456789abcdef01234567"
)

func porcelain(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("single annotated line", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			hashA+" 1 1 1",
			"author Jane Doe",
			"author-time 1700000000",
			"\tconsole.log('hi');",
		)

		lines := blame.NewParser().Parse(input)

		assert.Equal(t, []hunkstage.BlameLine{{
			Hash:       "abcdef01",
			Author:     "Jane Doe",
			AuthorTime: "2023-11-14T22:13:20.000Z",
			LineNumber: 1,
			Content:    "console.log('hi');",
		}}, lines)
	})

	t.Run("keeps carriage returns in content", func(t *testing.T) {
		t.Parallel()

		input := hashA + " 1 1 1\r\nauthor Jane Doe\r\nauthor-time 1700000000\r\n\tx := 1\r\n"

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 1)
		assert.Equal(t, "Jane Doe", lines[0].Author)
		assert.Equal(t, "2023-11-14T22:13:20.000Z", lines[0].AuthorTime)
		assert.Equal(t, "x := 1\r", lines[0].Content)
	})

	t.Run("uses the final line number, not the original one", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			hashA+" 3 17 2",
			"author Jane Doe",
			"author-time 1700000000",
			"\tfirst",
			hashA+" 4 18",
			"\tsecond",
		)

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 2)
		assert.Equal(t, 17, lines[0].LineNumber)
		assert.Equal(t, 18, lines[1].LineNumber)
	})

	t.Run("continuation lines keep the pending metadata", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			hashA+" 1 1 2",
			"author Jane Doe",
			"author-mail <jane@example.com>",
			"author-time 1700000000",
			"author-tz +0000",
			"committer Jane Doe",
			"committer-time 1700000000",
			"summary Initial commit",
			"filename main.go",
			"\tpackage main",
			hashA+" 2 2",
			"\t",
		)

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 2)
		assert.Equal(t, "Jane Doe", lines[1].Author)
		assert.Equal(t, "abcdef01", lines[1].Hash)
		assert.Equal(t, "2023-11-14T22:13:20.000Z", lines[1].AuthorTime)
		assert.Equal(t, "", lines[1].Content)
	})

	t.Run("reappearing commit keeps its own author", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			hashA+" 1 1 1",
			"author Jane Doe",
			"author-time 1700000000",
			"\tone",
			hashB+" 2 2 1",
			"author John Roe",
			"author-time 1700003600",
			"\ttwo",
			hashA+" 3 3 1",
			"filename main.go",
			"\tthree",
		)

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 3)
		assert.Equal(t, "John Roe", lines[1].Author)
		assert.Equal(t, "01234567", lines[1].Hash)
		assert.Equal(t, "Jane Doe", lines[2].Author)
		assert.Equal(t, "abcdef01", lines[2].Hash)
		assert.Equal(t, "2023-11-14T22:13:20.000Z", lines[2].AuthorTime)
	})

	t.Run("missing author-time leaves an empty time", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			hashA+" 1 1 1",
			"author Jane Doe",
			"\tx",
		)

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 1)
		assert.Equal(t, "", lines[0].AuthorTime)
	})

	t.Run("empty input yields an empty list", func(t *testing.T) {
		t.Parallel()

		lines := blame.NewParser().Parse("")

		assert.NotNil(t, lines)
		assert.Empty(t, lines)
	})

	t.Run("ignores headers that are not full hashes", func(t *testing.T) {
		t.Parallel()

		input := porcelain(
			"abcdef01 1 1 1",
			"author Nobody",
			"\tx",
		)

		lines := blame.NewParser().Parse(input)

		require.Len(t, lines, 1)
		assert.Empty(t, lines[0].Hash)
	})
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1970-01-01T00:00:00.000Z", blame.FormatTime("0"))
	assert.Equal(t, "2023-11-14T22:13:20.000Z", blame.FormatTime("1700000000"))
	assert.Equal(t, "", blame.FormatTime("soon"))
}

func TestFilterRange(t *testing.T) {
	t.Parallel()

	lines := []hunkstage.BlameLine{{LineNumber: 1}, {LineNumber: 2}, {LineNumber: 3}, {LineNumber: 4}}

	t.Run("keeps lines inside the range", func(t *testing.T) {
		t.Parallel()

		got := blame.FilterRange(lines, 2, 3)

		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].LineNumber)
		assert.Equal(t, 3, got[1].LineNumber)
	})

	t.Run("zero end is unbounded", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, blame.FilterRange(lines, 3, 0), 2)
	})

	t.Run("range with no lines is empty, not nil", func(t *testing.T) {
		t.Parallel()

		got := blame.FilterRange(lines, 10, 20)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
