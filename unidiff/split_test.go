package unidiff_test

import (
	"testing"

	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/unidiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFiles = `diff --git a/file1.go b/file1.go
index abc123..def456 100644
--- a/file1.go
+++ b/file1.go
@@ -1,2 +1,3 @@
 package file1
+// comment

diff --git a/file2.go b/file2.go
index 111222..333444 100644
--- a/file2.go
+++ b/file2.go
@@ -5,3 +5,4 @@
 func foo() {
+	bar()
 }
`

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("cuts at diff --git headers", func(t *testing.T) {
		t.Parallel()

		chunks := unidiff.Split(twoFiles)

		require.Len(t, chunks, 2)
		assert.Contains(t, chunks[0], "a/file1.go")
		assert.NotContains(t, chunks[0], "file2.go")
		assert.Contains(t, chunks[1], "a/file2.go")
	})

	t.Run("ignores leading noise", func(t *testing.T) {
		t.Parallel()

		chunks := unidiff.Split("warning: something\n" + twoFiles)

		assert.Len(t, chunks, 2)
	})

	t.Run("keeps a headerless diff", func(t *testing.T) {
		t.Parallel()

		chunks := unidiff.Split("--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n")

		assert.Len(t, chunks, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, unidiff.Split(""))
	})
}

func TestParser_ParseAll(t *testing.T) {
	t.Parallel()

	t.Run("parses each file independently", func(t *testing.T) {
		t.Parallel()

		files, err := unidiff.NewParser().ParseAll(twoFiles)
		require.NoError(t, err)
		require.Len(t, files, 2)

		assert.Equal(t, "file1.go", files[0].File)
		assert.Equal(t, "file2.go", files[1].File)
		require.Len(t, files[1].Hunks, 1)
		assert.Equal(t, hunkstage.AdditionLine{Content: "\tbar()", NewLineNumber: 6}, files[1].Hunks[0].Lines[2])
	})

	t.Run("combines malformed errors", func(t *testing.T) {
		t.Parallel()

		input := "diff --git a/a b/a\n@@ bad\ndiff --git a/b b/b\n@@ worse\n"
		files, err := unidiff.NewParser().ParseAll(input)

		require.Error(t, err)
		assert.Len(t, files, 2)
		assert.Contains(t, err.Error(), "@@ bad")
		assert.Contains(t, err.Error(), "@@ worse")
	})
}
