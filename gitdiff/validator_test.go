package gitdiff_test

import (
	"testing"

	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/gitdiff"
	"github.com/fwojciec/hunkstage/patch"
	"github.com/fwojciec/hunkstage/unidiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modified = `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
-import "os"
+import "fmt"
+import "log"
 func main() {}
`

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a well-formed patch", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, gitdiff.NewValidator().Validate(modified))
	})

	t.Run("accepts every patch the builder produces", func(t *testing.T) {
		t.Parallel()

		file, err := unidiff.NewParser().Parse(modified, "")
		require.NoError(t, err)

		for _, sel := range []hunkstage.Selection{{0: {2}}, {0: {3}}, {0: {2, 4}}} {
			for _, mode := range []hunkstage.PatchMode{hunkstage.PatchStage, hunkstage.PatchUnstage} {
				p, err := patch.NewBuilder().Build(file, sel, mode)
				require.NoError(t, err)
				assert.NoError(t, gitdiff.NewValidator().Validate(p), p)
			}
		}
	})

	t.Run("rejects a hunk that miscounts its lines", func(t *testing.T) {
		t.Parallel()

		err := gitdiff.NewValidator().Validate(`diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@
 package main
+import "fmt"
`)

		require.Error(t, err)
		assert.Equal(t, hunkstage.EINVALID, hunkstage.ErrorCode(err))
	})

	t.Run("rejects text with no file changes", func(t *testing.T) {
		t.Parallel()

		err := gitdiff.NewValidator().Validate("just some text\n")

		require.Error(t, err)
		assert.Equal(t, hunkstage.EINVALID, hunkstage.ErrorCode(err))
		assert.Equal(t, "patch contains no file changes", hunkstage.ErrorMessage(err))
	})
}

func TestValidator_Stat(t *testing.T) {
	t.Parallel()

	stats, err := gitdiff.NewValidator().Stat(modified + `diff --git a/old.txt b/old.txt
deleted file mode 100644
--- a/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-one
-two
`)

	require.NoError(t, err)
	assert.Equal(t, []hunkstage.FileStat{
		{File: "main.go", Added: 2, Deleted: 1},
		{File: "old.txt", Added: 0, Deleted: 2},
	}, stats)
}
