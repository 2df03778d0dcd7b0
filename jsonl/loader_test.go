package jsonl_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/hunkstage"
	"github.com/fwojciec/hunkstage/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads valid JSONL file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "batch.jsonl")
		content := `{"patch":"diff --git a/a b/a\n","cached":true}
{"patch":"diff --git a/b b/b\n","cached":true,"reverse":true,"dir":"/repo"}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		loader := jsonl.NewLoader()
		reqs, err := loader.Load(path)

		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, hunkstage.ApplyRequest{Patch: "diff --git a/a b/a\n", Cached: true}, reqs[0])
		assert.Equal(t, hunkstage.ApplyOptions{Cached: true, Reverse: true, Dir: "/repo"}, reqs[1].Options())
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		loader := jsonl.NewLoader()
		_, err := loader.Load("/nonexistent/path.jsonl")

		assert.Error(t, err)
	})

	t.Run("returns error for malformed JSON line", func(t *testing.T) {
		t.Parallel()

		content := `{"patch":"p1"}
not valid json
{"patch":"p3"}`

		_, err := jsonl.NewLoader().Read(strings.NewReader(content))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
		assert.Equal(t, hunkstage.EINVALID, hunkstage.ErrorCode(err))
	})

	t.Run("rejects lines that do not match the request schema", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"missing patch": `{"cached":true}`,
			"empty patch":   `{"patch":""}`,
			"wrong type":    `{"patch":"p","cached":"yes"}`,
			"unknown field": `{"patch":"p","force":true}`,
		}
		for name, line := range cases {
			_, err := jsonl.NewLoader().Read(strings.NewReader(line))

			require.Error(t, err, name)
			assert.Contains(t, err.Error(), "line 1", name)
		}
	})

	t.Run("handles empty file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "empty.jsonl")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		loader := jsonl.NewLoader()
		reqs, err := loader.Load(path)

		require.NoError(t, err)
		assert.Empty(t, reqs)
	})

	t.Run("skips empty lines", func(t *testing.T) {
		t.Parallel()

		content := `{"patch":"p1"}

{"patch":"p2"}`

		reqs, err := jsonl.NewLoader().Read(strings.NewReader(content))

		require.NoError(t, err)
		assert.Len(t, reqs, 2)
	})

	t.Run("handles large lines exceeding default buffer", func(t *testing.T) {
		t.Parallel()

		// Create a line larger than default scanner buffer (64KB)
		large := strings.Repeat("x", 100*1024)
		content := `{"patch":"` + large + `"}`

		reqs, err := jsonl.NewLoader().Read(strings.NewReader(content))

		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Len(t, reqs[0].Patch, 100*1024)
	})
}

func TestWriter_WriteResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := jsonl.NewWriter(&buf)

	err := w.WriteResults([]hunkstage.Result{
		{Success: true, Output: "<ok>"},
		{Error: "error: patch failed", Stderr: "error: patch failed", ExitCode: 1, Code: hunkstage.ETOOL},
	})

	require.NoError(t, err)
	assert.Equal(t,
		`{"index":0,"success":true,"output":"<ok>","stderr":"","exitCode":0}`+"\n"+
			`{"index":1,"success":false,"output":"","error":"error: patch failed","stderr":"error: patch failed","exitCode":1,"code":"tool"}`+"\n",
		buf.String())
}
