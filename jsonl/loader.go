// Package jsonl reads batches of apply requests and writes their results as
// JSON Lines.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/hunkstage"
	"github.com/xeipuuv/gojsonschema"
)

// maxLineSize bounds a single request line. Patches of generated files are
// easily larger than bufio's 64KB default.
const maxLineSize = 64 * 1024 * 1024

// requestSchema describes one line of a batch file.
const requestSchema = `{
  "type": "object",
  "required": ["patch"],
  "additionalProperties": false,
  "properties": {
    "patch":   {"type": "string", "minLength": 1},
    "cached":  {"type": "boolean"},
    "reverse": {"type": "boolean"},
    "dir":     {"type": "string"}
  }
}`

var requestSchemaLoader = gojsonschema.NewStringLoader(requestSchema)

// Loader reads apply requests from JSONL files.
type Loader struct{}

// NewLoader creates a new batch loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the requests in the file at path.
func (l *Loader) Load(path string) ([]hunkstage.ApplyRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()
	return l.Read(f)
}

// Read reads requests from r, one JSON object per line. Blank lines are
// skipped. Each line is checked against the request schema.
func (l *Loader) Read(r io.Reader) ([]hunkstage.ApplyRequest, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var reqs []hunkstage.ApplyRequest
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := validate(line); err != nil {
			return nil, hunkstage.Errorf(hunkstage.EINVALID, "line %d: %v", lineNum, err)
		}
		var req hunkstage.ApplyRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, hunkstage.Errorf(hunkstage.EINVALID, "line %d: %v", lineNum, err)
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return reqs, nil
}

func validate(line string) error {
	result, err := gojsonschema.Validate(requestSchemaLoader, gojsonschema.NewStringLoader(line))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(issues, "; "))
}
