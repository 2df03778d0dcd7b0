package jsonl

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/hunkstage"
)

// Response pairs a batch result with the line order of its request.
type Response struct {
	Index int `json:"index"`
	hunkstage.Result
}

// Writer encodes values as JSON Lines.
type Writer struct {
	enc *json.Encoder
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// Write encodes v followed by a newline.
func (w *Writer) Write(v any) error {
	return w.enc.Encode(v)
}

// WriteResults writes one Response per result.
func (w *Writer) WriteResults(results []hunkstage.Result) error {
	for i, res := range results {
		if err := w.Write(Response{Index: i, Result: res}); err != nil {
			return err
		}
	}
	return nil
}
