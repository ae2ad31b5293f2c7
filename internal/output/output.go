// Package output writes the single JSON value a query prints on stdout.
package output

import (
	"encoding/json"
	"io"

	"github.com/0x5457/vecquery/internal/models"
)

// WriteResults writes records as one compact JSON array followed by a
// newline. A nil slice is written as [].
func WriteResults(w io.Writer, records []*models.Record) error {
	if records == nil {
		records = []*models.Record{}
	}
	return encode(w, records)
}

// WriteError writes {"error":msg}.
func WriteError(w io.Writer, msg string) error {
	return encode(w, struct {
		Error string `json:"error"`
	}{Error: msg})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
