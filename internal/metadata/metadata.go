// Package metadata reads the newline-delimited JSON sidecar whose line order
// matches the row order of the vector index.
package metadata

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/0x5457/vecquery/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrEmptyLine marks a blank line.
var ErrEmptyLine = errors.New("empty line")

// LineResult is the outcome of parsing one line. Exactly one of Record and
// Err is set.
type LineResult struct {
	Line   int // 1-based
	Record *models.Record
	Err    error
}

// OK reports whether the line produced a record.
func (r LineResult) OK() bool { return r.Err == nil }

// Load reads path, decompressing .zst and .gz files on the fly.
func Load(path string) ([]LineResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	results, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return results, nil
}

// Parse splits r into lines and parses each one independently. Only read
// errors are returned; bad lines are reported in their LineResult.
func Parse(r io.Reader) ([]LineResult, error) {
	br := bufio.NewReader(r)
	var results []LineResult
	for line := 1; ; line++ {
		raw, err := br.ReadBytes('\n')
		if len(raw) > 0 {
			results = append(results, parseLine(line, raw))
		}
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseLine(line int, raw []byte) LineResult {
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return LineResult{Line: line, Err: ErrEmptyLine}
	}
	rec, err := models.ParseRecord(raw)
	if err != nil {
		return LineResult{Line: line, Err: err}
	}
	return LineResult{Line: line, Record: rec}
}

// Records keeps the successful lines in order. Positions in the returned
// slice shift past every skipped line; they are not file line numbers.
func Records(results []LineResult) ([]*models.Record, int) {
	records := make([]*models.Record, 0, len(results))
	skipped := 0
	for _, r := range results {
		if !r.OK() {
			skipped++
			continue
		}
		records = append(records, r.Record)
	}
	return records, skipped
}
