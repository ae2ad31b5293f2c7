package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DistanceField is the key the join step writes onto every result record.
const DistanceField = "distance"

// Record is one metadata line. Objects keep their key order and the raw
// bytes of each value; any other JSON value is kept verbatim.
type Record struct {
	raw    json.RawMessage
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// ParseRecord parses a single JSON value.
func ParseRecord(data []byte) (*Record, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	rec := &Record{raw: raw}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		fields := orderedmap.New[string, json.RawMessage]()
		if err := fields.UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		rec.fields = fields
	}
	return rec, nil
}

// IsObject reports whether the record is a JSON object.
func (r *Record) IsObject() bool { return r.fields != nil }

// Get returns the raw value stored under key.
func (r *Record) Get(key string) (json.RawMessage, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Keys returns the object keys in file order.
func (r *Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// SetDistance writes the distance field in place. An existing key keeps its
// position; otherwise the field is appended.
func (r *Record) SetDistance(d float32) error {
	if r.fields == nil {
		return fmt.Errorf("record is not a JSON object: %s", truncate(r.raw, 40))
	}
	if math.IsNaN(float64(d)) || math.IsInf(float64(d), 0) {
		return fmt.Errorf("distance %v is not representable in JSON", d)
	}
	r.fields.Set(DistanceField, json.RawMessage(formatFloat32(d)))
	return nil
}

// MarshalJSON writes the record with its original key order and without
// HTML escaping.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return r.raw, nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := marshalNoEscape(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(pair.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// formatFloat32 uses the shortest representation that round-trips a float32,
// so 3.2 prints as 3.2 and not 3.200000047683716.
func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Neighbor is one slot of a k-NN answer: either a match on an index row or
// an empty slot.
type Neighbor struct {
	Row      int64
	Distance float32
	Found    bool
}

// Match returns a neighbor for index row `row`.
func Match(row int64, distance float32) Neighbor {
	return Neighbor{Row: row, Distance: distance, Found: true}
}

// NoMatch returns an empty slot.
func NoMatch() Neighbor { return Neighbor{Row: -1} }
