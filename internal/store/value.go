package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// normalizeDocument returns a deep copy of doc holding only the types a
// snapshot reload yields: map[string]any, []any, string, bool, nil, int64
// and float64. Integers stay int64 so that ids keep their precision.
func normalizeDocument(doc Document) (Document, error) {
	if doc == nil {
		return Document{}, nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return decodeDocument(body)
}

// decodeDocument parses a JSON object into a normalized Document.
func decodeDocument(body []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	return doc, nil
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeValue(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeValue(item)
		}
		return v
	}
	return v
}

// cloneDocument deep-copies a normalized document.
func cloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

// indexKey maps a value to the key it is indexed under. Numbers of any Go
// type share one decimal form, so 7, int64(7) and 7.0 are the same key, and
// never collide with the string "7".
func indexKey(v any) string {
	switch v := v.(type) {
	case string:
		return "s:" + v
	case int:
		return "n:" + strconv.FormatInt(int64(v), 10)
	case int8:
		return "n:" + strconv.FormatInt(int64(v), 10)
	case int16:
		return "n:" + strconv.FormatInt(int64(v), 10)
	case int32:
		return "n:" + strconv.FormatInt(int64(v), 10)
	case int64:
		return "n:" + strconv.FormatInt(v, 10)
	case uint:
		return "n:" + strconv.FormatUint(uint64(v), 10)
	case uint8:
		return "n:" + strconv.FormatUint(uint64(v), 10)
	case uint16:
		return "n:" + strconv.FormatUint(uint64(v), 10)
	case uint32:
		return "n:" + strconv.FormatUint(uint64(v), 10)
	case uint64:
		return "n:" + strconv.FormatUint(v, 10)
	case float32:
		return floatKey(float64(v))
	case float64:
		return floatKey(v)
	case json.Number:
		return indexKey(normalizeValue(v))
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func floatKey(f float64) string {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return "n:" + strconv.FormatInt(int64(f), 10)
	}
	return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
}
