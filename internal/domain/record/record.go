// Package record holds the raw, store-shaped rows returned by a search.
package record

import (
	"fmt"
	"strconv"
)

// Well-known keys.
const (
	KeyID         = "_id"
	KeyHighlights = "highlights"
)

// Record is one row as returned by the store: field name to plain Go value.
// Nested documents are map[string]any and arrays are []any.
type Record map[string]any

// HighlightText is one fragment of a store-supplied highlight.
type HighlightText struct {
	Value string
	Type  string
}

// Highlight is a store-supplied highlight span before reconciliation.
type Highlight struct {
	Path  string
	Score float64
	Texts []HighlightText
}

// ID returns the string form of the store identifier.
func (r Record) ID() string {
	switch v := r[KeyID].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	if key == "" {
		return false
	}
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value at key rendered as a string.
// Strings pass through; numbers and booleans are formatted; documents,
// arrays and nil are reported as absent.
func (r Record) String(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	switch v := r[key].(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// NonEmptyString is String restricted to non-empty values.
func (r Record) NonEmptyString(key string) (string, bool) {
	s, ok := r.String(key)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Highlights returns the store-supplied highlight spans.
// ok is false when the record carries no highlights structure at all;
// an empty structure yields ok=true with no spans.
func (r Record) Highlights() ([]Highlight, bool) {
	raw, ok := r[KeyHighlights]
	if !ok || raw == nil {
		return nil, false
	}
	items, isList := raw.([]any)
	if !isList {
		return nil, false
	}
	out := make([]Highlight, 0, len(items))
	for _, it := range items {
		m, isMap := it.(map[string]any)
		if !isMap {
			continue
		}
		h := Highlight{Score: toFloat(m["score"])}
		h.Path, _ = m["path"].(string)
		if texts, isTexts := m["texts"].([]any); isTexts {
			for _, tx := range texts {
				tm, isTM := tx.(map[string]any)
				if !isTM {
					continue
				}
				var ht HighlightText
				ht.Value, _ = tm["value"].(string)
				ht.Type, _ = tm["type"].(string)
				h.Texts = append(h.Texts, ht)
			}
		}
		out = append(out, h)
	}
	return out, true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
