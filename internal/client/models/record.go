package models

import (
	"fmt"
	"sort"
	"strings"
)

// Record is a catalog document. Nested sections (for example a vehicle's
// "engineAndTransmission") are nested maps.
type Record map[string]any

// ID returns the document id, accepting both "_id" and "id".
func (r Record) ID() string {
	for _, k := range []string{"_id", "id"} {
		if v, ok := r[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Title is the best human label for the record.
func (r Record) Title() string {
	for _, k := range []string{"name", "title", "username"} {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return r.ID()
}

// Lookup resolves a dot-separated path such as "performance.batteryWarranty".
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Strings returns the string elements stored under key, e.g. "images".
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Flatten lists every leaf as "a.b.c" = value, sorted by path.
func (r Record) Flatten() []Field {
	var out []Field
	flatten("", map[string]any(r), &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Field is one flattened leaf of a Record.
type Field struct {
	Path  string
	Value any
}

func flatten(prefix string, m map[string]any, out *[]Field) {
	for k, v := range m {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(p, sub, out)
			continue
		}
		*out = append(*out, Field{Path: p, Value: v})
	}
}
