package upload

import (
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Draft is the in-progress value of a form. It is immutable: Apply returns a
// new Draft and never touches the one passed in.
type Draft struct {
	values   map[string]any
	original map[string]any
	required []string
	partial  bool
}

// NewDraft starts an empty create form.
func NewDraft(required ...string) Draft {
	return Draft{values: map[string]any{}, required: required}
}

// EditDraft starts an edit form pre-filled with original.
func EditDraft(original map[string]any, required ...string) Draft {
	orig := deepCopy(original)
	if orig == nil {
		orig = map[string]any{}
	}
	return Draft{values: deepCopy(orig), original: orig, required: required}
}

// Partial marks the draft to submit only top-level keys that differ from
// the original.
func (d Draft) Partial() Draft {
	d.partial = true
	return d
}

func (d Draft) IsEdit() bool { return d.original != nil }

// Apply sets the value at a dot-separated path such as
// "engineAndTransmission.motorPower". Missing or non-map intermediate
// levels are replaced by maps. An empty path returns d unchanged.
func Apply(d Draft, path string, value any) Draft {
	if path == "" {
		return d
	}
	parts := strings.Split(path, ".")
	d.values = setIn(d.values, parts, value)
	return d
}

// setIn copies only the maps along the path; untouched branches are shared
// between the old and new draft, which is safe because neither mutates them.
func setIn(m map[string]any, parts []string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if len(parts) == 1 {
		out[parts[0]] = value
		return out
	}
	child, _ := m[parts[0]].(map[string]any)
	out[parts[0]] = setIn(child, parts[1:], value)
	return out
}

// Get reads the value at path.
func (d Draft) Get(path string) (any, bool) {
	var cur any = d.values
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Values returns a copy of the current values.
func (d Draft) Values() map[string]any {
	return deepCopy(d.values)
}

var equateEmpty = cmpopts.EquateEmpty()

// Changed reports whether an edit draft differs from its original. Create
// drafts always count as changed.
func (d Draft) Changed() bool {
	if !d.IsEdit() {
		return true
	}
	return !cmp.Equal(d.original, d.values, equateEmpty)
}

// Changes lists the top-level keys whose value differs from the original.
func (d Draft) Changes() map[string]any {
	out := map[string]any{}
	for k, v := range d.values {
		if o, ok := d.original[k]; ok && cmp.Equal(o, v, equateEmpty) {
			continue
		}
		out[k] = deepCopyValue(v)
	}
	return out
}

// Missing lists required paths that are absent or empty, in declaration
// order.
func (d Draft) Missing() []string {
	var out []string
	for _, p := range d.required {
		v, ok := d.Get(p)
		if !ok || isEmpty(v) {
			out = append(out, p)
		}
	}
	return out
}

// Payload is what gets submitted: the changed keys for partial drafts,
// otherwise every value.
func (d Draft) Payload() map[string]any {
	if d.partial && d.IsEdit() {
		return d.Changes()
	}
	return d.Values()
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func deepCopy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
