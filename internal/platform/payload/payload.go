// Package payload inspects loosely-typed JSON documents decoded into
// map[string]any / []any trees.
package payload

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// MaxSearchDepth caps how deep FindFirst descends into a document.
const MaxSearchDepth = 12

// IsMeaningful reports whether v carries data worth keeping: a non-empty
// array or object, or any non-nil scalar other than the empty string.
func IsMeaningful(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	case string:
		return typed != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return !rv.IsNil() && rv.Len() > 0
	case reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Unwrap strips a top-level DATA envelope (any letter case) when present.
func Unwrap(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for key, inner := range obj {
		if strings.EqualFold(key, "data") {
			return inner
		}
	}
	return v
}

// FindFirst walks the document breadth-first and returns the first non-empty
// scalar stored under any of keys. Keys match case-insensitively and earlier
// keys win within the same object, so shallower matches beat deeper ones.
func FindFirst(root any, keys ...string) (string, bool) {
	if len(keys) == 0 || root == nil {
		return "", false
	}

	type node struct {
		value any
		depth int
	}

	visited := make(map[uintptr]struct{})
	queue := []node{{value: root}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth > MaxSearchDepth {
			continue
		}

		switch typed := current.value.(type) {
		case map[string]any:
			if seen(visited, typed) {
				continue
			}
			for _, key := range keys {
				if value, ok := lookupFold(typed, key); ok {
					if text, ok := Scalar(value); ok && text != "" {
						return text, true
					}
				}
			}
			for _, key := range sortedKeys(typed) {
				if child := typed[key]; isContainer(child) {
					queue = append(queue, node{value: child, depth: current.depth + 1})
				}
			}
		case []any:
			if seen(visited, typed) {
				continue
			}
			for _, child := range typed {
				if isContainer(child) {
					queue = append(queue, node{value: child, depth: current.depth + 1})
				}
			}
		}
	}

	return "", false
}

// Lookup returns obj[key] matching the key case-insensitively.
func Lookup(obj map[string]any, key string) (any, bool) {
	return lookupFold(obj, key)
}

// Field returns the scalar under the first present key of obj.
func Field(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := lookupFold(obj, key)
		if !ok {
			continue
		}
		if text, ok := Scalar(value); ok && text != "" {
			return text
		}
	}
	return ""
}

// Scalar renders strings and numbers as identifier text. Whole floats lose
// their fractional part so 500.0 becomes "500".
func Scalar(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed), true
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10), true
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return Scalar(float64(typed))
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case json.Number:
		return typed.String(), true
	}
	return "", false
}

// Number reads a numeric field, accepting numeric strings; missing values are 0.
func Number(v any) float64 {
	switch typed := v.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case json.Number:
		f, _ := typed.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Objects returns the map elements of a []any, skipping anything else.
func Objects(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func lookupFold(obj map[string]any, key string) (any, bool) {
	if value, ok := obj[key]; ok {
		return value, true
	}
	for candidate, value := range obj {
		if strings.EqualFold(candidate, key) {
			return value, true
		}
	}
	return nil, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func seen(visited map[uintptr]struct{}, v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return false
	}
	ptr := rv.Pointer()
	if _, ok := visited[ptr]; ok {
		return true
	}
	visited[ptr] = struct{}{}
	return false
}
