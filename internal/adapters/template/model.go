package template

import (
	"encoding/json"
	"fmt"
)

// CleanModel normalizes a decoded specification for the template engine.
// Nulls, empty maps and empty lists are dropped recursively, numbers become
// int64 or float64, and typed containers are re-mapped to map[string]any and []any.
func CleanModel(model map[string]any) map[string]any {
	cleaned, _ := cleanValue(model).(map[string]any)
	if cleaned == nil {
		return map[string]any{}
	}
	return cleaned
}

func cleanValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if c := cleanValue(item); c != nil {
				out[k] = c
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]string:
		generic := make(map[string]any, len(t))
		for k, s := range t {
			generic[k] = s
		}
		return cleanValue(generic)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if c := cleanValue(item); c != nil {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		generic := make([]any, len(t))
		for i, s := range t {
			generic[i] = s
		}
		return cleanValue(generic)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case string, bool, int64, float64:
		return t
	default:
		return fmt.Sprint(t)
	}
}
