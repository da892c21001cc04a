package models

import (
	"encoding/json"
	"strings"
)

// splitExtra decodes a JSON object and returns the keys not listed in known.
// The Mongo _id and keys Mongo would read as operators or paths are dropped.
func splitExtra(data []byte, known map[string]bool) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]any
	for k, v := range all {
		if known[k] || !IsStorableField(k) {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, nil
}

// mergeExtra marshals known and adds every extra key it does not already carry.
func mergeExtra(known any, extra map[string]any) ([]byte, error) {
	raw, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return raw, err
	}
	out := make(map[string]any, len(extra)+4)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// IsStorableField reports whether a client supplied key can be written as a
// top-level document field.
func IsStorableField(key string) bool {
	return key != "" && key != "_id" && !strings.HasPrefix(key, "$") && !strings.Contains(key, ".")
}
