// Package dto holds request and response bodies of the HTTP API.
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagList is an ordered, de-duplicated list of tags.
// In JSON it accepts either an array of strings or a comma-delimited string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("tags must be a string or an array of strings")
		}
		list = strings.Split(s, ",")
	}
	*t = NormalizeTags(list)
	return nil
}

// ParseTags splits a comma-delimited query value.
func ParseTags(s string) TagList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims items, drops empty ones and removes duplicates keeping the first occurrence.
func NormalizeTags(items []string) TagList {
	out := make(TagList, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
