package vector

import (
	"strconv"
	"strings"

	"github.com/simonhull/geometa/internal/datasource"
)

// schema accumulates field labels from attribute values. A field whose
// values disagree on type is labeled String, as is a field that only
// ever holds nulls.
type schema map[string]string

func (s schema) observe(name string, label string, ok bool) {
	prev, seen := s[name]
	switch {
	case !ok:
		if !seen {
			s[name] = ""
		}
	case !seen || prev == "":
		s[name] = label
	case prev != label:
		s[name] = datasource.LabelString
	}
}

// labels returns the final field labels.
func (s schema) labels() map[string]string {
	out := make(map[string]string, len(s))
	for name, label := range s {
		if label == "" {
			label = datasource.LabelString
		}
		out[name] = label
	}
	return out
}

// valueLabel labels a decoded JSON value. Nulls carry no type.
func valueLabel(v any) (string, bool) {
	switch v.(type) {
	case nil:
		return "", false
	case float64, float32, int, int64:
		return datasource.LabelNumber, true
	case bool:
		return datasource.LabelBoolean, true
	}
	return datasource.LabelString, true
}

// textLabel labels a delimited text value. Empty cells carry no type.
func textLabel(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return datasource.LabelNumber, true
	}
	switch strings.ToLower(v) {
	case "true", "false":
		return datasource.LabelBoolean, true
	}
	return datasource.LabelString, true
}
