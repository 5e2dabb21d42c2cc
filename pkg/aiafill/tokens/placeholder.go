// Package tokens builds placeholder dictionaries and resolves {name} tokens in cell text.
package tokens

import (
	"regexp"
	"strings"
)

// SOVPrefix marks tokens resolved per schedule-of-values line item.
const SOVPrefix = "sov_"

var (
	rxToken    = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
	rxSOVToken = regexp.MustCompile(`(?i)\{sov_[A-Za-z0-9_]*\}`)
)

// Dict maps lower-case token names to their replacement text.
type Dict map[string]string

// Lookup resolves name case-insensitively.
func (d Dict) Lookup(name string) (string, bool) {
	v, ok := d[strings.ToLower(name)]
	return v, ok
}

// With returns a new Dict holding d overlaid with overrides.
func (d Dict) With(overrides Dict) Dict {
	out := make(Dict, len(d)+len(overrides))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Replace substitutes every {name} in s with its dictionary value. Unknown
// names become "" and are returned in the order first seen. Replacement text
// is never rescanned, so values containing braces are inserted verbatim.
func Replace(s string, d Dict) (string, []string) {
	if !strings.Contains(s, "{") {
		return s, nil
	}
	var unknown []string
	out := rxToken.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := d.Lookup(name); ok {
			return v
		}
		unknown = appendUnique(unknown, strings.ToLower(name))
		return ""
	})
	return out, unknown
}

// Find returns the lower-case token names in s in order of appearance, without duplicates.
func Find(s string) []string {
	var names []string
	for _, m := range rxToken.FindAllStringSubmatch(s, -1) {
		names = appendUnique(names, strings.ToLower(m[1]))
	}
	return names
}

// HasSOVToken reports whether s carries at least one {sov_*} token.
func HasSOVToken(s string) bool {
	return strings.Contains(s, "{") && rxSOVToken.MatchString(s)
}

// IsSOVName reports whether a token name belongs to the schedule of values.
func IsSOVName(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), SOVPrefix)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// Count returns the number of {name} occurrences in s.
func Count(s string) int {
	return len(rxToken.FindAllStringIndex(s, -1))
}
