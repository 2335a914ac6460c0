package catalog

import (
	"strconv"
	"strings"
)

// ParseBool reports whether s spells "true" once trimmed, ignoring case.
// Every other value, "1" and "yes" included, is false.
func ParseBool(s string) bool {
	return strings.ToLower(strings.TrimSpace(s)) == "true"
}

// ParseInt parses the leading base-10 integer of s. Leading whitespace and a
// sign are accepted and trailing garbage is ignored, so "2021 (rev.)" gives
// 2021. ok is false when s does not start with a number.
func ParseInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
