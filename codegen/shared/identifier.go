package shared

import "strings"

// MakeIdentifier maps an IR name to a target-legal C identifier: disallowed
// characters become '_', and a digit-leading name is prefixed with '_'
// (spec.md §4.E point 2). The mapping is not injective: two names that
// differ only in characters replaced by '_' (e.g. "a-b" and "a_b") map to
// the same identifier, and no collision check is made.
func MakeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(name) + 1)
	if isDigit(name[0]) {
		b.WriteByte('_')
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAlnum(c) || c == '_' {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
