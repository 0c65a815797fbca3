// Package textutil holds the small string helpers shared by the stores and
// tool handlers. All lengths are measured in runes, not bytes, so multi-byte
// titles and memory content are never cut mid-character.
package textutil

// Truncate returns s cut to at most max runes, with no marker appended.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Ellipsize returns s unchanged when it fits in max runes, otherwise the
// first max-3 runes followed by "...". The result never exceeds max runes.
func Ellipsize(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Preview is like Ellipsize but keeps the first max runes and then appends
// "...", for previews where the visible prefix length matters more than the
// total length.
func Preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Len returns the length of s in runes.
func Len(s string) int {
	return len([]rune(s))
}
