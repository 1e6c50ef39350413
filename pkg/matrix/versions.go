package matrix

import (
	"slices"
	"strconv"
	"strings"
)

// versionComponents is the minimum number of numeric components a
// dotted version is padded to before comparison, so "1.2" and
// "1.2.0.1" compare positionally.
const versionComponents = 4

// CompareVersions orders two resolved version strings.
//
// Versions that are not dotted-numeric — the literal "inherited",
// unresolved "${...}" placeholders, and anything without both a dot
// and a digit — form the first group and order lexicographically
// among themselves. Dotted-numeric versions follow, in ascending
// numeric order; equal numeric sequences fall back to lexicographic
// order so the result is total.
func CompareVersions(a, b string) int {
	an, aok := dottedNumeric(a)
	bn, bok := dottedNumeric(b)
	switch {
	case aok && bok:
		if c := slices.Compare(an, bn); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aok:
		return 1
	case bok:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// SortVersions sorts version strings in place using CompareVersions.
func SortVersions(versions []string) {
	slices.SortFunc(versions, CompareVersions)
}

// dottedNumeric parses a version into leading-integer components per
// dot-separated part, padded with zeros to versionComponents. It
// reports false for versions that belong to the literal group.
func dottedNumeric(v string) ([]int, bool) {
	if v == VersionInherited || strings.HasPrefix(v, "${") {
		return nil, false
	}
	if !strings.Contains(v, ".") || !strings.ContainsAny(v, "0123456789") {
		return nil, false
	}

	parts := strings.Split(v, ".")
	nums := make([]int, 0, max(len(parts), versionComponents))
	for _, p := range parts {
		nums = append(nums, leadingInt(p))
	}
	for len(nums) < versionComponents {
		nums = append(nums, 0)
	}
	return nums, true
}

// leadingInt returns the integer value of the leading digit run of s,
// or 0 when s does not start with a digit. Oversized runs saturate.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
