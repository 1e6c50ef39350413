package pom

import (
	"regexp"
	"strings"
)

// placeholderPattern matches ${name} where name is any run of characters
// other than '}'. A bare "${}" has an empty name and never matches.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Resolve substitutes ${name} placeholders in text from props and returns
// the result. The input is scanned exactly once, left to right: a
// replacement value is spliced in verbatim and never re-scanned, so
// properties that reference other properties stay one level deep. Unknown
// names are left in place untouched. Resolve never fails and has no side
// effects; text without placeholders comes back as-is.
func Resolve(text string, props map[string]string) string {
	if len(props) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := props[m[2:len(m)-1]]; ok {
			return v
		}
		return m
	})
}
